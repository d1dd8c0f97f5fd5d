package main

import (
	"connect/communication/client"
	"connect/communication/server"
	"connect/engine"
	"connect/experiments"
	"connect/game"
	"connect/gamemaster"
	"connect/meta"
	"connect/player"
	"connect/searcher"
	"connect/searcher/agent"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	gameName := flag.String("game", game.Connect4Name, "Game to play: connect4 or toot-otto")
	size := flag.String("size", "standard", "Board size: standard or large")
	mode := flag.String("mode", "easy", "Opponent: pvp, easy, hard or ai (AI against AI)")
	token := flag.String("token", "", "Symbol the human plays, defaults to the first player")
	serve := flag.Bool("serve", false, "Run the game server")
	addr := flag.String("addr", meta.ADDR, "Listen address of the game server")
	remote := flag.String("remote", "", "Ask the game server at this URL for AI moves")
	experiment := flag.String("experiment", "", "Run an experiment: strength or throughput")
	games := flag.Int("games", meta.EXPERIMENT_GAMES, "Games per experiment match up")
	out := flag.String("out", meta.RESULTS_DIR, "Directory for experiment results")
	seed := flag.Uint64("seed", uint64(time.Now().UnixNano()), "Seed for AI tie-breaks")
	debug := flag.Bool("debug", false, "Log search details")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if *serve {
		srv := server.NewServer(gamemaster.NewRegistry())
		if err := srv.ListenAndServe(*addr); err != nil {
			log.Fatal().Msgf("server stopped: %v", err)
		}
		return
	}

	rules, err := game.NewRules(*gameName)
	if err != nil {
		log.Fatal().Msgf("%v", err)
	}

	if *experiment != "" {
		runExperiment(*experiment, rules, *games, *out, *seed)
		return
	}

	boardSize, err := game.ParseBoardSize(*size)
	if err != nil {
		log.Fatal().Msgf("%v", err)
	}
	human, err := game.ParseSymbol(*token)
	if err != nil {
		log.Fatal().Msgf("%v", err)
	}
	human = human.Or(rules.Players()[0])

	options, err := seatPlayers(rules, *mode, human, *remote, *seed)
	if err != nil {
		log.Fatal().Msgf("%v", err)
	}
	e, err := engine.New(rules, boardSize, options...)
	if err != nil {
		log.Fatal().Msgf("%v", err)
	}

	outcome, gameMetric, _, err := e.Run()
	if err != nil {
		log.Fatal().Msgf("%v", err)
	}
	fmt.Printf("\n%s\n%s after %d moves\n", e.Grid(), outcome, gameMetric.TotalMoves)
}

// seatPlayers builds the engine options for the chosen mode. The human, if
// any, plays human; the AI takes the other side.
func seatPlayers(rules game.Rules, mode string, human game.Symbol, remote string, seed uint64) ([]engine.Option, error) {
	opponent := rules.Opponent(human)
	console := func(name string) engine.Player {
		return player.NewConsole(name, os.Stdin, os.Stdout)
	}

	if mode == "pvp" {
		return []engine.Option{
			engine.WithPlayer(human, console("player 1")),
			engine.WithPlayer(opponent, console("player 2")),
		}, nil
	}

	ai := func(d game.Difficulty, seed uint64) engine.Player {
		if remote != "" {
			return engine.NewRemotePlayer(client.NewClient(remote), d)
		}
		return engine.AgentAdapter{Agent: agent.NewMinimaxAgent(rules, d, searcher.WithSeed(seed))}
	}

	if mode == "ai" {
		return []engine.Option{
			engine.WithPlayer(human, ai(game.Easy, seed)),
			engine.WithPlayer(opponent, ai(game.Hard, seed+1)),
		}, nil
	}

	difficulty, err := game.ParseDifficulty(mode)
	if err != nil {
		return nil, fmt.Errorf("unknown mode %q", mode)
	}
	return []engine.Option{
		engine.WithPlayer(human, console("you")),
		engine.WithPlayer(opponent, ai(difficulty, seed)),
	}, nil
}

func runExperiment(name string, rules game.Rules, games int, out string, seed uint64) {
	var exp experiments.Experiment
	switch name {
	case "strength":
		exp = experiments.Strength(rules, games)
	case "throughput":
		exp = experiments.Throughput(rules, games)
	default:
		log.Fatal().Msgf("unknown experiment %q", name)
	}

	report, err := exp.Run(out, seed)
	if err != nil {
		log.Fatal().Msgf("experiment failed: %v", err)
	}
	log.Info().Msgf("results written to %s", report.Dir)
}
