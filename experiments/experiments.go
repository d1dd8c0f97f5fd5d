package experiments

import (
	"connect/engine"
	"connect/experiments/metrics"
	"connect/game"
	"connect/searcher"
	"connect/searcher/agent"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

const (
	KindMinimax = "minimax"
	KindRandom  = "random"
)

// Experiment plays every match up a number of times. The agents of a match up
// take turns moving first.
type Experiment struct {
	Name     string
	Rules    game.Rules
	Size     game.BoardSize
	Games    int // Per match up
	Configs  []metrics.AgentConfig
	MatchUps [][]metrics.AgentConfig
}

// Report is what an experiment wrote and how the match ups ended.
type Report struct {
	Dir     string
	Games   []metrics.GameRecord
	Tallies []Tally
}

// Tally counts results of one match up by agent ID.
type Tally struct {
	Agent1, Agent2 int
	Wins1, Wins2   int
	Drawn          int // Draws and ties
}

func minimaxConfig(id int, rules game.Rules, d game.Difficulty) metrics.AgentConfig {
	return metrics.AgentConfig{ID: id, Kind: KindMinimax, Difficulty: d.String(), Depth: rules.Depth(d)}
}

// Strength pits both difficulties against a random baseline and each other.
func Strength(rules game.Rules, games int) Experiment {
	baseline := metrics.AgentConfig{ID: 0, Kind: KindRandom}
	easy := minimaxConfig(1, rules, game.Easy)
	hard := minimaxConfig(2, rules, game.Hard)
	return Experiment{
		Name:    "strength_" + rules.Name(),
		Rules:   rules,
		Games:   games,
		Configs: []metrics.AgentConfig{baseline, easy, hard},
		MatchUps: [][]metrics.AgentConfig{
			{baseline, easy},
			{baseline, hard},
			{easy, hard},
		},
	}
}

// Throughput plays each difficulty against itself, for similar game length
// and playing strength on both sides, to measure search cost per move.
func Throughput(rules game.Rules, games int) Experiment {
	easy := minimaxConfig(1, rules, game.Easy)
	hard := minimaxConfig(2, rules, game.Hard)
	return Experiment{
		Name:     "throughput_" + rules.Name(),
		Rules:    rules,
		Games:    games,
		Configs:  []metrics.AgentConfig{easy, hard},
		MatchUps: [][]metrics.AgentConfig{{easy, easy}, {hard, hard}},
	}
}

// Run plays the experiment and stores its records under root. Agents are
// seeded from seed, so a run can be repeated.
func (e Experiment) Run(root string, seed uint64) (Report, error) {
	count := 0
	gameRecords := []metrics.GameRecord{}
	moveRecords := []metrics.MoveRecord{}
	tallies := make([]Tally, 0, len(e.MatchUps))

	log.Info().Msgf("starting %s experiment...", e.Name)

	for mi, matchup := range e.MatchUps {
		tally := Tally{Agent1: matchup[0].ID, Agent2: matchup[1].ID}

		log.Info().Msgf("starting matchup %d of %d between agent1=%+v and agent2=%+v...", mi+1, len(e.MatchUps), matchup[0], matchup[1])

		for i := 0; i < e.Games; i++ {
			first, second := matchup[0], matchup[1]
			if i%2 == 1 {
				first, second = second, first
			}
			count++

			outcome, gameMetric, moveMetrics, err := e.runGame(first, second, seed, count)
			if err != nil {
				return Report{}, fmt.Errorf("matchup %d game %d: %w", mi+1, i+1, err)
			}
			gameRecords = append(gameRecords, metrics.GameRecord{
				ID:         count,
				Agent1:     first.ID,
				Agent2:     second.ID,
				GameMetric: gameMetric,
			})
			for _, mm := range moveMetrics {
				moveRecords = append(moveRecords, metrics.MoveRecord{
					Game:       count,
					MoveMetric: mm,
				})
			}
			tally.add(outcome, e.Rules.Players()[0], i%2 == 0)

			log.Info().Msgf("completed matchup %d of %d game %d: %s", mi+1, len(e.MatchUps), i+1, outcome)
		}
		tallies = append(tallies, tally)
		log.Info().Msgf("completed matchup %d of %d: agent%d %d wins, agent%d %d wins, %d drawn",
			mi+1, len(e.MatchUps), tally.Agent1, tally.Wins1, tally.Agent2, tally.Wins2, tally.Drawn)
	}

	log.Info().Msgf("completed %s experiment", e.Name)

	dir, err := e.store(root, gameRecords, moveRecords)
	if err != nil {
		return Report{}, err
	}
	return Report{Dir: dir, Games: gameRecords, Tallies: tallies}, nil
}

func (t *Tally) add(outcome game.Outcome, firstPlayer game.Symbol, agent1First bool) {
	if outcome.Status != game.Win {
		t.Drawn++
		return
	}
	firstWon := outcome.Winner() == firstPlayer
	if firstWon == agent1First {
		t.Wins1++
	} else {
		t.Wins2++
	}
}

func (e Experiment) store(root string, gameRecords []metrics.GameRecord, moveRecords []metrics.MoveRecord) (string, error) {
	writer, err := metrics.NewWriter(root, e.Name)
	if err != nil {
		return "", fmt.Errorf("failed to create experiment writer: %w", err)
	}

	if err := writer.WriteAgentConfigs(e.Configs); err != nil {
		return "", fmt.Errorf("failed to store agent configs: %w", err)
	}
	log.Info().Msg("stored agent configs")

	if err := writer.WriteGameRecords(gameRecords); err != nil {
		return "", fmt.Errorf("failed to write game records: %w", err)
	}
	log.Info().Msg("stored game records")

	if err := writer.WriteMoveRecords(moveRecords); err != nil {
		return "", fmt.Errorf("failed to write move records: %w", err)
	}
	log.Info().Msg("stored move records")
	return writer.Dir(), nil
}

// runGame executes a single game between two agents, first moving first
func (e Experiment) runGame(first, second metrics.AgentConfig, seed uint64, count int) (game.Outcome, metrics.GameMetric, []metrics.MoveMetric, error) {
	players := e.Rules.Players()
	seed1, seed2 := agentSeeds(seed, count)
	a1, err := createAgent(first, e.Rules, seed1)
	if err != nil {
		return game.Outcome{}, metrics.GameMetric{}, nil, err
	}
	a2, err := createAgent(second, e.Rules, seed2)
	if err != nil {
		return game.Outcome{}, metrics.GameMetric{}, nil, err
	}

	eng, err := engine.New(e.Rules, e.Size,
		engine.WithPlayer(players[0], engine.AgentAdapter{Agent: a1}),
		engine.WithPlayer(players[1], engine.AgentAdapter{Agent: a2}),
	)
	if err != nil {
		return game.Outcome{}, metrics.GameMetric{}, nil, err
	}
	return eng.Run()
}

// agentSeeds gives both agents of game count their own generator stream.
func agentSeeds(seed uint64, count int) (uint64, uint64) {
	base := seed + 2*uint64(count)
	return base, base + 1
}

func createAgent(config metrics.AgentConfig, rules game.Rules, seed uint64) (agent.Agent, error) {
	switch config.Kind {
	case KindRandom:
		return agent.NewRandomAgent(rand.New(rand.NewSource(seed))), nil
	case KindMinimax:
		d, err := game.ParseDifficulty(config.Difficulty)
		if err != nil {
			return nil, err
		}
		return agent.NewMinimaxAgent(rules, d, searcher.WithSeed(seed), searcher.WithMetrics()), nil
	}
	return nil, fmt.Errorf("unknown agent kind %q", config.Kind)
}
