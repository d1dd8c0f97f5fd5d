// meta/meta.go
package meta

// ADDR is the default listen address of the game server.
const ADDR = ":8080"

// SERVER_URL is the default server a remote game talks to.
const SERVER_URL = "http://localhost:8080"

// EXPERIMENT_GAMES is the number of games per experiment match up.
const EXPERIMENT_GAMES = 10

// RESULTS_DIR is where experiment CSV files are written.
const RESULTS_DIR = "results"
