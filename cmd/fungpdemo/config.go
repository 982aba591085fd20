package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/vollmerm/fungp/toml"
)

// runConfig is the demo's tunable surface, loadable from a TOML file so
// a run can be repeated or tweaked without a rebuild.
type runConfig struct {
	NumIslands          int     `toml:"num_islands"`
	PopulationSize      int     `toml:"population_size"`
	Iterations          int     `toml:"iterations"`
	Migrations          int     `toml:"migrations"`
	MaxDepth            int     `toml:"max_depth"`
	MutationDepth       int     `toml:"mutation_depth"`
	MutationProbability float64 `toml:"mutation_probability"`
	TournamentSize      int     `toml:"tournament_size"`
	Seed                uint64  `toml:"seed"`
}

func defaultRunConfig() runConfig {
	return runConfig{
		NumIslands:          4,
		PopulationSize:      200,
		Iterations:          10,
		Migrations:          50,
		MaxDepth:            5,
		MutationDepth:       3,
		MutationProbability: 0.15,
		TournamentSize:      3,
		Seed:                0,
	}
}

// loadRunConfig reads path as TOML, falling back to defaultRunConfig
// for any field the file does not set; a field set explicitly to zero
// keeps that zero. A missing file is not an
// error: the demo runs on defaults alone.
func loadRunConfig(path string) (runConfig, error) {
	cfg := defaultRunConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, errors.Wrapf(err, "reading config %s", path)
	}

	loaded := defaultRunConfig()
	if err := toml.Unmarshal(data, &loaded); err != nil {
		return cfg, errors.Wrapf(err, "parsing config %s", path)
	}
	return loaded, nil
}
