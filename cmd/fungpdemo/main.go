package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"
	"github.com/vollmerm/fungp"
)

const (
	logDir      = "logs"
	logFileName = "fungpdemo.log"
	maxLogSize  = 10 * 1024 * 1024 // 10MB
)

// setupLogging configures log output based on the debug flag. If debug
// is false, logging is disabled entirely so it never collides with the
// tcell dashboard. Returns the log file handle (or nil) to be closed
// when done.
func setupLogging(debug bool) *os.File {
	if !debug {
		log.SetOutput(io.Discard)
		return nil
	}

	if err := os.MkdirAll(logDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to create log directory: %v\n", err)
		log.SetOutput(io.Discard)
		return nil
	}

	logPath := filepath.Join(logDir, logFileName)
	if info, err := os.Stat(logPath); err == nil && info.Size() > maxLogSize {
		timestamp := time.Now().Format("2006-01-02-15-04-05")
		rotated := filepath.Join(logDir, fmt.Sprintf("fungpdemo-%s.log", timestamp))
		if err := os.Rename(logPath, rotated); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to rotate log file: %v\n", err)
		}
	}

	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to open log file: %v\n", err)
		log.SetOutput(io.Discard)
		return nil
	}

	log.SetOutput(logFile)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.Printf("=== fungpdemo started ===")
	return logFile
}

type runOutcome struct {
	islands     [][]*fungp.Module
	best        *fungp.Module
	bestFitness float64
	err         error
}

type uiUpdate struct {
	fitness float64
}

func main() {
	debug := flag.Bool("debug", false, "enable debug logging to file")
	configPath := flag.String("config", "fungpdemo.toml", "path to a TOML run configuration")
	flag.Parse()

	logFile := setupLogging(*debug)
	if logFile != nil {
		defer logFile.Close()
	}

	cfg, err := loadRunConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	log.Printf("run config: %+v", cfg)

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize screen: %v\n", err)
		os.Exit(1)
	}
	defer screen.Fini()

	cancel := make(chan struct{})
	updates := make(chan uiUpdate, 64)
	resultCh := make(chan runOutcome, 1)

	points := samplePoints()
	opts := fungp.Options{
		Iterations:          cfg.Iterations,
		Migrations:          cfg.Migrations,
		NumIslands:          cfg.NumIslands,
		PopulationSize:      cfg.PopulationSize,
		MaxDepth:            cfg.MaxDepth,
		MutationDepth:       cfg.MutationDepth,
		MutationProbability: cfg.MutationProbability,
		TournamentSize:      cfg.TournamentSize,
		Terminals:           []fungp.Symbol{symX},
		Numbers:             []float64{1, 2},
		Functions:           functionSet(),
		Fitness:             sumSquaredError(points),
		Seed:                cfg.Seed,
		Cancel:              cancel,
		Report: func(_ *fungp.Module, fitness float64) {
			select {
			case updates <- uiUpdate{fitness: fitness}:
			default:
			}
		},
	}

	go func() {
		islands, best, bestFitness, err := fungp.Run(opts)
		resultCh <- runOutcome{islands: islands, best: best, bestFitness: bestFitness, err: err}
	}()

	events := make(chan tcell.Event, 16)
	go func() {
		for {
			events <- screen.PollEvent()
		}
	}()

	board := newDashboard(screen)
	round := 0
	var outcome runOutcome

loop:
	for {
		select {
		case ev := <-events:
			switch e := ev.(type) {
			case *tcell.EventResize:
				screen.Sync()
			case *tcell.EventKey:
				if e.Key() == tcell.KeyEscape || e.Rune() == 'q' {
					close(cancel)
				}
			}
		case u := <-updates:
			round++
			board.record(round, u.fitness)
		case outcome = <-resultCh:
			break loop
		}
	}

	screen.Fini()

	if outcome.err != nil {
		fmt.Fprintf(os.Stderr, "run failed: %v\n", errors.Cause(outcome.err))
		os.Exit(1)
	}
	fmt.Printf("best fitness: %v\n", outcome.bestFitness)
	log.Printf("run complete: best_fitness=%v", outcome.bestFitness)
}
