// Command play runs the mini-games in a terminal. Progress is kept in a
// local SQLite file so skipping unlocks immediately for finished games.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gdamore/tcell/v2"

	"github.com/samui/samui/backend-go/internal/games"
	"github.com/samui/samui/backend-go/internal/progress"
	"github.com/samui/samui/backend-go/internal/terminal"
	"github.com/samui/samui/backend-go/internal/typeid"
)

const surfaceWidth = 800

func main() {
	home, _ := os.UserHomeDir()

	gameID := flag.String("game", games.AlignID, `game to play, or "all" for the whole catalogue`)
	storePath := flag.String("store", filepath.Join(home, ".samui", "progress.db"), "SQLite progress file")
	learner := flag.String("learner", "", "learner id (default: the one saved next to the store)")
	fps := flag.Int("fps", 30, "frames per second")
	logPath := flag.String("log", "", "write logs to this file")
	flag.Parse()

	// The screen owns stdout, so logs go elsewhere.
	logOut := os.Stderr
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open log: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: slog.LevelInfo})))

	if err := run(*gameID, *storePath, *learner, *fps); err != nil {
		slog.Error("play", "error", err)
		os.Exit(1)
	}
}

func run(gameID, storePath, learner string, fps int) error {
	ids, err := playlist(gameID)
	if err != nil {
		return err
	}

	learner, err = resolveLearner(storePath, learner)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer cancel()

	store, err := progress.OpenSQLite(ctx, storePath)
	if err != nil {
		return fmt.Errorf("open progress: %w", err)
	}
	defer store.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()

	opts := terminal.Options{FPS: fps, LearnerID: learner, Store: store}
	for _, id := range ids {
		g, err := games.New(id, surfaceWidth, 0, nil)
		if err != nil {
			return err
		}

		res, err := terminal.Play(ctx, screen, g, opts)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		slog.Info("game finished",
			"game", res.GameID,
			"percentage", res.Percentage,
			"completed", res.Completed,
			"skipped", res.Skipped,
		)
		if !res.Completed && !res.Skipped {
			// quit
			return nil
		}
	}
	return nil
}

func playlist(gameID string) ([]string, error) {
	if gameID == "all" {
		var ids []string
		for _, info := range games.Catalog() {
			ids = append(ids, info.ID)
		}
		return ids, nil
	}
	if _, err := games.Lookup(gameID); err != nil {
		return nil, err
	}
	return []string{gameID}, nil
}

// resolveLearner returns the learner flag if given, otherwise the id saved
// next to the store, minting and saving one on first run.
func resolveLearner(storePath, learner string) (string, error) {
	if learner != "" {
		if err := typeid.Validate(learner, typeid.PrefixLearner); err != nil {
			return "", fmt.Errorf("invalid learner: %w", err)
		}
		return learner, nil
	}

	path := filepath.Join(filepath.Dir(storePath), "learner")
	if data, err := os.ReadFile(path); err == nil {
		id := string(data)
		if typeid.Validate(id, typeid.PrefixLearner) == nil {
			return id, nil
		}
	}

	id := typeid.NewLearnerID()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create learner dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(id), 0o600); err != nil {
		return "", fmt.Errorf("save learner: %w", err)
	}
	return id, nil
}
