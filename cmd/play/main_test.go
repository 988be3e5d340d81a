package main

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/samui/samui/backend-go/internal/games"
	"github.com/samui/samui/backend-go/internal/typeid"
)

func TestPlaylist(t *testing.T) {
	ids, err := playlist("all")
	if err != nil {
		t.Fatalf("playlist(all): %v", err)
	}
	if len(ids) != len(games.Catalog()) || ids[0] != games.AlignID {
		t.Errorf("playlist(all) = %v", ids)
	}

	ids, err = playlist(games.ContainmentID)
	if err != nil || len(ids) != 1 || ids[0] != games.ContainmentID {
		t.Errorf("playlist(containment) = %v, %v", ids, err)
	}

	if _, err := playlist("nope"); !errors.Is(err, games.ErrUnknownGame) {
		t.Errorf("playlist(nope) error = %v, want ErrUnknownGame", err)
	}
}

func TestResolveLearner(t *testing.T) {
	store := filepath.Join(t.TempDir(), "data", "progress.db")

	first, err := resolveLearner(store, "")
	if err != nil {
		t.Fatalf("resolveLearner: %v", err)
	}
	if err := typeid.Validate(first, typeid.PrefixLearner); err != nil {
		t.Fatalf("minted id %q: %v", first, err)
	}

	again, err := resolveLearner(store, "")
	if err != nil {
		t.Fatalf("resolveLearner again: %v", err)
	}
	if again != first {
		t.Errorf("learner changed between runs: %q then %q", first, again)
	}

	explicit := typeid.NewLearnerID()
	got, err := resolveLearner(store, explicit)
	if err != nil || got != explicit {
		t.Errorf("resolveLearner(explicit) = %q, %v", got, err)
	}

	if _, err := resolveLearner(store, "sess_01h455vb4pex5vsknk084sn02q"); err == nil {
		t.Error("expected error for a non-learner id")
	}
}
