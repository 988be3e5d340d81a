package progress

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func stores(t *testing.T) map[string]func() Store {
	t.Helper()
	m := map[string]func() Store{
		"memory": func() Store { return NewMemory() },
		"sqlite": func() Store {
			s, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "nested", "progress.db"))
			if err != nil {
				t.Fatalf("OpenSQLite: %v", err)
			}
			return s
		},
	}
	if url := os.Getenv("SAMUI_TEST_DATABASE_URL"); url != "" {
		m["postgres"] = func() Store {
			s, err := OpenPostgres(context.Background(), url)
			if err != nil {
				t.Fatalf("OpenPostgres: %v", err)
			}
			return s
		}
	}
	return m
}

func TestCompletionFlag(t *testing.T) {
	ctx := context.Background()
	for name, open := range stores(t) {
		t.Run(name, func(t *testing.T) {
			s := open()
			defer s.Close()

			learner := "learner_" + name + "_" + t.Name()
			done, err := s.Completed(ctx, learner, "align")
			if err != nil || done {
				t.Fatalf("fresh flag = %v, %v", done, err)
			}

			for range 2 {
				if err := s.MarkCompleted(ctx, learner, "align"); err != nil {
					t.Fatalf("MarkCompleted: %v", err)
				}
			}
			if done, _ := s.Completed(ctx, learner, "align"); !done {
				t.Error("flag not set")
			}
			if done, _ := s.Completed(ctx, learner, "contrast"); done {
				t.Error("flag leaked to another game")
			}
			if done, _ := s.Completed(ctx, "someone-else", "align"); done {
				t.Error("flag leaked to another learner")
			}

			if err := s.MarkCompleted(ctx, learner, "proximity"); err != nil {
				t.Fatal(err)
			}
			list, err := s.List(ctx, learner)
			if err != nil {
				t.Fatal(err)
			}
			if len(list) != 2 {
				t.Fatalf("List = %+v, want 2 entries", list)
			}
			seen := map[string]bool{}
			for _, c := range list {
				seen[c.GameID] = true
				if c.CompletedAt.IsZero() {
					t.Errorf("%s has no completion time", c.GameID)
				}
			}
			if !seen["align"] || !seen["proximity"] {
				t.Errorf("List = %+v", list)
			}
		})
	}
}

func TestClosedStore(t *testing.T) {
	ctx := context.Background()
	for name, open := range stores(t) {
		if name == "postgres" {
			continue
		}
		t.Run(name, func(t *testing.T) {
			s := open()
			if err := s.Close(); err != nil {
				t.Fatal(err)
			}
			if err := s.Close(); err != nil {
				t.Errorf("second Close: %v", err)
			}
			if _, err := s.Completed(ctx, "l", "align"); !errors.Is(err, ErrStoreClosed) {
				t.Errorf("Completed after close: %v", err)
			}
			if err := s.MarkCompleted(ctx, "l", "align"); !errors.Is(err, ErrStoreClosed) {
				t.Errorf("MarkCompleted after close: %v", err)
			}
		})
	}
}

func TestSQLitePersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "progress.db")

	s, err := OpenSQLite(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.MarkCompleted(ctx, "l", "repetition"); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s, err = OpenSQLite(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if done, _ := s.Completed(ctx, "l", "repetition"); !done {
		t.Error("flag lost across reopen")
	}
}

func TestOpenDrivers(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, "", "")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(*Memory); !ok {
		t.Errorf("default driver = %T", s)
	}
	if _, err := Open(ctx, "redis", ""); err == nil {
		t.Error("unknown driver accepted")
	}
}
