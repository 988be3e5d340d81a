//go:build js && wasm

package main

import (
	"context"
	"strconv"
	"strings"
	"syscall/js"
	"time"

	"github.com/samui/samui/backend-go/internal/progress"
	"github.com/samui/samui/backend-go/internal/typeid"
)

const (
	keyLearner   = "samui.learner"
	keyCompleted = "samui.completed."
)

// localStore keeps progress in the browser's localStorage. Each completion
// is one key holding the unix millisecond it was first recorded.
type localStore struct {
	ls js.Value
}

var _ progress.Store = (*localStore)(nil)

func newLocalStore(ls js.Value) *localStore {
	return &localStore{ls: ls}
}

// learnerID returns the stored learner, minting one on first visit.
func (s *localStore) learnerID() string {
	if v := s.ls.Call("getItem", keyLearner); v.Type() == js.TypeString {
		if typeid.Validate(v.String(), typeid.PrefixLearner) == nil {
			return v.String()
		}
	}
	id := typeid.NewLearnerID()
	s.ls.Call("setItem", keyLearner, id)
	return id
}

func completionKey(learnerID, gameID string) string {
	return keyCompleted + learnerID + "." + gameID
}

func (s *localStore) Completed(_ context.Context, learnerID, gameID string) (bool, error) {
	return s.ls.Call("getItem", completionKey(learnerID, gameID)).Type() == js.TypeString, nil
}

func (s *localStore) MarkCompleted(ctx context.Context, learnerID, gameID string) error {
	if done, _ := s.Completed(ctx, learnerID, gameID); done {
		return nil
	}
	s.ls.Call("setItem", completionKey(learnerID, gameID), strconv.FormatInt(time.Now().UnixMilli(), 10))
	return nil
}

func (s *localStore) List(_ context.Context, learnerID string) ([]progress.Completion, error) {
	prefix := keyCompleted + learnerID + "."

	var list []progress.Completion
	n := s.ls.Get("length").Int()
	for i := 0; i < n; i++ {
		key := s.ls.Call("key", i).String()
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		ms, err := strconv.ParseInt(s.ls.Call("getItem", key).String(), 10, 64)
		if err != nil {
			continue
		}
		list = append(list, progress.Completion{
			GameID:      strings.TrimPrefix(key, prefix),
			CompletedAt: time.UnixMilli(ms).UTC(),
		})
	}
	progress.SortCompletions(list)
	return list, nil
}

func (s *localStore) Close() error { return nil }
