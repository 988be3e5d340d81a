package preview

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/samui/samui/backend-go/internal/games"
	"github.com/samui/samui/backend-go/internal/render"
)

const defaultWidth = 800

type Handler struct {
	maxSize int
}

func NewHandler(maxSize int) *Handler {
	if maxSize <= 0 {
		maxSize = 2048
	}
	return &Handler{maxSize: maxSize}
}

// Render draws a freshly laid out game. With a seed the image is
// deterministic and cacheable.
func (h *Handler) Render(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["gameId"]
	q := r.URL.Query()

	width, err := intParam(q.Get("width"), defaultWidth)
	if err != nil || width <= 0 || width > h.maxSize {
		http.Error(w, fmt.Sprintf("width must be between 1 and %d", h.maxSize), http.StatusBadRequest)
		return
	}
	height, err := intParam(q.Get("height"), 0)
	if err != nil || height < 0 || height > h.maxSize {
		http.Error(w, fmt.Sprintf("height must be between 0 and %d", h.maxSize), http.StatusBadRequest)
		return
	}

	var g games.Game
	seed := q.Get("seed")
	if seed != "" {
		s, perr := strconv.ParseUint(seed, 10, 64)
		if perr != nil {
			http.Error(w, "seed must be an unsigned integer", http.StatusBadRequest)
			return
		}
		g, err = games.NewSeeded(gameID, float64(width), float64(height), s)
	} else {
		g, err = games.New(gameID, float64(width), float64(height), nil)
	}
	if err != nil {
		if errors.Is(err, games.ErrUnknownGame) {
			http.Error(w, "unknown game", http.StatusNotFound)
			return
		}
		slog.Error("create game for preview", "game", gameID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if c, ok := g.(games.Closer); ok {
		defer c.Close()
	}

	png, err := h.draw(g)
	if err != nil {
		slog.Error("render preview", "game", gameID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	if seed != "" {
		w.Header().Set("Cache-Control", "public, max-age=86400")
	} else {
		w.Header().Set("Cache-Control", "no-store")
	}
	w.Write(png)
}

func (h *Handler) draw(g games.Game) ([]byte, error) {
	gw, gh := g.Size()
	width, height := int(math.Ceil(gw)), int(math.Ceil(gh))
	if width > h.maxSize || height > h.maxSize {
		return nil, fmt.Errorf("surface %dx%d exceeds %d", width, height, h.maxSize)
	}

	surface, err := render.New(width, height)
	if err != nil {
		return nil, err
	}
	defer surface.Close()

	g.Step()
	g.Draw(surface)

	var buf bytes.Buffer
	if err := surface.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func intParam(v string, def int) (int, error) {
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}
