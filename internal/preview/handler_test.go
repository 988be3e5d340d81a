package preview

import (
	"bytes"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
)

func newRouter() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/games/{gameId}/preview.png", NewHandler(2048).Render).Methods("GET")
	return r
}

func TestPreview(t *testing.T) {
	r := newRouter()

	tests := []struct {
		path       string
		wantStatus int
		wantW      int
		wantH      int
	}{
		{"/games/align/preview.png?width=640&seed=3", http.StatusOK, 640, 400},
		{"/games/repetition/preview.png", http.StatusOK, 800, 400},
		{"/games/proximity/preview.png?width=1000&height=600&seed=1", http.StatusOK, 1000, 600},
		{"/games/containment/preview.png", http.StatusOK, 2000, 1000},
		{"/games/tetris/preview.png", http.StatusNotFound, 0, 0},
		{"/games/align/preview.png?width=99999", http.StatusBadRequest, 0, 0},
		{"/games/align/preview.png?seed=-1", http.StatusBadRequest, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.wantStatus, rec.Body)
			}
			if rec.Code != http.StatusOK {
				return
			}
			img, err := png.Decode(rec.Body)
			if err != nil {
				t.Fatal(err)
			}
			if b := img.Bounds(); b.Dx() != tt.wantW || b.Dy() != tt.wantH {
				t.Errorf("size = %dx%d, want %dx%d", b.Dx(), b.Dy(), tt.wantW, tt.wantH)
			}
		})
	}
}

func TestSeededPreviewIsStable(t *testing.T) {
	r := newRouter()
	get := func() []byte {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/games/proximity/preview.png?seed=9", nil))
		if rec.Header().Get("Cache-Control") == "no-store" {
			t.Error("seeded preview not cacheable")
		}
		return rec.Body.Bytes()
	}
	if !bytes.Equal(get(), get()) {
		t.Error("same seed rendered different images")
	}
}
