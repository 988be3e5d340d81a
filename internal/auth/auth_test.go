package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/samui/samui/backend-go/internal/typeid"
)

func TestGuestTokenRoundTrip(t *testing.T) {
	s := NewService("secret", time.Hour)
	res, err := s.Guest()
	if err != nil {
		t.Fatal(err)
	}
	if err := typeid.Validate(res.LearnerID, typeid.PrefixLearner); err != nil {
		t.Fatal(err)
	}
	got, err := s.ValidateToken(res.Token)
	if err != nil {
		t.Fatal(err)
	}
	if got != res.LearnerID {
		t.Errorf("learner = %q, want %q", got, res.LearnerID)
	}
}

func TestValidateTokenRejects(t *testing.T) {
	s := NewService("secret", time.Hour)
	res, _ := s.Guest()

	other := NewService("other-secret", time.Hour)
	expired := NewService("secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, _ := expired.Guest()

	tests := []struct {
		name  string
		token string
		svc   *Service
	}{
		{"garbage", "not-a-token", s},
		{"wrong secret", res.Token, other},
		{"expired", old.Token, s},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.svc.ValidateToken(tt.token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("err = %v, want ErrInvalidToken", err)
			}
		})
	}

	if _, err := s.Renew("user_01h455vb4pex5vsknk084sn02q"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Renew with foreign prefix: %v", err)
	}
}

func TestMiddleware(t *testing.T) {
	s := NewService("secret", time.Hour)
	res, _ := s.Guest()

	var seen string
	h := s.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = LearnerIDFromContext(r.Context())
	}))

	tests := []struct {
		header string
		want   int
	}{
		{"", http.StatusUnauthorized},
		{"Token " + res.Token, http.StatusUnauthorized},
		{"Bearer nope", http.StatusUnauthorized},
		{"Bearer " + res.Token, http.StatusOK},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/api/progress/align", nil)
		if tt.header != "" {
			req.Header.Set("Authorization", tt.header)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != tt.want {
			t.Errorf("%q: status %d, want %d", tt.header, rec.Code, tt.want)
		}
	}
	if seen != res.LearnerID {
		t.Errorf("context learner = %q", seen)
	}
}

func TestGuestHandler(t *testing.T) {
	s := NewService("secret", time.Hour)
	h := NewHandler(s)

	rec := httptest.NewRecorder()
	h.Guest(rec, httptest.NewRequest(http.MethodPost, "/auth/guest", nil))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d", rec.Code)
	}
	var first GuestResult
	if err := json.NewDecoder(rec.Body).Decode(&first); err != nil {
		t.Fatal(err)
	}

	body := `{"token":"` + first.Token + `"}`
	rec = httptest.NewRecorder()
	h.Guest(rec, httptest.NewRequest(http.MethodPost, "/auth/guest", strings.NewReader(body)))
	if rec.Code != http.StatusOK {
		t.Fatalf("renew status = %d", rec.Code)
	}
	var renewed GuestResult
	json.NewDecoder(rec.Body).Decode(&renewed)
	if renewed.LearnerID != first.LearnerID {
		t.Errorf("renew changed learner: %q -> %q", first.LearnerID, renewed.LearnerID)
	}

	rec = httptest.NewRecorder()
	h.Guest(rec, httptest.NewRequest(http.MethodPost, "/auth/guest", strings.NewReader(`{"token":"bad"}`)))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("bad token status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.Guest(rec, httptest.NewRequest(http.MethodPost, "/auth/guest", strings.NewReader(`{`)))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad body status = %d", rec.Code)
	}
}
