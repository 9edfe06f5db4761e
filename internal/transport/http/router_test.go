package httptransport_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/ErlanBelekov/habit-tracker/internal/auth"
	"github.com/ErlanBelekov/habit-tracker/internal/domain"
	"github.com/ErlanBelekov/habit-tracker/internal/graph"
	"github.com/ErlanBelekov/habit-tracker/internal/identity"
	httptransport "github.com/ErlanBelekov/habit-tracker/internal/transport/http"
	"github.com/ErlanBelekov/habit-tracker/internal/usecase"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// recordingRepo notes whether any repository operation ran, so tests can
// assert that rejected requests never reach persistence.
type recordingRepo struct {
	touched bool
}

func (r *recordingRepo) List(_ context.Context, ownerID string) ([]*domain.Habit, error) {
	r.touched = true
	return []*domain.Habit{{ID: "h-1", OwnerID: ownerID, Title: "Read daily"}}, nil
}

func (r *recordingRepo) Create(_ context.Context, ownerID, title string) (*domain.Habit, error) {
	r.touched = true
	return &domain.Habit{ID: "h-2", OwnerID: ownerID, Title: title}, nil
}

func (r *recordingRepo) UpdateTitle(_ context.Context, habitID, ownerID, title string) (*domain.Habit, error) {
	r.touched = true
	return &domain.Habit{ID: habitID, OwnerID: ownerID, Title: title}, nil
}

func (r *recordingRepo) Delete(_ context.Context, habitID, ownerID string) (*domain.Habit, error) {
	r.touched = true
	return &domain.Habit{ID: habitID, OwnerID: ownerID, Title: "Read daily"}, nil
}

type staticVerifier struct{}

func (staticVerifier) Verify(_ context.Context, rawToken string) (identity.Identity, error) {
	if rawToken != "valid-token" {
		return identity.Identity{}, auth.ErrTokenInvalid
	}
	return identity.Identity{Subject: "alice"}, nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *recordingRepo) {
	t.Helper()

	repo := &recordingRepo{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	resolver := graph.NewResolver(usecase.NewHabitUsecase(repo), logger)

	schema, err := graph.NewSchema(resolver)
	if err != nil {
		t.Fatalf("build schema: %v", err)
	}
	return httptransport.NewRouter(logger, schema, staticVerifier{}, "production"), repo
}

func postGraphQL(t *testing.T, r *gin.Engine, token, query string) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(string(body)))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestGraphQL_NoToken_401AndNoResolution(t *testing.T) {
	r, repo := newTestRouter(t)

	w := postGraphQL(t, r, "", `{ habits { id } }`)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
	if repo.touched {
		t.Error("repository reached despite missing token")
	}
}

func TestGraphQL_InvalidToken_401AndNoResolution(t *testing.T) {
	r, repo := newTestRouter(t)

	w := postGraphQL(t, r, "forged", `{ habits { id } }`)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
	if repo.touched {
		t.Error("repository reached despite invalid token")
	}
}

func TestGraphQL_ValidToken_ResolvesScopedToCaller(t *testing.T) {
	r, _ := newTestRouter(t)

	w := postGraphQL(t, r, "valid-token", `{ habits { id owner title } }`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Data struct {
			Habits []struct {
				ID    string `json:"id"`
				Owner string `json:"owner"`
				Title string `json:"title"`
			} `json:"habits"`
		} `json:"data"`
		Errors []json.RawMessage `json:"errors"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Errors) > 0 {
		t.Fatalf("unexpected errors: %s", w.Body.String())
	}
	if len(resp.Data.Habits) != 1 || resp.Data.Habits[0].Owner != "alice" {
		t.Errorf("habits = %+v, want one habit owned by alice", resp.Data.Habits)
	}
}

func TestGraphQL_Mutation_EndToEnd(t *testing.T) {
	r, _ := newTestRouter(t)

	w := postGraphQL(t, r, "valid-token",
		`mutation { createHabit(input: {title: "Read daily"}) { id owner title } }`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Data struct {
			CreateHabit struct {
				Owner string `json:"owner"`
				Title string `json:"title"`
			} `json:"createHabit"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Data.CreateHabit.Owner != "alice" || resp.Data.CreateHabit.Title != "Read daily" {
		t.Errorf("createHabit = %+v", resp.Data.CreateHabit)
	}
}
