package rest

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeclash/internal/model"
	"codeclash/internal/repository"
	"codeclash/internal/service"
	"codeclash/internal/transport/rest/handler"
)

func testRouter(t *testing.T) http.Handler {
	t.Helper()

	pool := []model.Exercise{
		{Slug: "a"}, {Slug: "b"}, {Slug: "c"}, {Slug: "d"},
		{Slug: "e"}, {Slug: "f"}, {Slug: "g"}, {Slug: "h"},
	}
	duels := repository.NewMemoryDuelRepo()
	exercises := repository.NewMemoryExerciseRepo(pool)

	return NewRouter(&Container{
		AuthService:  service.NewAuthService("test-secret"),
		DuelService:  service.NewDuelService(duels, exercises),
		DailyService: service.NewDailyService(exercises, nil),
	})
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeDuelResponse(t *testing.T, rec *httptest.ResponseRecorder) handler.DuelResponse {
	t.Helper()
	var resp handler.DuelResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestDuelLifecycleOverHTTP(t *testing.T) {
	router := testRouter(t)

	// Host creates a duel.
	rec := doJSON(t, router, http.MethodPost, "/v1/duels", "", map[string]string{"username": "ada"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	host := decodeDuelResponse(t, rec)
	require.NotNil(t, host.Duel)
	code := host.Duel.Code
	assert.Len(t, code, 6)
	assert.Equal(t, model.DuelWaiting, host.Duel.Status)
	assert.NotEmpty(t, host.Token)

	// Guest joins.
	rec = doJSON(t, router, http.MethodPost, "/v1/duels/"+code+"/join", "", map[string]string{"username": "grace"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	guest := decodeDuelResponse(t, rec)
	assert.Equal(t, model.DuelReady, guest.Duel.Status)
	assert.Equal(t, host.Duel.Exercises, guest.Duel.Exercises)

	// Ready without a token is rejected.
	rec = doJSON(t, router, http.MethodPost, "/v1/duels/"+code+"/ready", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Host readies up; duel stays READY.
	rec = doJSON(t, router, http.MethodPost, "/v1/duels/"+code+"/ready", host.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, router, http.MethodGet, "/v1/duels/"+code, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var snapshot model.Duel
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&snapshot))
	assert.Equal(t, model.DuelReady, snapshot.Status)

	// Guest readies up; duel starts.
	rec = doJSON(t, router, http.MethodPost, "/v1/duels/"+code+"/ready", guest.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, router, http.MethodGet, "/v1/duels/"+code, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&snapshot))
	assert.Equal(t, model.DuelPlaying, snapshot.Status)

	// Guest reports progress.
	rec = doJSON(t, router, http.MethodPatch, "/v1/duels/"+code+"/score", guest.Token,
		map[string]int{"correctAnswers": 2, "currentQuestion": 3})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, router, http.MethodGet, "/v1/duels/"+code, "", nil)
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&snapshot))
	assert.Equal(t, 2, snapshot.Guest.CorrectAnswers)
	assert.Equal(t, 3, snapshot.Guest.CurrentQuestion)
}

func TestJoinErrorsOverHTTP(t *testing.T) {
	router := testRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/v1/duels/NOPE22/join", "", map[string]string{"username": "grace"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/v1/duels", "", map[string]string{"playerId": "p_host", "username": "ada"})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeDuelResponse(t, rec)

	rec = doJSON(t, router, http.MethodPost, "/v1/duels/"+created.Duel.Code+"/join", "",
		map[string]string{"playerId": "p_host", "username": "ada"})
	assert.Equal(t, http.StatusConflict, rec.Code, "self join must be rejected")
}

func TestDeleteRequiresHostToken(t *testing.T) {
	router := testRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/v1/duels", "", map[string]string{"username": "ada"})
	require.Equal(t, http.StatusCreated, rec.Code)
	host := decodeDuelResponse(t, rec)
	code := host.Duel.Code

	rec = doJSON(t, router, http.MethodPost, "/v1/duels/"+code+"/join", "", map[string]string{"username": "grace"})
	require.Equal(t, http.StatusOK, rec.Code)
	guest := decodeDuelResponse(t, rec)

	rec = doJSON(t, router, http.MethodDelete, "/v1/duels/"+code, guest.Token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code, "guest must not delete the duel")
}

func TestDailyChallengeEndpoint(t *testing.T) {
	router := testRouter(t)

	first := doJSON(t, router, http.MethodGet, "/v1/daily?date=2026-08-31", "", nil)
	require.Equal(t, http.StatusOK, first.Code)
	second := doJSON(t, router, http.MethodGet, "/v1/daily?date=2026-08-31", "", nil)
	require.Equal(t, http.StatusOK, second.Code)

	assert.JSONEq(t, first.Body.String(), second.Body.String())

	var resp struct {
		Date      string           `json:"date"`
		Exercises []model.Exercise `json:"exercises"`
	}
	require.NoError(t, json.NewDecoder(first.Body).Decode(&resp))
	assert.Equal(t, "2026-08-31", resp.Date)
	assert.Len(t, resp.Exercises, model.DuelExerciseCount)
}
