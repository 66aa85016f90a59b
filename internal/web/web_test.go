package web

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Joseda-hg/rememberbook/internal/db"
	"github.com/Joseda-hg/rememberbook/internal/model"
)

func TestCreateAndGetIdea(t *testing.T) {
	server, _, cleanup := newTestServer(t)
	defer cleanup()

	created := doJSON(t, server, http.MethodPost, "/ideas", `{"title": "Learn X", "description": "desc", "urgency": 4}`, http.StatusCreated)

	var idea model.Idea
	require.NoError(t, json.Unmarshal(created, &idea))
	require.NotEmpty(t, idea.ID)
	assert.Equal(t, "Learn X", idea.Title)
	assert.Equal(t, model.UrgencyHigh, idea.Urgency)
	assert.False(t, idea.Archived)
	assert.Empty(t, idea.Notes)

	got := doJSON(t, server, http.MethodGet, "/ideas/"+idea.ID, "", http.StatusOK)
	var fetched model.Idea
	require.NoError(t, json.Unmarshal(got, &fetched))
	assert.Equal(t, idea.ID, fetched.ID)
	assert.Equal(t, "desc", fetched.Description)
}

func TestCreateIdeaValidation(t *testing.T) {
	server, _, cleanup := newTestServer(t)
	defer cleanup()

	body := doJSON(t, server, http.MethodPost, "/ideas", `{"title": "no description"}`, http.StatusBadRequest)
	assert.Equal(t, "Title and description are required", errorMessage(t, body))

	body = doJSON(t, server, http.MethodPost, "/ideas", `{"title": "t", "description": "d", "urgency": 9}`, http.StatusBadRequest)
	assert.Equal(t, "Urgency must be between 1 and 5", errorMessage(t, body))
}

func TestCreateIdeaDefaultsUrgencyToMedium(t *testing.T) {
	server, _, cleanup := newTestServer(t)
	defer cleanup()

	created := doJSON(t, server, http.MethodPost, "/ideas", `{"title": "t", "description": "d"}`, http.StatusCreated)
	var idea model.Idea
	require.NoError(t, json.Unmarshal(created, &idea))
	assert.Equal(t, model.UrgencyMedium, idea.Urgency)
}

func TestListIdeasArchivedFiltering(t *testing.T) {
	server, store, cleanup := newTestServer(t)
	defer cleanup()

	active, err := store.CreateIdea(context.Background(), "active", "d", model.UrgencyMedium)
	require.NoError(t, err)
	archivedIdea, err := store.CreateIdea(context.Background(), "archived", "d", model.UrgencyMedium)
	require.NoError(t, err)
	flag := model.Flag(true)
	_, err = store.UpdateIdea(context.Background(), archivedIdea.ID, model.IdeaPatch{Archived: &flag})
	require.NoError(t, err)

	var ideas []model.Idea
	require.NoError(t, json.Unmarshal(doJSON(t, server, http.MethodGet, "/ideas", "", http.StatusOK), &ideas))
	require.Len(t, ideas, 1)
	assert.Equal(t, active.ID, ideas[0].ID)

	require.NoError(t, json.Unmarshal(doJSON(t, server, http.MethodGet, "/ideas?includeArchived=true", "", http.StatusOK), &ideas))
	assert.Len(t, ideas, 2)

	require.NoError(t, json.Unmarshal(doJSON(t, server, http.MethodGet, "/ideas?archivedOnly=true", "", http.StatusOK), &ideas))
	require.Len(t, ideas, 1)
	assert.Equal(t, archivedIdea.ID, ideas[0].ID)
}

func TestUpdateIdeaAppendsNotes(t *testing.T) {
	server, store, cleanup := newTestServer(t)
	defer cleanup()

	created, err := store.CreateIdea(context.Background(), "t", "d", model.UrgencyMedium)
	require.NoError(t, err)

	doJSON(t, server, http.MethodPut, "/ideas/"+created.ID, `{"notes": "note1"}`, http.StatusOK)
	body := doJSON(t, server, http.MethodPut, "/ideas/"+created.ID, `{"notes": ["note2", "note3"]}`, http.StatusOK)

	var idea model.Idea
	require.NoError(t, json.Unmarshal(body, &idea))
	require.Len(t, idea.Notes, 3)
	assert.Equal(t, "note1", idea.Notes[0].Text)
	assert.Equal(t, "note2", idea.Notes[1].Text)
	assert.Equal(t, "note3", idea.Notes[2].Text)
}

func TestUpdateIdeaValidation(t *testing.T) {
	server, store, cleanup := newTestServer(t)
	defer cleanup()

	body := doJSON(t, server, http.MethodPut, "/ideas/missing", `{"title": "x"}`, http.StatusNotFound)
	assert.Equal(t, "Idea not found", errorMessage(t, body))

	created, err := store.CreateIdea(context.Background(), "t", "d", model.UrgencyMedium)
	require.NoError(t, err)

	body = doJSON(t, server, http.MethodPut, "/ideas/"+created.ID, `{}`, http.StatusBadRequest)
	assert.Equal(t, "No data provided", errorMessage(t, body))

	body = doJSON(t, server, http.MethodPut, "/ideas/"+created.ID, `{"urgency": 0}`, http.StatusBadRequest)
	assert.Equal(t, "Urgency must be between 1 and 5", errorMessage(t, body))
}

func TestDeleteIdea(t *testing.T) {
	server, store, cleanup := newTestServer(t)
	defer cleanup()

	body := doJSON(t, server, http.MethodDelete, "/ideas/missing", "", http.StatusNotFound)
	assert.Equal(t, "Idea not found", errorMessage(t, body))

	created, err := store.CreateIdea(context.Background(), "t", "d", model.UrgencyMedium)
	require.NoError(t, err)

	body = doJSON(t, server, http.MethodDelete, "/ideas/"+created.ID, "", http.StatusOK)
	var payload map[string]string
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, "Idea deleted successfully", payload["message"])

	doJSON(t, server, http.MethodGet, "/ideas/"+created.ID, "", http.StatusNotFound)
}

func TestArchiveAndRestore(t *testing.T) {
	server, store, cleanup := newTestServer(t)
	defer cleanup()

	created, err := store.CreateIdea(context.Background(), "t", "d", model.UrgencyMedium)
	require.NoError(t, err)

	body := doJSON(t, server, http.MethodPost, "/ideas/"+created.ID+"/archive", "", http.StatusOK)
	var payload map[string]string
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, "Idea archived", payload["message"])
	assert.Equal(t, created.ID, payload["id"])

	got, err := store.GetIdea(context.Background(), created.ID)
	require.NoError(t, err)
	assert.True(t, got.Archived)

	// Archiving twice stays a 200 no-op.
	doJSON(t, server, http.MethodPost, "/ideas/"+created.ID+"/archive", "", http.StatusOK)

	body = doJSON(t, server, http.MethodPost, "/ideas/"+created.ID+"/restore", "", http.StatusOK)
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, "Idea restored", payload["message"])

	got, err = store.GetIdea(context.Background(), created.ID)
	require.NoError(t, err)
	assert.False(t, got.Archived)

	doJSON(t, server, http.MethodPost, "/ideas/missing/archive", "", http.StatusNotFound)
	doJSON(t, server, http.MethodPost, "/ideas/missing/restore", "", http.StatusNotFound)
}

func TestHomeEndpoint(t *testing.T) {
	server, _, cleanup := newTestServer(t)
	defer cleanup()

	body := doJSON(t, server, http.MethodGet, "/", "", http.StatusOK)

	var payload struct {
		Message       string            `json:"message"`
		Version       string            `json:"version"`
		Endpoints     map[string]string `json:"endpoints"`
		UrgencyLevels map[string]string `json:"urgency_levels"`
	}
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, "Welcome to Remember Book API", payload.Message)
	assert.Len(t, payload.Endpoints, 7)
	assert.Equal(t, "Immediate", payload.UrgencyLevels["5"])
}

func newTestServer(t *testing.T) (http.Handler, *db.Store, func()) {
	t.Helper()
	sqlDB, err := db.Open(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	store := db.NewStore(sqlDB)
	return NewServer(store).Handler(), store, func() {
		_ = sqlDB.Close()
	}
}

func doJSON(t *testing.T, handler http.Handler, method, path, body string, wantStatus int) []byte {
	t.Helper()
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}

	request := httptest.NewRequest(method, path, reader)
	if body != "" {
		request.Header.Set("Content-Type", "application/json")
	}
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	if recorder.Code != wantStatus {
		t.Fatalf("%s %s: expected status %d, got %d (body %s)", method, path, wantStatus, recorder.Code, recorder.Body.String())
	}
	return recorder.Body.Bytes()
}

func errorMessage(t *testing.T, body []byte) string {
	t.Helper()
	var payload map[string]string
	require.NoError(t, json.Unmarshal(body, &payload))
	return payload["error"]
}
