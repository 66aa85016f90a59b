package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Joseda-hg/rememberbook/internal/db"
	"github.com/Joseda-hg/rememberbook/internal/model"
)

type Server struct {
	store *db.Store
}

func NewServer(store *db.Store) *Server {
	return &Server{store: store}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.homeHandler)
	mux.HandleFunc("/ideas", s.ideasHandler)
	mux.HandleFunc("/ideas/", s.ideaHandler)
	return mux
}

func (s *Server) homeHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	levels := make(map[string]string, len(model.Urgencies()))
	for _, urgency := range model.Urgencies() {
		levels[fmt.Sprintf("%d", urgency)] = urgency.Label()
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Welcome to Remember Book API",
		"version": "1.0.0",
		"endpoints": map[string]string{
			"GET /ideas":               "Get all ideas",
			"POST /ideas":              "Create a new idea",
			"GET /ideas/{id}":          "Get a specific idea",
			"PUT /ideas/{id}":          "Update an idea",
			"DELETE /ideas/{id}":       "Delete an idea",
			"POST /ideas/{id}/archive": "Archive an idea",
			"POST /ideas/{id}/restore": "Restore an archived idea",
		},
		"urgency_levels": levels,
	})
}

func (s *Server) ideasHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listIdeas(w, r)
	case http.MethodPost:
		s.createIdea(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) listIdeas(w http.ResponseWriter, r *http.Request) {
	ideas, err := s.store.ListIdeas(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, filterFromRequest(r).Apply(ideas))
}

func (s *Server) createIdea(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Title       *string        `json:"title"`
		Description *string        `json:"description"`
		Urgency     *model.Urgency `json:"urgency"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Title == nil || body.Description == nil {
		writeError(w, http.StatusBadRequest, "Title and description are required")
		return
	}

	urgency := model.UrgencyMedium
	if body.Urgency != nil {
		urgency = *body.Urgency
	}
	if !urgency.Valid() {
		writeError(w, http.StatusBadRequest, "Urgency must be between 1 and 5")
		return
	}

	idea, err := s.store.CreateIdea(r.Context(), *body.Title, *body.Description, urgency)
	if err != nil {
		if errors.Is(err, db.ErrInvalidUrgency) {
			writeError(w, http.StatusBadRequest, "Urgency must be between 1 and 5")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, idea)
}

func (s *Server) ideaHandler(w http.ResponseWriter, r *http.Request) {
	id, action, err := parseIdeaPath(r.URL.Path)
	if err != nil {
		writeError(w, http.StatusNotFound, "Idea not found")
		return
	}

	switch action {
	case "archive":
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		s.setArchived(w, r, id, true, "Idea archived")
	case "restore":
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		s.setArchived(w, r, id, false, "Idea restored")
	default:
		switch r.Method {
		case http.MethodGet:
			s.getIdea(w, r, id)
		case http.MethodPut:
			s.updateIdea(w, r, id)
		case http.MethodDelete:
			s.deleteIdea(w, r, id)
		default:
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
	}
}

func (s *Server) getIdea(w http.ResponseWriter, r *http.Request, id string) {
	idea, err := s.store.GetIdea(r.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Idea not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, idea)
}

func (s *Server) updateIdea(w http.ResponseWriter, r *http.Request, id string) {
	if _, err := s.store.GetIdea(r.Context(), id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Idea not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	var patch model.IdeaPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil || patch.IsZero() {
		writeError(w, http.StatusBadRequest, "No data provided")
		return
	}

	// The store does not re-validate urgency on update; the boundary does.
	if patch.Urgency != nil && !patch.Urgency.Valid() {
		writeError(w, http.StatusBadRequest, "Urgency must be between 1 and 5")
		return
	}

	idea, err := s.store.UpdateIdea(r.Context(), id, patch)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Idea not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, idea)
}

func (s *Server) deleteIdea(w http.ResponseWriter, r *http.Request, id string) {
	deleted, err := s.store.DeleteIdea(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "Idea not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Idea deleted successfully"})
}

func (s *Server) setArchived(w http.ResponseWriter, r *http.Request, id string, archived bool, message string) {
	idea, err := s.store.GetIdea(r.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Idea not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if idea.Archived != archived {
		flag := model.Flag(archived)
		if _, err := s.store.UpdateIdea(r.Context(), id, model.IdeaPatch{Archived: &flag}); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": message, "id": id})
}

func filterFromRequest(r *http.Request) model.ListFilter {
	query := r.URL.Query()
	if strings.EqualFold(query.Get("archivedOnly"), "true") {
		return model.FilterArchivedOnly
	}
	if strings.EqualFold(query.Get("includeArchived"), "true") {
		return model.FilterAll
	}
	return model.FilterActiveOnly
}

func parseIdeaPath(path string) (id, action string, err error) {
	value := strings.Trim(strings.TrimPrefix(path, "/ideas/"), "/")
	if value == "" {
		return "", "", fmt.Errorf("missing id")
	}

	parts := strings.Split(value, "/")
	switch {
	case len(parts) == 1:
		return parts[0], "", nil
	case len(parts) == 2 && (parts[1] == "archive" || parts[1] == "restore"):
		return parts[0], parts[1], nil
	default:
		return "", "", fmt.Errorf("invalid path")
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
