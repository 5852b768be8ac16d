// Package api provides the JSON HTTP endpoints for topics and revisions.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/example/revtrack/internal/spaced_repetition"
	"github.com/example/revtrack/internal/tracker"
	"github.com/example/revtrack/pkg/models"
)

// TopicService is the tracker surface used by the handlers
type TopicService interface {
	ListTopics(ctx context.Context) ([]models.TopicRow, error)
	ListDueToday(ctx context.Context, today time.Time) ([]models.TopicRow, error)
	ListOverdue(ctx context.Context, today time.Time) ([]models.TopicRow, error)
	MarkStatus(ctx context.Context, rowIndex int, newStatus models.Status, today time.Time) (spaced_repetition.Update, error)
	AddTopic(ctx context.Context, subject, topic, notes, dateStudied string) error
}

// Handler serves the topic endpoints
type Handler struct {
	svc TopicService
	now func() time.Time
}

// NewHandler creates a handler; now supplies the current time in the
// user's timezone
func NewHandler(svc TopicService, now func() time.Time) *Handler {
	if now == nil {
		now = time.Now
	}
	return &Handler{svc: svc, now: now}
}

// Routes registers the endpoints on a new mux
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.Root)
	mux.HandleFunc("GET /api/topics", h.ListTopics)
	mux.HandleFunc("GET /api/due-today", h.ListDueToday)
	mux.HandleFunc("GET /api/overdue", h.ListOverdue)
	mux.HandleFunc("POST /api/update-status", h.UpdateStatus)
	mux.HandleFunc("POST /api/add-topic", h.AddTopic)
	return mux
}

// Root handles GET /
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("Hello, server is working!"))
}

// ListTopics handles GET /api/topics
func (h *Handler) ListTopics(w http.ResponseWriter, r *http.Request) {
	rows, err := h.svc.ListTopics(r.Context())
	if err != nil {
		log.Printf("Error in /api/topics: %v", err)
		http.Error(w, "Failed to fetch topics", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// ListDueToday handles GET /api/due-today
func (h *Handler) ListDueToday(w http.ResponseWriter, r *http.Request) {
	rows, err := h.svc.ListDueToday(r.Context(), h.now())
	if err != nil {
		log.Printf("Error in /api/due-today: %v", err)
		writeFailure(w, http.StatusInternalServerError, "")
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// ListOverdue handles GET /api/overdue
func (h *Handler) ListOverdue(w http.ResponseWriter, r *http.Request) {
	rows, err := h.svc.ListOverdue(r.Context(), h.now())
	if err != nil {
		log.Printf("Error in /api/overdue: %v", err)
		writeFailure(w, http.StatusInternalServerError, "")
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

type updateStatusRequest struct {
	RowIndex  *int          `json:"rowIndex"`
	NewStatus models.Status `json:"newStatus"`
}

type updateStatusResponse struct {
	Success bool `json:"success"`
	spaced_repetition.Update
}

// UpdateStatus handles POST /api/update-status
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if isForm(r) {
		if err := r.ParseForm(); err != nil {
			writeFailure(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if s := r.PostForm.Get("rowIndex"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil {
				writeFailure(w, http.StatusBadRequest, "rowIndex must be an integer")
				return
			}
			req.RowIndex = &n
		}
		req.NewStatus = models.Status(r.PostForm.Get("newStatus"))
	} else if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.RowIndex == nil {
		writeFailure(w, http.StatusBadRequest, "rowIndex is required")
		return
	}

	update, err := h.svc.MarkStatus(r.Context(), *req.RowIndex, req.NewStatus, h.now())
	switch {
	case errors.Is(err, tracker.ErrInvalidStatus):
		writeFailure(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, tracker.ErrRowNotFound):
		writeFailure(w, http.StatusNotFound, err.Error())
		return
	case err != nil:
		log.Printf("Error updating revision info: %v", err)
		writeFailure(w, http.StatusInternalServerError, "")
		return
	}

	writeJSON(w, http.StatusOK, updateStatusResponse{Success: true, Update: update})
}

type addTopicRequest struct {
	Subject     string `json:"subject"`
	Topic       string `json:"topic"`
	Notes       string `json:"notes"`
	DateStudied string `json:"dateStudied"`
}

// AddTopic handles POST /api/add-topic
func (h *Handler) AddTopic(w http.ResponseWriter, r *http.Request) {
	var req addTopicRequest
	if isForm(r) {
		if err := r.ParseForm(); err != nil {
			writeFailure(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		req = addTopicRequest{
			Subject:     r.PostForm.Get("subject"),
			Topic:       r.PostForm.Get("topic"),
			Notes:       r.PostForm.Get("notes"),
			DateStudied: r.PostForm.Get("dateStudied"),
		}
	} else if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	err := h.svc.AddTopic(r.Context(), req.Subject, req.Topic, req.Notes, req.DateStudied)
	switch {
	case errors.Is(err, tracker.ErrMissingField):
		writeFailure(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		log.Printf("Failed to add topic: %v", err)
		writeFailure(w, http.StatusInternalServerError, "Error adding topic")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func isForm(r *http.Request) bool {
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return mt == "application/x-www-form-urlencoded"
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func writeFailure(w http.ResponseWriter, status int, msg string) {
	body := map[string]interface{}{"success": false}
	if msg != "" {
		body["error"] = msg
	}
	writeJSON(w, status, body)
}
