package handlers

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/exercise-tracker/apiserver/internal/services"
	"github.com/go-chi/chi/v5"
)

// ExerciseHandler provides HTTP handlers for users and their exercise logs.
type ExerciseHandler struct {
	users *services.UserService
	log   *slog.Logger
}

// NewExerciseHandler constructs a handler with the provided service.
func NewExerciseHandler(users *services.UserService, log *slog.Logger) *ExerciseHandler {
	return &ExerciseHandler{users: users, log: log}
}

// ExerciseRouter registers the exercise tracker routes on the given router.
func ExerciseRouter(r chi.Router, users *services.UserService, log *slog.Logger) {
	handler := NewExerciseHandler(users, log)

	r.Post("/new-user", handle(log, handler.CreateUser))
	r.Get("/users", handle(log, handler.ListUsers))
	r.Post("/add", handle(log, handler.AddExercise))
	r.Get("/log", handle(log, handler.GetLog))
}

func (h *ExerciseHandler) CreateUser(w http.ResponseWriter, r *http.Request) error {
	var req NewUserRequest
	if err := decodeBody(w, r, &req); err != nil {
		return err
	}

	user, err := h.users.Create(r.Context(), services.CreateUserInput{Username: string(req.Username)})
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, user)
	return nil
}

func (h *ExerciseHandler) ListUsers(w http.ResponseWriter, r *http.Request) error {
	users, err := h.users.List(r.Context())
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, users)
	return nil
}

func (h *ExerciseHandler) AddExercise(w http.ResponseWriter, r *http.Request) error {
	var req AddExerciseRequest
	if err := decodeBody(w, r, &req); err != nil {
		return err
	}

	added, err := h.users.AddExercise(r.Context(), services.AddExerciseInput{
		UserID:      string(req.UserID),
		Description: string(req.Description),
		Duration:    string(req.Duration),
		Date:        string(req.Date),
	})
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, added)
	return nil
}

func (h *ExerciseHandler) GetLog(w http.ResponseWriter, r *http.Request) error {
	query := r.URL.Query()
	view, err := h.users.GetLog(r.Context(), services.LogQuery{
		UserID: query.Get("userId"),
		From:   query.Get("from"),
		To:     query.Get("to"),
		Limit:  query.Get("limit"),
	})
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, view)
	return nil
}

// NewUserRequest is the body of POST /new-user.
type NewUserRequest struct {
	Username flexString `json:"username"`
}

func (req *NewUserRequest) bindForm(values url.Values) {
	req.Username = flexString(values.Get("username"))
}

// AddExerciseRequest is the body of POST /add. userId and duration may be
// sent as JSON numbers.
type AddExerciseRequest struct {
	UserID      flexString `json:"userId"`
	Description flexString `json:"description"`
	Duration    flexString `json:"duration"`
	Date        flexString `json:"date"`
}

func (req *AddExerciseRequest) bindForm(values url.Values) {
	req.UserID = flexString(values.Get("userId"))
	req.Description = flexString(values.Get("description"))
	req.Duration = flexString(values.Get("duration"))
	req.Date = flexString(values.Get("date"))
}
