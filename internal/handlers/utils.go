package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"

	"github.com/exercise-tracker/apiserver/internal/services"
	"github.com/exercise-tracker/apiserver/internal/store"
	"github.com/go-chi/chi/v5/middleware"
)

const maxBodyBytes = 1 << 20

var errInvalidRequest = errors.New("invalid request")

// ErrorResponse is a simple error payload.
type ErrorResponse struct {
	Error string `json:"error"`
}

// apiFunc is a handler that leaves error responses to respondError.
type apiFunc func(w http.ResponseWriter, r *http.Request) error

func handle(log *slog.Logger, fn apiFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			respondError(w, r, log, err)
		}
	}
}

// respondError is the single place errors become HTTP responses. Only
// validation and not-found messages reach the client.
func respondError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, verr.Message)
	case errors.Is(err, errInvalidRequest):
		writeError(w, http.StatusBadRequest, errInvalidRequest.Error())
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "user not found")
	default:
		log.ErrorContext(r.Context(), "request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.Any("error", err),
		)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

// formBinder is implemented by request bodies that also accept
// application/x-www-form-urlencoded and multipart forms.
type formBinder interface {
	bindForm(values url.Values)
}

// decodeBody fills dst from a JSON body, or from form fields for any other
// content type. An empty body leaves dst untouched.
func decodeBody(w http.ResponseWriter, r *http.Request, dst formBinder) error {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
			return errInvalidRequest
		}
		return nil
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
			return errInvalidRequest
		}
	} else if err := r.ParseForm(); err != nil {
		return errInvalidRequest
	}
	dst.bindForm(r.PostForm)
	return nil
}

var errNotStringOrNumber = errors.New("expected a string or a number")

// flexString accepts a JSON string or a JSON number and keeps its text, so
// "30" and 30 decode the same way. Objects, arrays and booleans are rejected.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*f = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
	case len(data) > 0 && (data[0] == '-' || (data[0] >= '0' && data[0] <= '9')):
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*f = flexString(n.String())
	default:
		return errNotStringOrNumber
	}
	return nil
}
