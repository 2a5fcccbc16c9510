package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/Clark-Hu/moviebooking/internal/domain"
	"github.com/Clark-Hu/moviebooking/internal/validate"
)

const maxRequestBody = 1 << 20 // 1 MiB

type errorResponse struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	return nil
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			s.logger.Printf("failed to encode response: %v", err)
		}
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string, fields map[string]string) {
	s.respondJSON(w, status, errorResponse{Message: message, Errors: fields})
}

// respondInvalid reports a failed form check with the first message as the
// summary and every field message under errors.
func (s *Server) respondInvalid(w http.ResponseWriter, res validate.Result, form any) {
	s.respondError(w, http.StatusBadRequest, res.First(form), res.Errors)
}

// respondDomainError maps a classified failure to its status code. Anything
// unclassified is logged and reported as a 500.
func (s *Server) respondDomainError(w http.ResponseWriter, err error) {
	var derr *domain.Error
	if !errors.As(err, &derr) {
		s.logger.Printf("unexpected error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "Internal server error", nil)
		return
	}
	status := statusFor(derr.Kind)
	if status == http.StatusInternalServerError {
		s.logger.Printf("%s: %v", derr.Op, err)
	}
	msg := derr.Message
	if msg == "" {
		msg = derr.Kind.Error()
	}
	s.respondError(w, status, msg, domain.FieldErrors(err))
}

func statusFor(kind error) int {
	switch kind {
	case domain.ErrValidation:
		return http.StatusBadRequest
	case domain.ErrInvalidCredentials, domain.ErrUnauthorized:
		return http.StatusUnauthorized
	case domain.ErrForbidden:
		return http.StatusForbidden
	case domain.ErrNotFound:
		return http.StatusNotFound
	case domain.ErrConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) respondDecodeError(w http.ResponseWriter, err error) {
	var syntaxError *json.SyntaxError
	var typeError *json.UnmarshalTypeError
	var maxBytesError *http.MaxBytesError
	switch {
	case errors.As(err, &syntaxError):
		s.respondError(w, http.StatusBadRequest, "Malformed JSON payload", nil)
	case errors.As(err, &typeError):
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("Invalid value for field %s", typeError.Field), nil)
	case errors.As(err, &maxBytesError):
		s.respondError(w, http.StatusRequestEntityTooLarge, "Request body too large", nil)
	case errors.Is(err, io.EOF):
		s.respondError(w, http.StatusBadRequest, "Request body cannot be empty", nil)
	default:
		s.respondError(w, http.StatusBadRequest, "Unable to parse request body", nil)
	}
}

// pathParam returns the unescaped value of a route parameter.
func pathParam(r *http.Request, key string) (string, error) {
	raw := chi.URLParam(r, key)
	if raw == "" {
		return "", fmt.Errorf("missing %s parameter", key)
	}
	value, err := url.PathUnescape(raw)
	if err != nil {
		return "", fmt.Errorf("invalid %s parameter", key)
	}
	return value, nil
}
