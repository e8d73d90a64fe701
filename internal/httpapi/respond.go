package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/harshimysarla/LuxeAI/internal/lounge/face"
	"github.com/harshimysarla/LuxeAI/internal/lounge/service"
	"github.com/harshimysarla/LuxeAI/internal/lounge/store"
)

// maxJSONBody caps JSON request bodies. Images never travel as JSON.
const maxJSONBody = 64 << 10

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorBody{Error: code, Message: msg})
}

// decodeJSON decodes a strict JSON body into dst and validates it.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", "invalid JSON body")
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", validationMessage(err))
		return false
	}
	return true
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed %s", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}

// pathID parses a positive integer URL parameter.
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// classify maps a service error to status, code and client message.
func classify(err error) (int, string, string) {
	if ee, ok := face.AsExtractionError(err); ok {
		return http.StatusBadRequest, ee.Kind.String(), ee.Kind.Reason()
	}

	switch {
	case errors.Is(err, service.ErrInvalidIdentityID):
		return http.StatusBadRequest, "invalid_identity_id", err.Error()
	case errors.Is(err, service.ErrInvalidVenueID):
		return http.StatusBadRequest, "invalid_lounge_id", err.Error()
	case errors.Is(err, service.ErrImageRequired):
		return http.StatusBadRequest, "image_required", err.Error()
	case errors.Is(err, service.ErrInvalidUsername):
		return http.StatusBadRequest, "invalid_username", err.Error()
	case errors.Is(err, service.ErrInvalidDate):
		return http.StatusBadRequest, "invalid_date", err.Error()
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, "not_found", "resource not found"
	case errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict, "duplicate", "resource already exists"
	case errors.Is(err, store.ErrLoungeFull):
		return http.StatusConflict, "lounge_full", "lounge is full"
	case errors.Is(err, face.ErrModelMismatch):
		return http.StatusServiceUnavailable, "model_mismatch", "enrolled signature is from a different face model"
	case errors.Is(err, face.ErrDimensionMismatch):
		return http.StatusServiceUnavailable, "dimension_mismatch", "face model configuration mismatch"
	case errors.Is(err, face.ErrModelUnavailable):
		return http.StatusServiceUnavailable, "model_unavailable", "face model unavailable"
	}
	return http.StatusInternalServerError, "internal_error", "unexpected server error"
}

// writeServiceError logs server-side faults and writes the JSON error.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status, code, msg := classify(err)
	s.logFault(r, op, status, err)
	writeError(w, status, code, msg)
}

func (s *Server) logFault(r *http.Request, op string, status int, err error) {
	if status < http.StatusInternalServerError {
		return
	}
	s.logger.Error(op+" failed",
		slog.String("request_id", requestID(r)),
		slog.Int("status", status),
		slog.String("error", err.Error()),
	)
}
