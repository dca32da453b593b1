package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"lifesync/internal/assistant"
	"lifesync/internal/auth"
	"lifesync/internal/bmi"
	"lifesync/internal/community"
	"lifesync/internal/models"
	"lifesync/internal/posture"
	"lifesync/internal/profile"
	"lifesync/internal/tracker"
	"lifesync/pkg/logger"
)

const internalErrorMessage = "Internal server error"

// writeJSON encodes v before writing the status; an encode failure becomes a logged 500.
func (h *handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	body, err := json.Marshal(v)
	if err != nil {
		h.logger.Errorw("failed to encode response", "error", err)
		writeMessage(w, http.StatusInternalServerError, internalErrorMessage)
		return
	}
	writeBody(w, status, body)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	body, _ := json.Marshal(map[string]string{"error": msg})
	writeBody(w, status, body)
}

func writeBody(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

var badRequestErrors = []error{
	auth.ErrInvalidEmail,
	auth.ErrWeakPassword,
	auth.ErrPasswordTooLong,
	auth.ErrPasswordMismatch,
	profile.ErrInvalidGoal,
	profile.ErrInvalidValue,
	profile.ErrEmptyPhoto,
	profile.ErrNotAnImage,
	tracker.ErrInvalidInput,
	community.ErrEmptyContent,
	bmi.ErrMissingMeasurements,
	bmi.ErrImplausible,
	posture.ErrEmptyUpload,
	posture.ErrNotAnImage,
	assistant.ErrEmptyMessage,
}

// statusFor maps service errors to an HTTP status. Zero means unexpected.
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, community.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, auth.ErrEmailTaken), errors.Is(err, models.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrSessionEnded):
		return http.StatusUnauthorized
	case errors.Is(err, posture.ErrUploadTooLarge), errors.Is(err, profile.ErrPhotoTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, profile.ErrStorageMissing):
		return http.StatusServiceUnavailable
	}
	for _, known := range badRequestErrors {
		if errors.Is(err, known) {
			return http.StatusBadRequest
		}
	}
	return 0
}

// writeError answers with the error's own message when it is a known service error,
// and logs anything else behind a generic 500.
func writeError(w http.ResponseWriter, r *http.Request, l *logger.Logger, err error) {
	if status := statusFor(err); status != 0 {
		msg := err.Error()
		if errors.Is(err, models.ErrNotFound) {
			msg = "Not found"
		}
		writeMessage(w, status, msg)
		return
	}

	l.Errorw("request failed", "error", err, "method", r.Method, "path", r.URL.Path)
	writeMessage(w, http.StatusInternalServerError, internalErrorMessage)
}

// decodeJSON reads a bounded JSON body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}
