package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	accesssvc "github.com/Denner-Esteves/painel-approve/internal/services/access"
	"github.com/Denner-Esteves/painel-approve/internal/transport/http/dto"
	httperrors "github.com/Denner-Esteves/painel-approve/internal/transport/http/errors"
)

const reviewTokenCookie = "review_token"

type AccessHandler struct {
	service *accesssvc.Service
}

func NewAccessHandler(service *accesssvc.Service) *AccessHandler {
	return &AccessHandler{service: service}
}

// Verify checks the task's shared password and binds the caller's review
// token to the task. A fresh token cookie is issued when the caller does not
// carry one yet.
func (h *AccessHandler) Verify(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "ACCESS_SERVICE_UNAVAILABLE", "access service is unavailable")
		return
	}

	taskID, ok := pathID(r, "taskID")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid task id")
		return
	}

	var req dto.AccessRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	token, issued := reviewToken(r)

	err := h.service.VerifyAccess(r.Context(), token, taskID, req.Password, req.ReviewerName)
	if err != nil {
		switch {
		case errors.Is(err, accesssvc.ErrTaskNotFound):
			writeNotFound(w, "TASK_NOT_FOUND", "task not found")
		case errors.Is(err, accesssvc.ErrInvalidName):
			writeBadRequest(w, "VALIDATION_ERROR", "reviewer name must have at least 2 characters")
		case errors.Is(err, accesssvc.ErrWrongPassword):
			writeUnauthorized(w, "WRONG_PASSWORD", "wrong access password")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to verify access")
		}
		return
	}

	if issued {
		http.SetCookie(w, &http.Cookie{
			Name:     reviewTokenCookie,
			Value:    token,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}

	httperrors.Write(w, http.StatusOK, dto.AccessResponse{OK: true})
}

// Logout revokes the caller's session for the task and expires the cookie.
// Without a cookie there is nothing to revoke and the call still succeeds.
func (h *AccessHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "ACCESS_SERVICE_UNAVAILABLE", "access service is unavailable")
		return
	}

	taskID, ok := pathID(r, "taskID")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid task id")
		return
	}

	if cookie, err := r.Cookie(reviewTokenCookie); err == nil && cookie.Value != "" {
		if err := h.service.Logout(r.Context(), cookie.Value, taskID); err != nil {
			writeInternal(w, "INTERNAL_ERROR", "failed to revoke session")
			return
		}
		http.SetCookie(w, &http.Cookie{
			Name:     reviewTokenCookie,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}

	httperrors.Write(w, http.StatusOK, dto.AccessResponse{OK: true})
}

// reviewToken returns the caller's review token, minting one when the cookie
// is absent. The second result reports whether the token is new and must be
// set on the response.
func reviewToken(r *http.Request) (string, bool) {
	if cookie, err := r.Cookie(reviewTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value, false
	}
	return uuid.NewString(), true
}

func pathID(r *http.Request, param string) (int64, bool) {
	raw := chi.URLParam(r, param)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func decodeJSON(r *http.Request, target any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(target)
}

func writeBadRequest(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusBadRequest, httperrors.APIError{Code: code, Message: message})
}

func writeUnauthorized(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusUnauthorized, httperrors.APIError{Code: code, Message: message})
}

func writeNotFound(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusNotFound, httperrors.APIError{Code: code, Message: message})
}

func writeInternal(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusInternalServerError, httperrors.APIError{Code: code, Message: message})
}
