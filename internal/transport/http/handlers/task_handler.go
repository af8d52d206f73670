package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Denner-Esteves/painel-approve/internal/domain/enums"
	accesssvc "github.com/Denner-Esteves/painel-approve/internal/services/access"
	reviewsvc "github.com/Denner-Esteves/painel-approve/internal/services/review"
	"github.com/Denner-Esteves/painel-approve/internal/transport/http/dto"
	httperrors "github.com/Denner-Esteves/painel-approve/internal/transport/http/errors"
)

type TaskHandler struct {
	review *reviewsvc.Service
	access *accesssvc.Service
}

func NewTaskHandler(review *reviewsvc.Service, access *accesssvc.Service) *TaskHandler {
	return &TaskHandler{review: review, access: access}
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h.review == nil {
		writeInternal(w, "TASK_SERVICE_UNAVAILABLE", "task service is unavailable")
		return
	}

	var req dto.CreateTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	kind, ok := enums.ParseMediaKind(req.Kind)
	if !ok {
		kind = enums.MediaKindOther
	}

	task, items, err := h.review.Create(r.Context(), reviewsvc.CreateTaskInput{
		ClientID:       req.ClientID,
		ClientName:     req.ClientName,
		Title:          req.Title,
		Description:    req.Description,
		Kind:           kind,
		Platform:       req.Platform,
		AccessPassword: req.Password,
		ExternalURL:    req.ExternalURL,
		ScheduledDate:  req.ScheduledDate,
		MediaURLs:      req.MediaURLs,
	})
	if err != nil {
		if errors.Is(err, reviewsvc.ErrMissingField) {
			writeBadRequest(w, "VALIDATION_ERROR", "title, password and client are required")
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "failed to create task")
		return
	}

	httperrors.Write(w, http.StatusCreated, dto.TaskResponse{Task: task, Items: items})
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.review == nil {
		writeInternal(w, "TASK_SERVICE_UNAVAILABLE", "task service is unavailable")
		return
	}

	tasks, err := h.review.List(r.Context())
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to list tasks")
		return
	}

	httperrors.Write(w, http.StatusOK, dto.TaskListResponse{Tasks: tasks})
}

func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h.review == nil {
		writeInternal(w, "TASK_SERVICE_UNAVAILABLE", "task service is unavailable")
		return
	}

	taskID, ok := pathID(r, "taskID")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid task id")
		return
	}

	task, items, err := h.review.GetWithItems(r.Context(), taskID)
	if err != nil {
		if errors.Is(err, reviewsvc.ErrTaskNotFound) {
			writeNotFound(w, "TASK_NOT_FOUND", "task not found")
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "failed to load task")
		return
	}

	httperrors.Write(w, http.StatusOK, dto.TaskResponse{Task: task, Items: items})
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h.review == nil {
		writeInternal(w, "TASK_SERVICE_UNAVAILABLE", "task service is unavailable")
		return
	}

	taskID, ok := pathID(r, "taskID")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid task id")
		return
	}

	if err := h.review.Delete(r.Context(), taskID); err != nil {
		if errors.Is(err, reviewsvc.ErrTaskNotFound) {
			writeNotFound(w, "TASK_NOT_FOUND", "task not found")
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "failed to delete task")
		return
	}

	httperrors.Write(w, http.StatusOK, struct {
		OK bool `json:"ok"`
	}{OK: true})
}

// AddVersion appends a fresh batch of media to an existing task.
func (h *TaskHandler) AddVersion(w http.ResponseWriter, r *http.Request) {
	if h.review == nil {
		writeInternal(w, "TASK_SERVICE_UNAVAILABLE", "task service is unavailable")
		return
	}

	taskID, ok := pathID(r, "taskID")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid task id")
		return
	}

	var req dto.AddVersionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	items, err := h.review.AddVersion(r.Context(), taskID, req.URLs)
	if err != nil {
		switch {
		case errors.Is(err, reviewsvc.ErrEmptyInput):
			writeBadRequest(w, "VALIDATION_ERROR", "urls must not be empty")
		case errors.Is(err, reviewsvc.ErrTaskNotFound):
			writeNotFound(w, "TASK_NOT_FOUND", "task not found")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to add version")
		}
		return
	}

	task, err := h.review.Get(r.Context(), taskID)
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to load task")
		return
	}

	httperrors.Write(w, http.StatusCreated, dto.TaskResponse{Task: task, Items: items})
}

// SetStatus is the operator override. The approver stamp uses the operator
// identity forwarded by the proxy.
func (h *TaskHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	if h.review == nil || h.access == nil {
		writeInternal(w, "TASK_SERVICE_UNAVAILABLE", "task service is unavailable")
		return
	}

	taskID, ok := pathID(r, "taskID")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid task id")
		return
	}

	var req dto.SetStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	status, ok := parseStatusStrict(req.Status)
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "unknown task status")
		return
	}

	operator := h.access.ResolveApproverName(r.Context(), "", taskID, operatorFromRequest(r))

	task, err := h.review.SetStatusManually(r.Context(), taskID, status, operator)
	if err != nil {
		switch {
		case errors.Is(err, reviewsvc.ErrInvalidStatus):
			writeBadRequest(w, "VALIDATION_ERROR", "unknown task status")
		case errors.Is(err, reviewsvc.ErrTaskNotFound):
			writeNotFound(w, "TASK_NOT_FOUND", "task not found")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to set task status")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, dto.TaskResponse{Task: task})
}

// parseStatusStrict accepts the current uppercase vocabulary plus the legacy
// lowercase "pending", and rejects everything else. Write paths must not
// inherit the read-side default of mapping unknown values to
// AWAITING_APPROVAL.
func parseStatusStrict(raw string) (enums.TaskStatus, bool) {
	candidate := enums.TaskStatus(strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(raw), " ", "_")))
	if candidate.Valid() {
		return candidate, true
	}
	if strings.EqualFold(strings.TrimSpace(raw), "pending") {
		return enums.TaskStatusAwaitingApproval, true
	}
	return "", false
}
