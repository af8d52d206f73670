package handlers

import (
	"errors"
	"net/http"

	"github.com/Denner-Esteves/painel-approve/internal/domain/enums"
	accesssvc "github.com/Denner-Esteves/painel-approve/internal/services/access"
	reviewsvc "github.com/Denner-Esteves/painel-approve/internal/services/review"
	"github.com/Denner-Esteves/painel-approve/internal/transport/http/dto"
	httperrors "github.com/Denner-Esteves/painel-approve/internal/transport/http/errors"
)

type ReviewHandler struct {
	review *reviewsvc.Service
	access *accesssvc.Service
}

func NewReviewHandler(review *reviewsvc.Service, access *accesssvc.Service) *ReviewHandler {
	return &ReviewHandler{review: review, access: access}
}

// GetTask returns the task and its items for an authenticated reviewer.
func (h *ReviewHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	if h.review == nil || h.access == nil {
		writeInternal(w, "REVIEW_SERVICE_UNAVAILABLE", "review service is unavailable")
		return
	}

	taskID, ok := pathID(r, "taskID")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid task id")
		return
	}

	token, _ := reviewToken(r)
	if !h.access.IsAuthenticated(r.Context(), token, taskID) {
		writeUnauthorized(w, "UNAUTHORIZED", "access verification required")
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

// DecideItem records a reviewer's verdict on one media item.
func (h *ReviewHandler) DecideItem(w http.ResponseWriter, r *http.Request) {
	if h.review == nil || h.access == nil {
		writeInternal(w, "REVIEW_SERVICE_UNAVAILABLE", "review service is unavailable")
		return
	}

	itemID, ok := pathID(r, "itemID")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid item id")
		return
	}

	var req dto.DecisionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	decision, ok := enums.ParseDecision(req.Decision)
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "decision must be approved or rejected")
		return
	}

	item, err := h.review.Item(r.Context(), itemID)
	if err != nil {
		if errors.Is(err, reviewsvc.ErrItemNotFound) {
			writeNotFound(w, "ITEM_NOT_FOUND", "media item not found")
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "failed to load media item")
		return
	}

	token, _ := reviewToken(r)
	if !h.access.IsAuthenticated(r.Context(), token, item.TaskID) {
		writeUnauthorized(w, "UNAUTHORIZED", "access verification required")
		return
	}

	approver := h.access.ResolveApproverName(r.Context(), token, item.TaskID, operatorFromRequest(r))

	task, err := h.review.RecordDecision(r.Context(), itemID, decision, req.Feedback, approver)
	if err != nil {
		writeDecisionError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.DecisionResponse{
		OK:         true,
		TaskStatus: string(task.Status),
		Task:       task,
	})
}

// DecideTask resolves a link-only task in one shot.
func (h *ReviewHandler) DecideTask(w http.ResponseWriter, r *http.Request) {
	if h.review == nil || h.access == nil {
		writeInternal(w, "REVIEW_SERVICE_UNAVAILABLE", "review service is unavailable")
		return
	}

	taskID, ok := pathID(r, "taskID")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid task id")
		return
	}

	var req dto.DecisionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	decision, ok := enums.ParseDecision(req.Decision)
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "decision must be approved or rejected")
		return
	}

	token, _ := reviewToken(r)
	if !h.access.IsAuthenticated(r.Context(), token, taskID) {
		writeUnauthorized(w, "UNAUTHORIZED", "access verification required")
		return
	}

	approver := h.access.ResolveApproverName(r.Context(), token, taskID, operatorFromRequest(r))

	task, err := h.review.DecideLinkOnly(r.Context(), taskID, decision, req.Feedback, approver)
	if err != nil {
		writeDecisionError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.DecisionResponse{
		OK:         true,
		TaskStatus: string(task.Status),
		Task:       task,
	})
}

func writeDecisionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, reviewsvc.ErrInvalidDecision):
		writeBadRequest(w, "VALIDATION_ERROR", "decision must be approved or rejected")
	case errors.Is(err, reviewsvc.ErrFeedbackRequired):
		writeBadRequest(w, "VALIDATION_ERROR", "rejection requires feedback")
	case errors.Is(err, reviewsvc.ErrNotLinkOnly):
		writeBadRequest(w, "VALIDATION_ERROR", "task is reviewed item by item")
	case errors.Is(err, reviewsvc.ErrItemNotFound):
		writeNotFound(w, "ITEM_NOT_FOUND", "media item not found")
	case errors.Is(err, reviewsvc.ErrTaskNotFound):
		writeNotFound(w, "TASK_NOT_FOUND", "task not found")
	default:
		writeInternal(w, "INTERNAL_ERROR", "failed to record decision")
	}
}

func operatorFromRequest(r *http.Request) *accesssvc.Operator {
	operator, ok := accesssvc.OperatorFromContext(r.Context())
	if !ok {
		return nil
	}
	return &operator
}
