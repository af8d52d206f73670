package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	directorysvc "github.com/Denner-Esteves/painel-approve/internal/services/directory"
	"github.com/Denner-Esteves/painel-approve/internal/transport/http/dto"
	httperrors "github.com/Denner-Esteves/painel-approve/internal/transport/http/errors"
)

var timeNow = time.Now

type DirectoryHandler struct {
	service *directorysvc.Service
}

func NewDirectoryHandler(service *directorysvc.Service) *DirectoryHandler {
	return &DirectoryHandler{service: service}
}

func (h *DirectoryHandler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "DIRECTORY_SERVICE_UNAVAILABLE", "directory service is unavailable")
		return
	}

	clientID, ok := pathID(r, "clientID")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid client id")
		return
	}

	var req dto.CreateFolderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	var err error
	if req.Month != nil {
		err = h.service.CreateMonthFolder(r.Context(), clientID, req.Year, *req.Month)
	} else {
		err = h.service.CreateYearFolder(r.Context(), clientID, req.Year)
	}
	if err != nil {
		if errors.Is(err, directorysvc.ErrInvalidPeriod) {
			writeBadRequest(w, "VALIDATION_ERROR", "invalid year or month")
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "failed to create folder")
		return
	}

	httperrors.Write(w, http.StatusCreated, struct {
		OK bool `json:"ok"`
	}{OK: true})
}

func (h *DirectoryHandler) Years(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "DIRECTORY_SERVICE_UNAVAILABLE", "directory service is unavailable")
		return
	}

	clientID, ok := pathID(r, "clientID")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid client id")
		return
	}

	years, err := h.service.Years(r.Context(), clientID)
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to list years")
		return
	}

	httperrors.Write(w, http.StatusOK, dto.YearsResponse{Years: years})
}

func (h *DirectoryHandler) Months(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "DIRECTORY_SERVICE_UNAVAILABLE", "directory service is unavailable")
		return
	}

	clientID, ok := pathID(r, "clientID")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid client id")
		return
	}
	year, ok := pathInt(r, "year")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid year")
		return
	}

	months, err := h.service.Months(r.Context(), clientID, year)
	if err != nil {
		if errors.Is(err, directorysvc.ErrInvalidPeriod) {
			writeBadRequest(w, "VALIDATION_ERROR", "invalid year")
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "failed to list months")
		return
	}

	httperrors.Write(w, http.StatusOK, dto.MonthsResponse{Months: months})
}

func (h *DirectoryHandler) TasksByMonth(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "DIRECTORY_SERVICE_UNAVAILABLE", "directory service is unavailable")
		return
	}

	clientID, ok := pathID(r, "clientID")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid client id")
		return
	}
	year, ok := pathInt(r, "year")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid year")
		return
	}
	month, ok := pathInt(r, "month")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid month")
		return
	}

	tasks, err := h.service.TasksByMonth(r.Context(), clientID, year, month)
	if err != nil {
		if errors.Is(err, directorysvc.ErrInvalidPeriod) {
			writeBadRequest(w, "VALIDATION_ERROR", "invalid year or month")
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "failed to list tasks")
		return
	}

	httperrors.Write(w, http.StatusOK, dto.TaskListResponse{Tasks: tasks})
}

// Calendar renders one month of scheduled tasks grouped by day. Year and
// month ride in the query string, defaulting to the current month when
// absent.
func (h *DirectoryHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "DIRECTORY_SERVICE_UNAVAILABLE", "directory service is unavailable")
		return
	}

	year, month, ok := calendarPeriod(r)
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid year or month")
		return
	}

	days, err := h.service.CalendarMonth(r.Context(), year, month)
	if err != nil {
		if errors.Is(err, directorysvc.ErrInvalidPeriod) {
			writeBadRequest(w, "VALIDATION_ERROR", "invalid year or month")
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "failed to load calendar")
		return
	}

	httperrors.Write(w, http.StatusOK, dto.CalendarResponse{
		Year:  year,
		Month: month,
		Days:  days,
	})
}

func pathInt(r *http.Request, param string) (int, bool) {
	value, err := strconv.Atoi(chi.URLParam(r, param))
	if err != nil {
		return 0, false
	}
	return value, true
}

func calendarPeriod(r *http.Request) (year, month int, ok bool) {
	now := timeNow()
	year, month = now.Year(), int(now.Month())

	if raw := r.URL.Query().Get("year"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil {
			return 0, 0, false
		}
		year = value
	}
	if raw := r.URL.Query().Get("month"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil {
			return 0, 0, false
		}
		month = value
	}

	return year, month, true
}
