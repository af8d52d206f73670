package handlers

import (
	"errors"
	"net/http"
	"strings"

	clientssvc "github.com/Denner-Esteves/painel-approve/internal/services/clients"
	"github.com/Denner-Esteves/painel-approve/internal/transport/http/dto"
	httperrors "github.com/Denner-Esteves/painel-approve/internal/transport/http/errors"
)

// Logo uploads are capped well below this; the limit only bounds the
// multipart parse buffer.
const maxLogoUploadBytes = 10 << 20

type ClientHandler struct {
	service *clientssvc.Service
}

func NewClientHandler(service *clientssvc.Service) *ClientHandler {
	return &ClientHandler{service: service}
}

// Create accepts multipart form data: a required "name" field and an
// optional "logo" file.
func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "CLIENT_SERVICE_UNAVAILABLE", "client service is unavailable")
		return
	}

	name, logo, ok := clientForm(w, r)
	if !ok {
		return
	}

	client, err := h.service.Create(r.Context(), name, logo)
	if err != nil {
		if errors.Is(err, clientssvc.ErrValidation) {
			writeBadRequest(w, "VALIDATION_ERROR", "client name is required")
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "failed to create client")
		return
	}

	httperrors.Write(w, http.StatusCreated, dto.ClientResponse{Client: client})
}

func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "CLIENT_SERVICE_UNAVAILABLE", "client service is unavailable")
		return
	}

	clients, err := h.service.List(r.Context())
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to list clients")
		return
	}

	httperrors.Write(w, http.StatusOK, dto.ClientListResponse{Clients: clients})
}

func (h *ClientHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "CLIENT_SERVICE_UNAVAILABLE", "client service is unavailable")
		return
	}

	clientID, ok := pathID(r, "clientID")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid client id")
		return
	}

	client, err := h.service.Get(r.Context(), clientID)
	if err != nil {
		if errors.Is(err, clientssvc.ErrClientNotFound) {
			writeNotFound(w, "CLIENT_NOT_FOUND", "client not found")
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "failed to load client")
		return
	}

	httperrors.Write(w, http.StatusOK, dto.ClientResponse{Client: client})
}

func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "CLIENT_SERVICE_UNAVAILABLE", "client service is unavailable")
		return
	}

	clientID, ok := pathID(r, "clientID")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid client id")
		return
	}

	name, logo, ok := clientForm(w, r)
	if !ok {
		return
	}

	client, err := h.service.Update(r.Context(), clientID, name, logo)
	if err != nil {
		switch {
		case errors.Is(err, clientssvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "client name is required")
		case errors.Is(err, clientssvc.ErrClientNotFound):
			writeNotFound(w, "CLIENT_NOT_FOUND", "client not found")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to update client")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, dto.ClientResponse{Client: client})
}

func clientForm(w http.ResponseWriter, r *http.Request) (string, *clientssvc.LogoUpload, bool) {
	if err := r.ParseMultipartForm(maxLogoUploadBytes); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "multipart form data expected")
		return "", nil, false
	}

	name := strings.TrimSpace(r.FormValue("name"))

	file, header, err := r.FormFile("logo")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return name, nil, true
		}
		writeBadRequest(w, "INVALID_REQUEST", "invalid logo upload")
		return "", nil, false
	}

	return name, &clientssvc.LogoUpload{
		Filename:    header.Filename,
		Body:        file,
		Size:        header.Size,
		ContentType: header.Header.Get("Content-Type"),
	}, true
}
