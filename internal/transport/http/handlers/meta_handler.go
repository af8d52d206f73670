package handlers

import (
	"errors"
	"net/http"
	"strconv"

	metasvc "github.com/Denner-Esteves/painel-approve/internal/services/meta"
	"github.com/Denner-Esteves/painel-approve/internal/transport/http/dto"
	httperrors "github.com/Denner-Esteves/painel-approve/internal/transport/http/errors"
)

type MetaHandler struct {
	service *metasvc.Service
}

func NewMetaHandler(service *metasvc.Service) *MetaHandler {
	return &MetaHandler{service: service}
}

// Login hands back the consent dialog URL for a client.
func (h *MetaHandler) Login(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "META_SERVICE_UNAVAILABLE", "meta service is unavailable")
		return
	}

	clientID, err := strconv.ParseInt(r.URL.Query().Get("client_id"), 10, 64)
	if err != nil || clientID <= 0 {
		writeBadRequest(w, "VALIDATION_ERROR", "client_id is required")
		return
	}

	loginURL, err := h.service.LoginURL(clientID)
	if err != nil {
		if errors.Is(err, metasvc.ErrNotConfigured) {
			writeInternal(w, "META_NOT_CONFIGURED", "meta app credentials are not configured")
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "failed to build login url")
		return
	}

	httperrors.Write(w, http.StatusOK, dto.MetaLoginResponse{URL: loginURL})
}

// Callback finishes the OAuth dance. The client id comes back in the state
// parameter.
func (h *MetaHandler) Callback(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "META_SERVICE_UNAVAILABLE", "meta service is unavailable")
		return
	}

	query := r.URL.Query()
	if authError := query.Get("error"); authError != "" {
		writeBadRequest(w, "META_AUTH_FAILED", "meta authorization was denied")
		return
	}

	clientID, err := strconv.ParseInt(query.Get("state"), 10, 64)
	if err != nil || clientID <= 0 {
		writeBadRequest(w, "VALIDATION_ERROR", "state with client id is required")
		return
	}

	conn, err := h.service.Connect(r.Context(), clientID, query.Get("code"))
	if err != nil {
		switch {
		case errors.Is(err, metasvc.ErrMissingCode):
			writeBadRequest(w, "VALIDATION_ERROR", "authorization code is required")
		case errors.Is(err, metasvc.ErrNotConfigured):
			writeInternal(w, "META_NOT_CONFIGURED", "meta app credentials are not configured")
		default:
			writeInternal(w, "META_EXCHANGE_FAILED", "failed to exchange meta tokens")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, dto.MetaConnectResponse{
		OK:           true,
		PageID:       conn.PageID,
		IGBusinessID: conn.IGBusinessID,
		TokenExpiry:  conn.TokenExpiry,
	})
}

func (h *MetaHandler) Disconnect(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "META_SERVICE_UNAVAILABLE", "meta service is unavailable")
		return
	}

	var req dto.MetaDisconnectRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}
	if req.ClientID <= 0 {
		writeBadRequest(w, "VALIDATION_ERROR", "client_id is required")
		return
	}

	if err := h.service.Disconnect(r.Context(), req.ClientID); err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to disconnect meta account")
		return
	}

	httperrors.Write(w, http.StatusOK, struct {
		OK bool `json:"ok"`
	}{OK: true})
}
