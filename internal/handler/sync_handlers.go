package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/mtlprog/reliefsync/internal/handler/dto"
	"github.com/mtlprog/reliefsync/internal/middleware"
	"github.com/mtlprog/reliefsync/internal/notify"
	"github.com/mtlprog/reliefsync/internal/peersync"
)

// parseCursor reads the ?since= cursor. A missing value means the first message.
func parseCursor(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := r.URL.Query().Get("since")
	if raw == "" {
		return 0, true
	}
	after, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || after < 0 {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "since must be a cursor from a previous page")
		return 0, false
	}
	return after, true
}

// peerAddr returns the address the peer authenticated from, for logging.
func peerAddr(r *http.Request) string {
	peer, err := middleware.GetPeerFromContext(r.Context())
	if err != nil {
		return "unknown"
	}
	return peer
}

// handleSendMessage stores a local chat message and queues it for the peer.
// @Summary Send a message
// @Description The message is stored before the response; delivery to the peer is best effort and retried.
// @Tags messages
// @Accept json
// @Produce json
// @Param request body dto.SendMessageRequest true "Message"
// @Success 201 {object} dto.MessageResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /messages [post]
func (h *Handler) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var req dto.SendMessageRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	msg, err := h.gateway.Send(r.Context(), peersync.SendParams{
		SenderID:  req.SenderID,
		ChannelID: req.ChannelID,
		Content:   req.Content,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	h.bus.Notify(notify.CategoryCommunication)

	respondJSON(w, http.StatusCreated, dto.ToMessageResponse(msg))
}

// handleListMessages lists messages stored on this installation.
// @Summary List messages
// @Description One page of messages in the order they were stored here, after the given cursor
// @Tags messages
// @Produce json
// @Param since query integer false "Cursor from a previous page"
// @Success 200 {object} dto.MessagesResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /messages [get]
func (h *Handler) handleListMessages(w http.ResponseWriter, r *http.Request) {
	after, ok := parseCursor(w, r)
	if !ok {
		return
	}

	stored, err := h.messageRepo.ListSince(r.Context(), after, 0, peersync.PageSize)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch messages")
		return
	}

	response := dto.MessagesResponse{
		Messages: make([]dto.MessageResponse, len(stored)),
		Cursor:   after,
		More:     len(stored) == peersync.PageSize,
	}
	for i, m := range stored {
		response.Messages[i] = dto.ToMessageResponse(m)
		response.Cursor = m.Seq
	}

	respondJSON(w, http.StatusOK, response)
}

// handleSyncDirectory serves the local directory to a peer.
// @Summary Peer: directory
// @Tags sync
// @Produce json
// @Success 200 {object} peersync.Directory
// @Failure 401 {string} string "invalid token"
// @Security PeerToken
// @Router /sync/directory [get]
func (h *Handler) handleSyncDirectory(w http.ResponseWriter, r *http.Request) {
	dir, err := h.gateway.Directory(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch directory")
		return
	}

	respondJSON(w, http.StatusOK, dir)
}

// handleSyncMessages serves one page of messages to a peer.
// @Summary Peer: messages since cursor
// @Tags sync
// @Produce json
// @Param since query integer false "Cursor from a previous page"
// @Success 200 {object} peersync.MessagePage
// @Failure 401 {string} string "invalid token"
// @Security PeerToken
// @Router /sync/messages [get]
func (h *Handler) handleSyncMessages(w http.ResponseWriter, r *http.Request) {
	after, ok := parseCursor(w, r)
	if !ok {
		return
	}

	page, err := h.gateway.MessagesSince(r.Context(), after)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch messages")
		return
	}

	slog.Debug("served messages to peer", "peer_addr", peerAddr(r), "since", after, "count", len(page.Messages))

	respondJSON(w, http.StatusOK, page)
}

// handleSyncAcceptMessage stores a message pushed by a peer.
// @Summary Peer: push a message
// @Description Idempotent on messageId.
// @Tags sync
// @Accept json
// @Produce json
// @Param request body peersync.Message true "Message"
// @Success 200 {object} dto.AcceptMessageResponse
// @Failure 401 {string} string "invalid token"
// @Failure 422 {object} dto.ErrorResponse
// @Security PeerToken
// @Router /sync/messages [post]
func (h *Handler) handleSyncAcceptMessage(w http.ResponseWriter, r *http.Request) {
	var m peersync.Message
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	inserted, err := h.gateway.Accept(r.Context(), m)
	if err != nil {
		slog.Warn("rejected message from peer", "peer_addr", peerAddr(r), "message_id", m.MessageID, "error", err)
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.AcceptMessageResponse{Inserted: inserted})
}
