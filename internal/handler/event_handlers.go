package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mtlprog/reliefsync/internal/handler/dto"
	"github.com/mtlprog/reliefsync/internal/notify"
)

// eventsHeartbeat keeps idle change streams from being closed by proxies.
const eventsHeartbeat = 25 * time.Second

// handleEvents streams change notifications as server-sent events.
// @Summary Stream change notifications
// @Description Server-sent events, one per notification. Events carry only the category; clients re-query what they display.
// @Tags events
// @Produce text/event-stream
// @Param category query string false "Comma-separated categories, all when omitted"
// @Success 200 {string} string "event stream"
// @Failure 400 {object} dto.ErrorResponse
// @Router /events [get]
func (h *Handler) handleEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	categories := notify.Categories()
	if raw := r.URL.Query().Get("category"); raw != "" {
		categories = nil
		for _, name := range splitAndTrim(raw, ",") {
			c, err := notify.ParseCategory(name)
			if err != nil {
				respondDomainError(w, err)
				return
			}
			categories = append(categories, c)
		}
	}

	rc := http.NewResponseController(w)
	if err := rc.SetWriteDeadline(time.Time{}); err != nil && !errors.Is(err, http.ErrNotSupported) {
		slog.Warn("failed to clear write deadline for event stream", "error", err)
	}

	// Notifications carry no payload, so a full buffer can drop one.
	changes := make(chan notify.Category, 32)
	for _, c := range categories {
		sub, err := h.bus.Subscribe(c, func(changed notify.Category) {
			select {
			case changes <- changed:
			default:
			}
		})
		if err != nil {
			respondDomainError(w, err)
			return
		}
		defer sub.Unsubscribe()
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	fmt.Fprint(w, ": connected\n\n")
	if err := rc.Flush(); err != nil {
		slog.Warn("event stream does not support flushing", "error", err)
		return
	}

	slog.Debug("event stream opened", "categories", categories, "remote_addr", r.RemoteAddr)

	heartbeat := time.NewTicker(eventsHeartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Debug("event stream closed", "remote_addr", r.RemoteAddr)
			return
		case c := <-changes:
			fmt.Fprintf(w, "event: %s\ndata: {\"category\":%q}\n\n", c, c)
		case <-heartbeat.C:
			fmt.Fprint(w, ": ping\n\n")
		}
		if err := rc.Flush(); err != nil {
			return
		}
	}
}

// handleReconcile runs one reconciliation sweep.
// @Summary Run reconciliation
// @Description Repairs drift between the assignment ledger and task volunteer fields, then reports what changed
// @Tags maintenance
// @Produce json
// @Success 200 {object} dto.ReconcileResponse
// @Router /reconcile [post]
func (h *Handler) handleReconcile(w http.ResponseWriter, r *http.Request) {
	report, err := h.reconciler.RunOnce(r.Context())
	if err != nil {
		slog.Error("reconciliation requested over HTTP failed", "error", err)
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Reconciliation failed")
		return
	}

	respondJSON(w, http.StatusOK, dto.ToReconcileResponse(report))
}
