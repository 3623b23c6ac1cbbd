package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/mtlprog/reliefsync/docs" // Import generated docs
	"github.com/mtlprog/reliefsync/internal/domain"
	"github.com/mtlprog/reliefsync/internal/handler/dto"
	"github.com/mtlprog/reliefsync/internal/middleware"
	"github.com/mtlprog/reliefsync/internal/notify"
	"github.com/mtlprog/reliefsync/internal/peersync"
	"github.com/mtlprog/reliefsync/internal/repository"
	"github.com/mtlprog/reliefsync/internal/service"
	"github.com/mtlprog/reliefsync/internal/static"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	pool               *pgxpool.Pool
	bus                *notify.Bus
	taskService        *service.TaskService
	assignmentService  *service.AssignmentService
	userService        *service.UserService
	reconciler         *service.Reconciler
	gateway            *peersync.Gateway
	taskRepo           *repository.TaskRepository
	messageRepo        *repository.MessageRepository
	peerAuthMiddleware *middleware.PeerAuth
}

// New creates a new Handler instance with all dependencies.
// A nil bus gets a private inline bus; a nil gateway serves local data with no peer.
func New(pool *pgxpool.Pool, bus *notify.Bus, gateway *peersync.Gateway, syncToken string) *Handler {
	if bus == nil {
		bus = notify.NewBus(nil)
	}

	// Create repositories
	taskRepo := repository.NewTaskRepository(pool)
	assignmentRepo := repository.NewAssignmentRepository(pool)
	eventRepo := repository.NewAssignmentEventRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	messageRepo := repository.NewMessageRepository(pool)

	if gateway == nil {
		gateway = peersync.NewGateway(nil, userRepo, messageRepo, 0)
	}

	return &Handler{
		pool:               pool,
		bus:                bus,
		taskService:        service.NewTaskService(taskRepo, bus),
		assignmentService:  service.NewAssignmentService(pool, taskRepo, assignmentRepo, eventRepo, userRepo, bus),
		userService:        service.NewUserService(userRepo, bus),
		reconciler:         service.NewReconciler(pool, taskRepo, assignmentRepo, eventRepo, userRepo, bus),
		gateway:            gateway,
		taskRepo:           taskRepo,
		messageRepo:        messageRepo,
		peerAuthMiddleware: middleware.NewPeerAuth(syncToken),
	}
}

// Reconciler returns the reconciler the handler sweeps with, so a
// background loop can share it.
func (h *Handler) Reconciler() *service.Reconciler {
	return h.reconciler
}

// RegisterRoutes registers all HTTP routes.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Health check
	mux.HandleFunc("GET /healthz", h.handleHealthz)

	// Landing page
	mux.HandleFunc("GET /{$}", h.handleIndex)

	// Swagger UI
	mux.HandleFunc("GET /swagger/", httpSwagger.Handler())

	// Tasks
	mux.HandleFunc("POST /api/v1/emergencies", h.handleCreateEmergency)
	mux.HandleFunc("GET /api/v1/emergencies/{id}", h.handleGetEmergency)
	mux.HandleFunc("POST /api/v1/sos", h.handleCreateSOSAlert)
	mux.HandleFunc("GET /api/v1/sos/{id}", h.handleGetSOSAlert)
	mux.HandleFunc("GET /api/v1/tasks/{kind}/{id}", h.handleGetTask)
	mux.HandleFunc("POST /api/v1/tasks/{kind}/{id}/free", h.handleFreeVolunteer)
	mux.HandleFunc("POST /api/v1/tasks/{kind}/{id}/cancel-assignments", h.handleCancelTaskAssignments)
	mux.HandleFunc("POST /api/v1/tasks/{kind}/{id}/cancel", h.handleCancelTask)

	// Assignments
	mux.HandleFunc("POST /api/v1/assignments", h.handleAssign)
	mux.HandleFunc("GET /api/v1/assignments/{id}", h.handleGetAssignment)
	mux.HandleFunc("PATCH /api/v1/assignments/{id}/status", h.handleUpdateAssignmentStatus)

	// Directory
	mux.HandleFunc("POST /api/v1/users", h.handleRegisterUser)
	mux.HandleFunc("GET /api/v1/users/{id}", h.handleGetUser)
	mux.HandleFunc("GET /api/v1/volunteers", h.handleListVolunteers)
	mux.HandleFunc("GET /api/v1/volunteers/{id}/assignments", h.handleListVolunteerAssignments)

	// Messages
	mux.HandleFunc("POST /api/v1/messages", h.handleSendMessage)
	mux.HandleFunc("GET /api/v1/messages", h.handleListMessages)

	// Maintenance and change feed
	mux.HandleFunc("POST /api/v1/reconcile", h.handleReconcile)
	mux.HandleFunc("GET /api/v1/events", h.handleEvents)
	mux.HandleFunc("GET /api/v1/stats", h.handleGetStats)

	// Peer sync, shared token
	mux.Handle("GET "+peersync.DirectoryPath, h.peerAuthMiddleware.Authenticate(http.HandlerFunc(h.handleSyncDirectory)))
	mux.Handle("GET "+peersync.MessagesPath, h.peerAuthMiddleware.Authenticate(http.HandlerFunc(h.handleSyncMessages)))
	mux.Handle("POST "+peersync.MessagesPath, h.peerAuthMiddleware.Authenticate(http.HandlerFunc(h.handleSyncAcceptMessage)))
}

// handleHealthz returns 200 OK if the database is reachable.
func (h *Handler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.pool.Ping(ctx); err != nil {
		slog.Error("database health check failed", "error", err)
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// handleIndex serves the embedded landing page.
func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(static.IndexHTML))
}

// Ping checks if the database is reachable (used for testing).
func (h *Handler) Ping(ctx context.Context) error {
	return h.pool.Ping(ctx)
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// respondError writes a standard error response.
func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, dto.NewErrorResponse(code, message))
}

// respondDomainError maps err through dto.MapDomainError and writes it.
func respondDomainError(w http.ResponseWriter, err error) {
	status, code, message := dto.MapDomainError(err)
	respondError(w, status, code, message)
}

// respondResult writes the outcome of an assignment operation.
// CREATED is 201, NOT_FOUND is 404 naming what was missing, everything else is 200.
func respondResult(w http.ResponseWriter, res service.Result) {
	switch res.Outcome {
	case service.OutcomeCreated:
		respondJSON(w, http.StatusCreated, dto.ToOperationResponse(res))
	case service.OutcomeNotFound:
		missing := res.Missing
		if missing == "" {
			missing = "task"
		}
		respondError(w, http.StatusNotFound, strings.ToUpper(missing)+"_NOT_FOUND", missing+" not found")
	default:
		respondJSON(w, http.StatusOK, dto.ToOperationResponse(res))
	}
}

// decodeJSON decodes and validates a request body into dst.
// Returns false if the body was rejected (error already sent to client).
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return false
	}
	if err := dto.Validate(dst); err != nil {
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error())
		return false
	}
	return true
}

// extractID extracts and validates a UUID path parameter.
// Returns (id, true) if valid, ("", false) if invalid (error already sent to client).
func extractID(w http.ResponseWriter, r *http.Request, what string) (string, bool) {
	id := r.PathValue("id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", what+" id is required")
		return "", false
	}

	if _, err := uuid.Parse(id); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", what+" id must be a valid UUID")
		return "", false
	}

	return id, true
}

// extractKind reads the task kind path parameter, "emergency" or "sos" in any case.
func extractKind(w http.ResponseWriter, r *http.Request) (domain.TaskKind, bool) {
	kind := domain.TaskKind(strings.ToUpper(r.PathValue("kind")))
	if !kind.IsValid() {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "kind must be 'emergency' or 'sos'")
		return "", false
	}
	return kind, true
}

// splitAndTrim splits a comma-separated query value, dropping blanks.
func splitAndTrim(s, sep string) []string {
	parts := strings.Split(s, sep)
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
