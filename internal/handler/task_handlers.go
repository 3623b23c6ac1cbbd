package handler

import (
	"net/http"

	"github.com/mtlprog/reliefsync/internal/domain"
	"github.com/mtlprog/reliefsync/internal/handler/dto"
	"github.com/mtlprog/reliefsync/internal/service"
)

// handleCreateEmergency creates a new emergency request.
// @Summary Create an emergency request
// @Description Records a new emergency in PENDING. Priority defaults to MEDIUM.
// @Tags tasks
// @Accept json
// @Produce json
// @Param request body dto.CreateEmergencyRequest true "Emergency creation request"
// @Success 201 {object} dto.EmergencyResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /emergencies [post]
func (h *Handler) handleCreateEmergency(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req dto.CreateEmergencyRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	emergency, err := h.taskService.CreateEmergency(ctx, service.CreateEmergencyParams{
		Type:        req.Type,
		Priority:    domain.Priority(req.Priority),
		Location:    req.Location,
		Description: req.Description,
		PeopleCount: req.PeopleCount,
		ReporterID:  req.ReporterID,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.ToEmergencyResponse(emergency))
}

// handleGetEmergency retrieves an emergency request.
// @Summary Get an emergency request
// @Tags tasks
// @Produce json
// @Param id path string true "Emergency ID"
// @Success 200 {object} dto.EmergencyResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /emergencies/{id} [get]
func (h *Handler) handleGetEmergency(w http.ResponseWriter, r *http.Request) {
	id, ok := extractID(w, r, "emergency")
	if !ok {
		return
	}

	emergency, err := h.taskService.GetEmergency(r.Context(), id)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToEmergencyResponse(emergency))
}

// handleCreateSOSAlert raises a new SOS alert.
// @Summary Raise an SOS alert
// @Description Records a new SOS alert in ACTIVE.
// @Tags tasks
// @Accept json
// @Produce json
// @Param request body dto.CreateSOSAlertRequest true "SOS alert request"
// @Success 201 {object} dto.SOSAlertResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /sos [post]
func (h *Handler) handleCreateSOSAlert(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req dto.CreateSOSAlertRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	alert, err := h.taskService.CreateSOSAlert(ctx, service.CreateSOSAlertParams{
		SenderID:   req.SenderID,
		SenderType: req.SenderType,
		Location:   req.Location,
		Urgency:    req.Urgency,
		Message:    req.Message,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.ToSOSAlertResponse(alert))
}

// handleGetSOSAlert retrieves an SOS alert.
// @Summary Get an SOS alert
// @Tags tasks
// @Produce json
// @Param id path string true "SOS alert ID"
// @Success 200 {object} dto.SOSAlertResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /sos/{id} [get]
func (h *Handler) handleGetSOSAlert(w http.ResponseWriter, r *http.Request) {
	id, ok := extractID(w, r, "sos alert")
	if !ok {
		return
	}

	alert, err := h.taskService.GetSOSAlert(r.Context(), id)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToSOSAlertResponse(alert))
}

// handleGetTask retrieves the assignment view of a task with its ledger rows.
// @Summary Get task assignments
// @Description Task status, assigned volunteer names and every ledger row in assignment order
// @Tags tasks
// @Produce json
// @Param kind path string true "Task kind: emergency or sos"
// @Param id path string true "Task ID"
// @Success 200 {object} dto.TaskDetailResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /tasks/{kind}/{id} [get]
func (h *Handler) handleGetTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	kind, ok := extractKind(w, r)
	if !ok {
		return
	}
	id, ok := extractID(w, r, "task")
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(ctx, kind, id)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	rows, err := h.assignmentService.ListTaskAssignments(ctx, kind, id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch assignments")
		return
	}

	respondJSON(w, http.StatusOK, dto.TaskDetailResponse{
		Task:        dto.ToTaskResponse(task),
		Assignments: dto.ToAssignmentsResponse(rows).Assignments,
	})
}

// handleFreeVolunteer removes a volunteer name from a task without touching the ledger.
// @Summary Free a volunteer from a task
// @Description Removes the name from the task's assigned volunteers. Ledger rows are left for the reconciler.
// @Tags tasks
// @Accept json
// @Produce json
// @Param kind path string true "Task kind: emergency or sos"
// @Param id path string true "Task ID"
// @Param request body dto.FreeVolunteerRequest true "Volunteer to free"
// @Success 200 {object} dto.OperationResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /tasks/{kind}/{id}/free [post]
func (h *Handler) handleFreeVolunteer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	kind, ok := extractKind(w, r)
	if !ok {
		return
	}
	id, ok := extractID(w, r, "task")
	if !ok {
		return
	}

	var req dto.FreeVolunteerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.assignmentService.FreeVolunteer(ctx, id, kind, req.VolunteerName)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondResult(w, res)
}

// handleCancelTaskAssignments cancels every non-terminal ledger row of a task.
// @Summary Cancel task assignments
// @Description Cancels all active assignments and clears the assigned volunteers. Task status is left as is.
// @Tags tasks
// @Produce json
// @Param kind path string true "Task kind: emergency or sos"
// @Param id path string true "Task ID"
// @Success 200 {object} dto.OperationResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /tasks/{kind}/{id}/cancel-assignments [post]
func (h *Handler) handleCancelTaskAssignments(w http.ResponseWriter, r *http.Request) {
	kind, ok := extractKind(w, r)
	if !ok {
		return
	}
	id, ok := extractID(w, r, "task")
	if !ok {
		return
	}

	res, err := h.assignmentService.CancelTaskAssignments(r.Context(), id, kind)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondResult(w, res)
}

// handleCancelTask cancels a task together with its assignments.
// @Summary Cancel a task
// @Description Cancels all active assignments and moves the task to CANCELLED. Idempotent.
// @Tags tasks
// @Produce json
// @Param kind path string true "Task kind: emergency or sos"
// @Param id path string true "Task ID"
// @Success 200 {object} dto.OperationResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /tasks/{kind}/{id}/cancel [post]
func (h *Handler) handleCancelTask(w http.ResponseWriter, r *http.Request) {
	kind, ok := extractKind(w, r)
	if !ok {
		return
	}
	id, ok := extractID(w, r, "task")
	if !ok {
		return
	}

	res, err := h.assignmentService.CancelTask(r.Context(), id, kind)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondResult(w, res)
}
