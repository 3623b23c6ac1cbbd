package handler

import (
	"net/http"
	"strings"

	"github.com/mtlprog/reliefsync/internal/domain"
	"github.com/mtlprog/reliefsync/internal/handler/dto"
)

// handleAssign assigns a volunteer to a task.
// @Summary Assign a volunteer
// @Description Creates an ASSIGNED ledger row, adds the volunteer's name to the task and moves an open task to ASSIGNED. Assigning twice returns ALREADY_ASSIGNED.
// @Tags assignments
// @Accept json
// @Produce json
// @Param request body dto.AssignRequest true "Assignment request"
// @Success 201 {object} dto.OperationResponse
// @Success 200 {object} dto.OperationResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /assignments [post]
func (h *Handler) handleAssign(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req dto.AssignRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	kind := domain.TaskKind(strings.ToUpper(req.Kind))
	res, err := h.assignmentService.Assign(ctx, req.VolunteerID, req.TaskID, kind)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondResult(w, res)
}

// handleUpdateAssignmentStatus moves a ledger row to a new status.
// @Summary Update assignment status
// @Description Applies a lifecycle transition, records it in the history and propagates it to the task.
// @Tags assignments
// @Accept json
// @Produce json
// @Param id path string true "Assignment ID"
// @Param request body dto.UpdateAssignmentStatusRequest true "Status update"
// @Success 200 {object} dto.OperationResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /assignments/{id}/status [patch]
func (h *Handler) handleUpdateAssignmentStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := extractID(w, r, "assignment")
	if !ok {
		return
	}

	var req dto.UpdateAssignmentStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	newStatus := domain.AssignmentStatus(strings.ToUpper(req.Status))
	if !newStatus.IsValid() {
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid status")
		return
	}

	res, err := h.assignmentService.UpdateAssignmentStatus(ctx, id, newStatus, req.Notes)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondResult(w, res)
}

// handleGetAssignment retrieves a ledger row with its history.
// @Summary Get assignment details
// @Tags assignments
// @Produce json
// @Param id path string true "Assignment ID"
// @Success 200 {object} dto.AssignmentDetailResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /assignments/{id} [get]
func (h *Handler) handleGetAssignment(w http.ResponseWriter, r *http.Request) {
	id, ok := extractID(w, r, "assignment")
	if !ok {
		return
	}

	assignment, events, err := h.assignmentService.GetAssignment(r.Context(), id)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	response := dto.AssignmentDetailResponse{
		Assignment: dto.ToAssignmentResponse(assignment),
		Events:     make([]dto.AssignmentEventInfo, len(events)),
	}
	for i, event := range events {
		response.Events[i] = dto.ToAssignmentEventInfo(event)
	}

	respondJSON(w, http.StatusOK, response)
}

// handleListVolunteerAssignments lists every assignment a volunteer held.
// @Summary List volunteer assignments
// @Description Newest first, including completed and cancelled rows
// @Tags assignments
// @Produce json
// @Param id path string true "Volunteer ID"
// @Success 200 {object} dto.AssignmentsResponse
// @Router /volunteers/{id}/assignments [get]
func (h *Handler) handleListVolunteerAssignments(w http.ResponseWriter, r *http.Request) {
	id, ok := extractID(w, r, "volunteer")
	if !ok {
		return
	}

	rows, err := h.assignmentService.ListVolunteerAssignments(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch assignments")
		return
	}

	respondJSON(w, http.StatusOK, dto.ToAssignmentsResponse(rows))
}
