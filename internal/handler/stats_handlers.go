package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/mtlprog/reliefsync/internal/domain"
	"github.com/mtlprog/reliefsync/internal/handler/dto"
	"github.com/mtlprog/reliefsync/internal/repository"
)

// handleGetStats returns dashboard task and volunteer statistics.
// @Summary Get statistics
// @Description Task counts per kind and status, and per-volunteer assignment counts for a given period
// @Tags stats
// @Produce json
// @Param period query string false "Period: day, week (default), month, all"
// @Param volunteer_id query string false "Filter by specific volunteer UUID"
// @Success 200 {object} dto.StatsResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /stats [get]
func (h *Handler) handleGetStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Parse period parameter
	query := r.URL.Query()
	filters := dto.StatsFilters{Period: query.Get("period")}
	if filters.Period == "" {
		filters.Period = "week"
	}

	// Calculate period boundaries
	now := time.Now()
	var periodStart time.Time
	switch filters.Period {
	case "day":
		periodStart = now.AddDate(0, 0, -1)
	case "week":
		periodStart = now.AddDate(0, 0, -7)
	case "month":
		periodStart = now.AddDate(0, -1, 0)
	case "all":
		periodStart = time.Time{} // Beginning of time
	default:
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid period, must be: day, week, month, all")
		return
	}

	if volunteerID := query.Get("volunteer_id"); volunteerID != "" {
		if _, err := uuid.Parse(volunteerID); err != nil {
			respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "volunteer_id must be a valid UUID")
			return
		}
		filters.VolunteerID = &volunteerID
	}

	repoFilters := repository.StatsFilters{
		PeriodStart: periodStart,
		PeriodEnd:   now,
		VolunteerID: filters.VolunteerID,
	}

	tasks := make([]dto.KindStats, 0, len(domain.TaskKinds()))
	for _, kind := range domain.TaskKinds() {
		stats, err := h.taskRepo.GetKindStats(ctx, kind, repoFilters)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch task stats")
			return
		}
		tasks = append(tasks, dto.ToKindStats(stats))
	}

	volunteerStats, err := h.taskRepo.GetVolunteerStats(ctx, repoFilters)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch volunteer stats")
		return
	}

	volunteers := make([]dto.VolunteerStats, len(volunteerStats))
	for i, stat := range volunteerStats {
		volunteers[i] = dto.VolunteerStats{
			VolunteerID:          stat.VolunteerID,
			VolunteerName:        stat.VolunteerName,
			AssignmentsCompleted: stat.AssignmentsCompleted,
			AssignmentsCancelled: stat.AssignmentsCancelled,
			AssignmentsActive:    stat.AssignmentsActive,
		}
	}

	respondJSON(w, http.StatusOK, dto.StatsResponse{
		Period:      filters.Period,
		PeriodStart: periodStart,
		PeriodEnd:   now,
		Tasks:       tasks,
		Volunteers:  volunteers,
	})
}
