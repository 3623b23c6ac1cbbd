package handler

import (
	"net/http"
	"strings"

	"github.com/mtlprog/reliefsync/internal/domain"
	"github.com/mtlprog/reliefsync/internal/handler/dto"
	"github.com/mtlprog/reliefsync/internal/service"
)

// handleRegisterUser adds a directory entry.
// @Summary Register a user
// @Tags users
// @Accept json
// @Produce json
// @Param request body dto.RegisterUserRequest true "User registration request"
// @Success 201 {object} dto.UserResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /users [post]
func (h *Handler) handleRegisterUser(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.userService.RegisterUser(r.Context(), service.RegisterUserParams{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Location: req.Location,
		Skills:   req.Skills,
		Role:     domain.UserRole(strings.ToUpper(req.Role)),
		Status:   req.Status,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.ToUserResponse(user))
}

// handleGetUser retrieves a directory entry.
// @Summary Get a user
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} dto.UserResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /users/{id} [get]
func (h *Handler) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := extractID(w, r, "user")
	if !ok {
		return
	}

	user, err := h.userService.GetUser(r.Context(), id)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToUserResponse(user))
}

// handleListVolunteers lists every volunteer.
// @Summary List volunteers
// @Tags users
// @Produce json
// @Success 200 {object} dto.VolunteersResponse
// @Router /volunteers [get]
func (h *Handler) handleListVolunteers(w http.ResponseWriter, r *http.Request) {
	volunteers, err := h.userService.ListVolunteers(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch volunteers")
		return
	}

	response := dto.VolunteersResponse{Volunteers: make([]dto.UserResponse, len(volunteers))}
	for i, v := range volunteers {
		response.Volunteers[i] = dto.ToUserResponse(v)
	}

	respondJSON(w, http.StatusOK, response)
}
