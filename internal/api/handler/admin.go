package handler

import (
	"net/http"
	"time"

	"github.com/mechanio/garage/internal/api/request"
	"github.com/mechanio/garage/internal/api/response"
	"github.com/mechanio/garage/internal/core"
	"github.com/mechanio/garage/internal/model"
	"github.com/mechanio/garage/internal/platform"
)

type Admin struct {
	svc *core.AdminService
}

func NewAdmin(svc *core.AdminService) *Admin {
	return &Admin{svc: svc}
}

func (h *Admin) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateAdmin
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	role := req.Role
	if role == "" {
		role = model.RoleAdmin
	}

	now := time.Now().UTC()
	admin := &model.Admin{
		ID:        platform.NewID(),
		Email:     req.Email,
		Name:      req.Name,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.svc.Create(r.Context(), admin, req.Password); err != nil {
		response.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	response.WriteJSON(w, http.StatusCreated, admin)
}

func (h *Admin) GetCurrent(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOr401(w, r)
	if !ok {
		return
	}

	admin, err := h.svc.GetByUserID(r.Context(), actor.UserID)
	if err != nil {
		response.WriteError(w, http.StatusNotFound, err.Error())
		return
	}

	response.WriteJSON(w, http.StatusOK, admin)
}
