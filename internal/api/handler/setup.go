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

// Setup handles the unauthenticated platform bootstrap. It only works while
// no active super admin exists.
type Setup struct {
	svc *core.SuperAdminService
}

func NewSetup(svc *core.SuperAdminService) *Setup {
	return &Setup{svc: svc}
}

func (h *Setup) CreateSuperAdmin(w http.ResponseWriter, r *http.Request) {
	var req request.CreateSuperAdmin
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	exists, err := h.svc.ActiveExists(r.Context())
	if err != nil {
		response.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if exists {
		response.WriteError(w, http.StatusConflict, "super admin already exists")
		return
	}

	now := time.Now().UTC()
	admin := &model.SuperAdmin{
		ID:        platform.NewID(),
		Email:     req.Email,
		Name:      req.Name,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.svc.Create(r.Context(), admin, req.Password); err != nil {
		response.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	response.WriteJSON(w, http.StatusCreated, admin)
}
