package handler

import (
	"net/http"

	"github.com/mechanio/garage/internal/api/request"
	"github.com/mechanio/garage/internal/api/response"
	"github.com/mechanio/garage/internal/core"
)

type Plan struct {
	svc *core.PlanService
}

func NewPlan(svc *core.PlanService) *Plan {
	return &Plan{svc: svc}
}

func (h *Plan) List(w http.ResponseWriter, r *http.Request) {
	response.WriteJSON(w, http.StatusOK, h.svc.List())
}

func (h *Plan) Select(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOr401(w, r)
	if !ok {
		return
	}

	var req request.SelectPlan
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	sel, err := h.svc.Select(r.Context(), *actor, req.PlanID)
	if err != nil {
		response.WriteError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	response.WriteJSON(w, http.StatusCreated, sel)
}
