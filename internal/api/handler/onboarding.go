package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mechanio/garage/internal/api/request"
	"github.com/mechanio/garage/internal/api/response"
	"github.com/mechanio/garage/internal/model"
	"github.com/mechanio/garage/internal/onboarding"
)

// OnboardingService is the onboarding façade surface used by the handler.
type OnboardingService interface {
	GetState(ctx context.Context, actor model.Actor) (*model.WorkflowState, error)
	CompleteStep(ctx context.Context, actor model.Actor, step model.WorkflowStep, metadata json.RawMessage) (*model.WorkflowState, error)
	Reset(ctx context.Context, actor model.Actor) error
}

type Onboarding struct {
	svc OnboardingService
}

func NewOnboarding(svc OnboardingService) *Onboarding {
	return &Onboarding{svc: svc}
}

func (h *Onboarding) GetState(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOr401(w, r)
	if !ok {
		return
	}

	state, err := h.svc.GetState(r.Context(), *actor)
	if err != nil {
		writeOnboardingError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, state)
}

func (h *Onboarding) CompleteStep(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOr401(w, r)
	if !ok {
		return
	}

	var req request.CompleteStep
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	state, err := h.svc.CompleteStep(r.Context(), *actor, model.WorkflowStep(req.Step), req.Metadata)
	if err != nil {
		writeOnboardingError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, state)
}

func (h *Onboarding) Reset(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOr401(w, r)
	if !ok {
		return
	}

	if err := h.svc.Reset(r.Context(), *actor); err != nil {
		writeOnboardingError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// writeOnboardingError maps the onboarding error taxonomy onto HTTP status
// codes. Infrastructure failures carry the retryable flag.
func writeOnboardingError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, onboarding.ErrInvalidTransition):
		response.WriteError(w, http.StatusConflict, err.Error())
	case errors.Is(err, onboarding.ErrPreconditionNotMet):
		response.WriteError(w, http.StatusUnprocessableEntity, err.Error())
	case onboarding.IsRetryable(err):
		response.WriteRetryableError(w, http.StatusServiceUnavailable, err.Error())
	default:
		response.WriteError(w, http.StatusInternalServerError, err.Error())
	}
}
