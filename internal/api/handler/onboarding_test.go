package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mechanio/garage/internal/model"
	"github.com/mechanio/garage/internal/onboarding"
)

// fakeOnboarding implements OnboardingService with canned results.
type fakeOnboarding struct {
	state       *model.WorkflowState
	getErr      error
	completeErr error
	resetErr    error
}

func (f *fakeOnboarding) GetState(ctx context.Context, actor model.Actor) (*model.WorkflowState, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.state, nil
}

func (f *fakeOnboarding) CompleteStep(ctx context.Context, actor model.Actor, step model.WorkflowStep, metadata json.RawMessage) (*model.WorkflowState, error) {
	if f.completeErr != nil {
		return nil, f.completeErr
	}
	return f.state, nil
}

func (f *fakeOnboarding) Reset(ctx context.Context, actor model.Actor) error {
	return f.resetErr
}

func TestOnboardingGetState_NoActor(t *testing.T) {
	h := NewOnboarding(&fakeOnboarding{})
	rec := httptest.NewRecorder()

	h.GetState(rec, httptest.NewRequest(http.MethodGet, "/onboarding/state", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOnboardingGetState_ReturnsState(t *testing.T) {
	state := model.NewWorkflowState("usr-1")
	h := NewOnboarding(&fakeOnboarding{state: state})
	rec := httptest.NewRecorder()
	r := withActor(httptest.NewRequest(http.MethodGet, "/onboarding/state", nil), testActor)

	h.GetState(rec, r)

	assert.Equal(t, http.StatusOK, rec.Code)
	var got model.WorkflowState
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "usr-1", got.ActorID)
	assert.Equal(t, model.StepSuperAdminCheck, got.CurrentStep)
}

func TestOnboardingGetState_BackendUnavailable(t *testing.T) {
	h := NewOnboarding(&fakeOnboarding{
		getErr: fmt.Errorf("get state: %w", onboarding.ErrBackendUnavailable),
	})
	rec := httptest.NewRecorder()
	r := withActor(httptest.NewRequest(http.MethodGet, "/onboarding/state", nil), testActor)

	h.GetState(rec, r)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["retryable"])
}

func TestOnboardingCompleteStep_InvalidJSON(t *testing.T) {
	h := NewOnboarding(&fakeOnboarding{})
	rec := httptest.NewRecorder()
	r := withActor(newRequestRaw(http.MethodPost, "/onboarding/steps/complete", "{bad"), testActor)

	h.CompleteStep(rec, r)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeErrorResponse(rec)["error"], "invalid JSON")
}

func TestOnboardingCompleteStep_MissingStep(t *testing.T) {
	h := NewOnboarding(&fakeOnboarding{})
	rec := httptest.NewRecorder()
	r := withActor(newRequest(http.MethodPost, "/onboarding/steps/complete", map[string]any{}), testActor)

	h.CompleteStep(rec, r)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeErrorResponse(rec)["error"], "validation error")
}

func TestOnboardingCompleteStep_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"invalid transition", onboarding.ErrInvalidTransition, http.StatusConflict},
		{"precondition not met", onboarding.ErrPreconditionNotMet, http.StatusUnprocessableEntity},
		{"backend unavailable", onboarding.ErrBackendUnavailable, http.StatusServiceUnavailable},
		{"persistence", onboarding.ErrPersistence, http.StatusServiceUnavailable},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewOnboarding(&fakeOnboarding{
				completeErr: fmt.Errorf("complete step: %w", tt.err),
			})
			rec := httptest.NewRecorder()
			r := withActor(newRequest(http.MethodPost, "/onboarding/steps/complete",
				map[string]any{"step": "pricing_selection"}), testActor)

			h.CompleteStep(rec, r)

			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestOnboardingCompleteStep_Success(t *testing.T) {
	state := model.NewWorkflowState("usr-1")
	state.MarkCompleted(model.StepSuperAdminCheck)
	state.CurrentStep = model.StepPricingSelection
	h := NewOnboarding(&fakeOnboarding{state: state})
	rec := httptest.NewRecorder()
	r := withActor(newRequest(http.MethodPost, "/onboarding/steps/complete",
		map[string]any{"step": "super_admin_check"}), testActor)

	h.CompleteStep(rec, r)

	assert.Equal(t, http.StatusOK, rec.Code)
	var got model.WorkflowState
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, model.StepPricingSelection, got.CurrentStep)
	assert.True(t, got.HasCompleted(model.StepSuperAdminCheck))
}

func TestOnboardingReset(t *testing.T) {
	h := NewOnboarding(&fakeOnboarding{})
	rec := httptest.NewRecorder()
	r := withActor(newRequest(http.MethodPost, "/onboarding/reset", nil), testActor)

	h.Reset(rec, r)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestOnboardingReset_Failure(t *testing.T) {
	h := NewOnboarding(&fakeOnboarding{
		resetErr: fmt.Errorf("reset: %w", onboarding.ErrPersistence),
	})
	rec := httptest.NewRecorder()
	r := withActor(newRequest(http.MethodPost, "/onboarding/reset", nil), testActor)

	h.Reset(rec, r)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
