package workflow

import (
	"fmt"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/mechanio/garage/internal/activity"
)

// OnboardingSweepWorkflow runs on a cron schedule and converges every
// in-progress onboarding attempt. It catches actors whose session ended
// before the in-process reconciler could observe their externally created
// entities.
func OnboardingSweepWorkflow(ctx workflow.Context) error {
	ao := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 2,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, ao)

	var actorIDs []string
	err := workflow.ExecuteActivity(ctx, "ListInProgressActors").Get(ctx, &actorIDs)
	if err != nil {
		return fmt.Errorf("list in-progress actors: %w", err)
	}

	logger := workflow.GetLogger(ctx)
	advanced := 0
	for _, actorID := range actorIDs {
		var result activity.ReconcileActorResult
		err := workflow.ExecuteActivity(ctx, "ReconcileActor", actorID).Get(ctx, &result)
		if err != nil {
			// One stuck actor must not abort the sweep for the rest.
			logger.Warn("failed to reconcile actor", "actor_id", actorID, "error", err)
			continue
		}
		if result.IsCompleted {
			advanced++
		}
	}

	logger.Info("onboarding sweep finished", "actors", len(actorIDs), "completed", advanced)
	return nil
}
