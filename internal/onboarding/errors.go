package onboarding

import "errors"

var (
	// ErrBackendUnavailable marks an infrastructure failure on a remote
	// call. It is never interpreted as "entity absent".
	ErrBackendUnavailable = errors.New("backend unavailable")

	// ErrInvalidTransition is returned when a caller tries to complete a
	// step other than the current one. Deterministic; never retried.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrPreconditionNotMet is returned when the claimed step's gating
	// entity does not exist yet.
	ErrPreconditionNotMet = errors.New("precondition not met")

	// ErrPersistence marks a failed state write. The previously persisted
	// state is unchanged and the operation is safe to retry.
	ErrPersistence = errors.New("persistence failed")
)

// IsRetryable reports whether the error is an infrastructure failure that
// may succeed on retry. Validation errors are deterministic and are not
// retryable.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrBackendUnavailable) || errors.Is(err, ErrPersistence)
}
