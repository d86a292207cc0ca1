// Package onboarding implements the tenant onboarding workflow: an ordered
// sequence of gated setup steps that must be traversed exactly once before
// the dashboard becomes available.
//
// The persisted current step is treated as a cache; the existence of each
// step's gating entity (super admin, plan selection, admin, organization,
// phone verification, garage) is the ground truth. The reconciler detects
// drift between the two and advances the stored state, never past a step
// whose entity does not exist.
package onboarding
