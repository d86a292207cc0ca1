package model

// Actor identifies the user/session driving an onboarding attempt. It is
// passed explicitly to every core operation; nothing reads an ambient
// global session.
type Actor struct {
	UserID string `json:"user_id"`
	// OrgID is empty until the org_creation step has produced an
	// organization for this actor.
	OrgID string `json:"org_id,omitempty"`
}
