package model

import "time"

// PhoneVerification tracks SMS validation for an actor. A row with a
// non-nil VerifiedAt is the actor-side ground truth for the sms_validation
// step.
type PhoneVerification struct {
	ID         string     `json:"id" db:"id"`
	ActorID    string     `json:"actor_id" db:"actor_id"`
	Phone      string     `json:"phone" db:"phone"`
	CodeHash   string     `json:"-" db:"code_hash"`
	ExpiresAt  time.Time  `json:"expires_at" db:"expires_at"`
	VerifiedAt *time.Time `json:"verified_at,omitempty" db:"verified_at"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
}
