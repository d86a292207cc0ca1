package model

import "time"

type Organization struct {
	ID      string `json:"id" db:"id"`
	OwnerID string `json:"owner_id" db:"owner_id"`
	Name    string `json:"name" db:"name"`
	Phone   string `json:"phone" db:"phone"`
	Address string `json:"address" db:"address"`
	// ValidatedAt is set when the organization's phone number passed SMS
	// validation. A non-nil value satisfies the sms_validation step even
	// when the actor's own phone-verified flag is unset.
	ValidatedAt *time.Time `json:"validated_at,omitempty" db:"validated_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}
