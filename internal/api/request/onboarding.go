package request

import "encoding/json"

type CompleteStep struct {
	Step     string          `json:"step" validate:"required"`
	Metadata json.RawMessage `json:"metadata"`
}
