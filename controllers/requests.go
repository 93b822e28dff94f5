package controllers

import (
	"errors"
	"strings"

	"matchmaking_server/models"

	"github.com/go-playground/validator/v10"
)

// requestValidate checks request payloads.
var requestValidate = validator.New()

// MatchActionRequest is the body of POST /api/match/action.
type MatchActionRequest struct {
	TargetID string `json:"targetId" validate:"required,max=128"`
	Action   string `json:"action" validate:"required,oneof=chat chop"`
	ImageURL string `json:"imageUrl,omitempty" validate:"omitempty,max=2048"`
}

// Validate returns a models.ValidationError naming the first bad field.
func (r *MatchActionRequest) Validate() error {
	r.TargetID = strings.TrimSpace(r.TargetID)
	r.Action = strings.ToLower(strings.TrimSpace(r.Action))

	err := requestValidate.Struct(r)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		field := strings.ToLower(fe.Field()[:1]) + fe.Field()[1:]
		switch fe.Field() {
		case "TargetID":
			field = "targetId"
		case "ImageURL":
			field = "imageUrl"
		}
		return models.NewValidationError(field, fe.Tag())
	}
	return err
}
