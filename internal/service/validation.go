package service

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"orgdrive/internal/domain"
	"orgdrive/internal/namespace"
)

// idRules validate a resource identifier supplied by the caller
var idRules = []validation.Rule{validation.Required, is.UUID}

// nameRule applies the namespace name rules: no separators, no dot segments
func nameRule(maxLength int) validation.Rule {
	return validation.By(func(value interface{}) error {
		name, _ := value.(string)
		return namespace.ValidateName(name, maxLength)
	})
}

// checkUserID rejects callers without a usable identity. User ids come from
// the identity provider's subject and are stored in UUID columns.
func checkUserID(userID string) error {
	if userID == "" {
		return domain.Forbiddenf("an authenticated user is required")
	}
	if err := is.UUID.Validate(userID); err != nil {
		return domain.Forbiddenf("user id %q is not a valid identity", userID)
	}
	return nil
}

func validationError(err error) error {
	return fmt.Errorf("%w: %v", domain.ErrValidation, err)
}
