// handlers/common.go
package handlers

import (
	"arcticcare-api/pkg/apperrors"
	"arcticcare-api/utils"

	"github.com/gofiber/fiber/v2"
)

var statusForCode = map[string]int{
	apperrors.CodeNotFound:     fiber.StatusNotFound,
	apperrors.CodeConflict:     fiber.StatusConflict,
	apperrors.CodeInvalidInput: fiber.StatusBadRequest,
	apperrors.CodeInternal:     fiber.StatusInternalServerError,
}

// respondError maps the error taxonomy onto HTTP statuses and localizes the
// user-facing message from Accept-Language. The raw cause stays in the body
// for the frontends that surface it in debug views.
func respondError(c *fiber.Ctx, err error) error {
	code := apperrors.CodeOf(err)
	status, ok := statusForCode[code]
	if !ok {
		status = fiber.StatusInternalServerError
	}
	return c.Status(status).JSON(fiber.Map{
		"error": utils.LocalizedMessage(c.Get("Accept-Language"), code),
		"code":  code,
		"cause": err.Error(),
	})
}

func hasRole(roles []string, wanted ...string) bool {
	for _, r := range roles {
		for _, w := range wanted {
			if r == w {
				return true
			}
		}
	}
	return false
}
