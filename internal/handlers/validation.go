package handlers

import (
	"errors"
	"fmt"
	"io"

	"github.com/gin-gonic/gin"

	appErrors "github.com/charlesng35/notifyhub/pkg/errors"
	"github.com/charlesng35/notifyhub/pkg/response"
	appValidator "github.com/charlesng35/notifyhub/pkg/validator"
)

// Rules naming an enumerated value report bad input rather than a missing field.
var choiceRules = map[string]bool{
	"channel":     true,
	"seen_status": true,
}

// bindAndValidate binds the JSON payload into dest and runs struct validation rules.
// An empty body binds as an empty object. When binding or validation fails, an error
// response is written and false is returned.
func bindAndValidate[T any](c *gin.Context, dest *T) bool {
	if err := c.ShouldBindJSON(dest); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, appErrors.NewBadRequest("invalid JSON payload"))
		return false
	}

	if err := appValidator.ValidateStruct(dest); err != nil {
		response.Error(c, validationError(err))
		return false
	}

	return true
}

func validationError(err error) *appErrors.AppError {
	failures, ok := err.(appValidator.ValidationErrors)
	if !ok || len(failures) == 0 {
		return appErrors.ErrValidation
	}

	base := appErrors.ErrValidation
	for _, failure := range failures {
		if choiceRules[failure.Tag] {
			base = appErrors.ErrBadRequest
			break
		}
	}

	appErr := base
	for _, failure := range failures {
		appErr = appErr.WithField(failure.Field, fieldMessage(failure))
	}
	return appErr
}

func fieldMessage(failure appValidator.ValidationError) string {
	switch {
	case failure.Tag == "required":
		return "This field is required."
	case choiceRules[failure.Tag]:
		return "Not a valid choice."
	case failure.Tag == "min":
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", failure.Param)
	case failure.Tag == "max":
		return fmt.Sprintf("Ensure this value is less than or equal to %s.", failure.Param)
	case failure.Param != "":
		return fmt.Sprintf("failed validation: %s=%s", failure.Tag, failure.Param)
	default:
		return "failed validation: " + failure.Tag
	}
}
