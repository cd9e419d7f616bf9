package services

import (
	"context"

	apperrors "github.com/charlesng35/notifyhub/pkg/errors"
)

var (
	// ErrUserNotFound is returned when the addressed user does not exist.
	ErrUserNotFound = apperrors.NewNotFound("user")
	// ErrNotificationNotFound hides notifications of other users as well as missing ones.
	ErrNotificationNotFound = apperrors.NewNotFound("notification")
	// ErrStatusRegression rejects moving a seen notification back to unseen.
	ErrStatusRegression = apperrors.ErrValidation.WithField("status", "A seen notification cannot be marked unseen.")
)

func invalidPK(field string) *apperrors.AppError {
	return apperrors.NewBadRequest("invalid " + field).WithField(field, "Invalid pk - object does not exist.")
}

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}
