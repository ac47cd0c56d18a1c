package workflow

import (
	"github.com/hcquillabamba/custodia/model"
	apperrors "github.com/hcquillabamba/custodia/pkg/errors"
)

// Capability checks are evaluated once at the engine boundary. They are
// advisory, not a security mechanism.

func requireActor(actor *model.User) error {
	if actor == nil {
		return apperrors.Unauthorized("no authenticated user")
	}
	return nil
}

func requireAdmin(actor *model.User) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	if !actor.IsAdmin() {
		return apperrors.PermissionDenied("administrator role required")
	}
	return nil
}

func requireServiceGuest(actor *model.User) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	if !actor.IsGuest() || actor.Service == "" {
		return apperrors.PermissionDenied("guest role with an assigned service required")
	}
	return nil
}
