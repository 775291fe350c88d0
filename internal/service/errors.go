package service

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

var (
	// ErrInvalidCredentials covers wrong passwords, unknown emails and every
	// bearer token that does not resolve to a stored user.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserAlreadyExists is returned when registering an email that is taken.
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrTaskNotFound is returned for absent tasks and for tasks owned by someone else.
	ErrTaskNotFound = errors.New("task not found")
	// ErrValidation marks input rejected before reaching storage.
	ErrValidation = errors.New("validation failed")
	// ErrStore is the generic storage failure surfaced to callers.
	ErrStore = errors.New("storage failure")
	// ErrExportsDisabled is returned when no object storage is configured.
	ErrExportsDisabled = errors.New("task exports are not configured")
)

// storeFailure logs a storage fault and hides it behind ErrStore.
func storeFailure(log logrus.FieldLogger, op string, err error) error {
	log.WithError(err).WithField("op", op).Error("store operation failed")
	return fmt.Errorf("%w: %s", ErrStore, op)
}
