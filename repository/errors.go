package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when the addressed row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique column already holds the value.
	ErrDuplicate = errors.New("duplicate record")
)

// RoleInUseError is returned when deleting a role that team members still hold.
type RoleInUseError struct {
	Name    string
	Members int64
}

func (e *RoleInUseError) Error() string {
	return fmt.Sprintf("cannot delete role %q as it is being used by %d team member(s)", e.Name, e.Members)
}

// translate maps GORM sentinel errors onto repository errors and wraps the rest.
func translate(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	}
	var inUse *RoleInUseError
	if errors.As(err, &inUse) || errors.Is(err, ErrNotFound) || errors.Is(err, ErrDuplicate) {
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}
