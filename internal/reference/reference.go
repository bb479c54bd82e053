// Package reference manages the name lists offered when entering data:
// suppliers, expense designations and employees. Names are unique ignoring
// case.
package reference

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound    = errors.New("reference entry not found")
	ErrUnknownKind = errors.New("unknown reference kind")
	ErrEmptyName   = errors.New("name is required")
	ErrConflict    = errors.New("name already exists")
)

type Kind string

const (
	KindSupplier    Kind = "supplier"
	KindDesignation Kind = "designation"
	KindEmployee    Kind = "employee"
)

var Kinds = []Kind{KindSupplier, KindDesignation, KindEmployee}

func (k Kind) Valid() bool {
	switch k {
	case KindSupplier, KindDesignation, KindEmployee:
		return true
	}

	return false
}

type Entry struct {
	ID        uuid.UUID
	Kind      Kind
	Name      string
	CreatedAt time.Time
}
