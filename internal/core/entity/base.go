// Package entity provides the fields shared by stored entities.
package entity

import (
	"context"
	"time"

	"inventory/internal/core/id"
)

// Validatable is implemented by entities that support self-validation.
// Validation checks internal invariants (without database access).
type Validatable interface {
	// Validate checks entity invariants.
	// Returns nil if valid, AppError with details otherwise.
	Validate(ctx context.Context) error
}

// Identifiable exposes the primary key.
type Identifiable interface {
	GetID() id.ID
}

// BaseEntity contains common fields for all entities.
type BaseEntity struct {
	// ID is the primary key (UUIDv7)
	ID id.ID `db:"id" json:"id"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// NewBaseEntity creates a new BaseEntity with generated ID.
func NewBaseEntity() BaseEntity {
	return BaseEntity{
		ID:        id.New(),
		CreatedAt: time.Now().UTC(),
	}
}

// GetID returns the primary key.
func (b BaseEntity) GetID() id.ID {
	return b.ID
}

// Versioned adds optimistic locking to mutable entities.
type Versioned struct {
	// Version is incremented on each update
	Version   int       `db:"version" json:"version"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Touch increments version and refreshes UpdatedAt.
func (v *Versioned) Touch() {
	v.Version++
	v.UpdatedAt = time.Now().UTC()
}

///////////////
// Documents //
///////////////

// BaseDocument extends BaseEntity with the fields of a numbered business document.
type BaseDocument struct {
	BaseEntity

	// Number is the human-readable document number (e.g. SL-2026-00001)
	Number string `db:"number" json:"number"`

	// CreatedBy is the user id of the author, empty for system-created documents
	CreatedBy string `db:"created_by" json:"createdBy,omitempty"`
}

// NewBaseDocument creates a new BaseDocument with generated ID and timestamp.
func NewBaseDocument() BaseDocument {
	return BaseDocument{BaseEntity: NewBaseEntity()}
}
