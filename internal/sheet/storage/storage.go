// Package storage defines persistence contracts for character sheets.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New("record not found")

// StateStore persists the current character state as an opaque JSON document.
type StateStore interface {
	// LoadState returns ErrNotFound when nothing has been saved yet.
	LoadState(ctx context.Context) ([]byte, error)
	SaveState(ctx context.Context, payload []byte) error
}

// Slot is a named saved copy of a character.
type Slot struct {
	ID        string
	Name      string
	Payload   []byte
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SlotStore persists character slots.
type SlotStore interface {
	// PutSlot inserts or replaces a slot. CreatedAt is kept from the first
	// insert.
	PutSlot(ctx context.Context, slot Slot) error
	GetSlot(ctx context.Context, id string) (Slot, error)
	// ListSlots returns slots most recently updated first.
	ListSlots(ctx context.Context) ([]Slot, error)
	DeleteSlot(ctx context.Context, id string) error
}
