// Package slots saves named copies of the current character and restores
// them.
package slots

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/louisbranch/kisheet/internal/platform/errors"
	"github.com/louisbranch/kisheet/internal/platform/id"
	"github.com/louisbranch/kisheet/internal/sheet/character"
	"github.com/louisbranch/kisheet/internal/sheet/storage"
	"github.com/louisbranch/kisheet/internal/sheet/store"
)

// DefaultName names a slot when neither the caller nor the character
// provides one.
const DefaultName = "New Character"

// Service manages character slots for one state store.
type Service struct {
	slots storage.SlotStore
	state *store.Store
	now   func() time.Time
	newID func() (string, error)
}

// NewService returns a slot service.
func NewService(slots storage.SlotStore, state *store.Store) *Service {
	return &Service{
		slots: slots,
		state: state,
		now:   time.Now,
		newID: id.NewID,
	}
}

// Create saves the current character into a new slot. A blank name falls
// back to the character's name, then DefaultName.
func (s *Service) Create(ctx context.Context, name string) (storage.Slot, error) {
	slotID, err := s.newID()
	if err != nil {
		return storage.Slot{}, err
	}
	current := s.state.Get()
	payload, err := character.Export(current)
	if err != nil {
		return storage.Slot{}, err
	}
	now := s.now().UTC()
	slot := storage.Slot{
		ID:        slotID,
		Name:      firstNonBlank(name, current.Meta.Name, DefaultName),
		Payload:   payload,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.slots.PutSlot(ctx, slot); err != nil {
		return storage.Slot{}, fmt.Errorf("create slot: %w", err)
	}
	return slot, nil
}

// Save overwrites a slot with the current character. The slot takes the
// character's name, or fallbackName when the character has none. A blank
// slotID creates a new slot instead.
func (s *Service) Save(ctx context.Context, slotID, fallbackName string) (storage.Slot, error) {
	current := s.state.Get()
	if strings.TrimSpace(slotID) == "" {
		return s.Create(ctx, firstNonBlank(current.Meta.Name, fallbackName))
	}
	slot, err := s.get(ctx, slotID)
	if err != nil {
		return storage.Slot{}, err
	}
	payload, err := character.Export(current)
	if err != nil {
		return storage.Slot{}, err
	}
	slot.Name = firstNonBlank(current.Meta.Name, fallbackName, slot.Name)
	slot.Payload = payload
	slot.UpdatedAt = s.now().UTC()
	if err := s.slots.PutSlot(ctx, slot); err != nil {
		return storage.Slot{}, fmt.Errorf("save slot: %w", err)
	}
	return slot, nil
}

// Rename changes a slot's display name.
func (s *Service) Rename(ctx context.Context, slotID, name string) (storage.Slot, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return storage.Slot{}, apperrors.New(apperrors.CodeSlotNameEmpty, "rename slot")
	}
	slot, err := s.get(ctx, slotID)
	if err != nil {
		return storage.Slot{}, err
	}
	slot.Name = name
	slot.UpdatedAt = s.now().UTC()
	if err := s.slots.PutSlot(ctx, slot); err != nil {
		return storage.Slot{}, fmt.Errorf("rename slot: %w", err)
	}
	return slot, nil
}

// Load replaces the current character with the slot's copy.
func (s *Service) Load(ctx context.Context, slotID string) (character.State, error) {
	slot, err := s.get(ctx, slotID)
	if err != nil {
		return character.State{}, err
	}
	state, err := character.Import(slot.Payload, "slot "+slot.ID)
	if err != nil {
		return character.State{}, err
	}
	if err := s.state.Replace(ctx, state); err != nil {
		return character.State{}, err
	}
	return state, nil
}

// Delete removes a slot.
func (s *Service) Delete(ctx context.Context, slotID string) error {
	err := s.slots.DeleteSlot(ctx, strings.TrimSpace(slotID))
	if errors.Is(err, storage.ErrNotFound) {
		return notFound(slotID, err)
	}
	return err
}

// List returns every slot, most recently updated first.
func (s *Service) List(ctx context.Context) ([]storage.Slot, error) {
	return s.slots.ListSlots(ctx)
}

func (s *Service) get(ctx context.Context, slotID string) (storage.Slot, error) {
	slot, err := s.slots.GetSlot(ctx, strings.TrimSpace(slotID))
	if errors.Is(err, storage.ErrNotFound) {
		return storage.Slot{}, notFound(slotID, err)
	}
	if err != nil {
		return storage.Slot{}, err
	}
	return slot, nil
}

func notFound(slotID string, cause error) error {
	return apperrors.WrapWithMetadata(
		apperrors.CodeSlotNotFound,
		"find slot",
		map[string]string{"SlotID": slotID},
		cause,
	)
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
