// Package owner keeps the profile of signed-in users and implements
// account forgetting.
package owner

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"focusframe-server/internal/domain/item"
	"focusframe-server/internal/utils/platformerrors"
)

// ErrNotFound is returned when no profile exists for the owner.
var ErrNotFound = errors.New("owner not found")

// Owner is a signed-in user's profile.
type Owner struct {
	ID           string    `json:"id"`
	Email        string    `json:"email,omitempty"`
	DisplayName  string    `json:"display_name,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	LastSignInAt time.Time `json:"last_sign_in_at"`
}

// Identity is what the auth layer knows about the caller.
type Identity struct {
	ID          string
	Email       string
	DisplayName string
}

// Anonymous reports whether the identity carries no owner.
func (i Identity) Anonymous() bool {
	return strings.TrimSpace(i.ID) == ""
}

// Profile is an owner together with the size of their item collection.
type Profile struct {
	Owner     Owner `json:"owner"`
	ItemCount int64 `json:"item_count"`
}

// Repository persists owner profiles.
type Repository interface {
	// Upsert creates the profile or refreshes email, name and last sign-in.
	Upsert(ctx context.Context, identity Identity, signedInAt time.Time) (Owner, error)
	Get(ctx context.Context, id string) (Owner, error)
	Delete(ctx context.Context, id string) error
}

// ItemEraser removes every item of an owner.
type ItemEraser interface {
	DeleteAll(ctx context.Context, ownerID string) error
	Count(ctx context.Context, ownerID string) (int64, error)
}

// Service is the owner registry.
type Service struct {
	repo  Repository
	items ItemEraser
	now   func() time.Time
	log   zerolog.Logger
}

// NewService wires the owner registry.
func NewService(repo Repository, items ItemEraser, log zerolog.Logger) *Service {
	return &Service{
		repo:  repo,
		items: items,
		now:   func() time.Time { return time.Now().UTC() },
		log:   log.With().Str("component", "owner-service").Logger(),
	}
}

// Touch records a sign-in.
func (s *Service) Touch(ctx context.Context, identity Identity) (Owner, error) {
	if identity.Anonymous() {
		return Owner{}, item.NewValidationError(ctx, "an authenticated owner is required")
	}
	o, err := s.repo.Upsert(ctx, identity, s.now())
	if err != nil {
		return Owner{}, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "record sign-in", err)
	}
	s.log.Debug().Str("owner_id", o.ID).Msg("owner signed in")
	return o, nil
}

// Profile returns the owner's profile and item count.
func (s *Service) Profile(ctx context.Context, ownerID string) (Profile, error) {
	if strings.TrimSpace(ownerID) == "" {
		return Profile{}, item.NewValidationError(ctx, "an authenticated owner is required")
	}
	o, err := s.repo.Get(ctx, ownerID)
	if errors.Is(err, ErrNotFound) {
		return Profile{}, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound, "owner not found", err)
	}
	if err != nil {
		return Profile{}, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "get owner", err)
	}

	count, err := s.items.Count(ctx, ownerID)
	if err != nil {
		return Profile{}, err
	}
	return Profile{Owner: o, ItemCount: count}, nil
}

// Forget deletes all the owner's items and then the owner record. If the
// items cannot be deleted the owner record is kept.
func (s *Service) Forget(ctx context.Context, ownerID string) error {
	if strings.TrimSpace(ownerID) == "" {
		return item.NewValidationError(ctx, "an authenticated owner is required")
	}
	if err := s.items.DeleteAll(ctx, ownerID); err != nil {
		s.log.Error().Err(err).Str("owner_id", ownerID).Msg("delete owner items")
		return err
	}
	if err := s.repo.Delete(ctx, ownerID); err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "delete owner", err)
	}
	s.log.Info().Str("owner_id", ownerID).Msg("owner forgotten")
	return nil
}
