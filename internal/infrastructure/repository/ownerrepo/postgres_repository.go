package ownerrepo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"focusframe-server/internal/domain/owner"
	"focusframe-server/internal/infrastructure/database/entities"
)

// PostgresRepository persists owner profiles via GORM.
type PostgresRepository struct {
	db *gorm.DB
}

// NewPostgresRepository creates a repository backed by the provided DB.
func NewPostgresRepository(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Upsert(ctx context.Context, identity owner.Identity, signedInAt time.Time) (owner.Owner, error) {
	row := entities.Owner{
		ID:           identity.ID,
		Email:        identity.Email,
		DisplayName:  identity.DisplayName,
		LastSignInAt: signedInAt,
	}

	assignments := []string{"last_sign_in_at", "updated_at"}
	if identity.Email != "" {
		assignments = append(assignments, "email")
	}
	if identity.DisplayName != "" {
		assignments = append(assignments, "display_name")
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(assignments),
	}).Create(&row).Error
	if err != nil {
		return owner.Owner{}, err
	}
	return r.Get(ctx, identity.ID)
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (owner.Owner, error) {
	var row entities.Owner
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return owner.Owner{}, owner.ErrNotFound
	}
	if err != nil {
		return owner.Owner{}, err
	}
	return owner.Owner{
		ID:           row.ID,
		Email:        row.Email,
		DisplayName:  row.DisplayName,
		CreatedAt:    row.CreatedAt.UTC(),
		LastSignInAt: row.LastSignInAt.UTC(),
	}, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.Owner{}).Error
}

var _ owner.Repository = (*PostgresRepository)(nil)
