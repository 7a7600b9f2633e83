package itemrepo

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"focusframe-server/internal/domain/item"
	"focusframe-server/internal/infrastructure/database/entities"
	"focusframe-server/internal/utils/idgen"
)

// PostgresRepository persists items via PostgreSQL using GORM.
// created_at is filled by the database clock.
type PostgresRepository struct {
	db  *gorm.DB
	log zerolog.Logger
}

// NewPostgresRepository creates a repository backed by the provided DB.
func NewPostgresRepository(db *gorm.DB, log zerolog.Logger) *PostgresRepository {
	return &PostgresRepository{
		db:  db,
		log: log.With().Str("component", "item-repository").Logger(),
	}
}

func (r *PostgresRepository) Insert(ctx context.Context, ownerID string, draft item.Draft) (item.Item, error) {
	id, err := idgen.ItemID()
	if err != nil {
		return item.Item{}, err
	}

	row := entities.Item{
		ID:      id,
		OwnerID: ownerID,
		Content: draft.Content,
		Bucket:  string(draft.Bucket),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return item.Item{}, err
	}

	created, ok := toDomain(row)
	if !ok {
		// RETURNING did not hand back the timestamp; read it.
		return r.FindByID(ctx, ownerID, id)
	}
	return created, nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, ownerID, id string) (item.Item, error) {
	var row entities.Item
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return item.Item{}, item.ErrNotFound
	}
	if err != nil {
		return item.Item{}, err
	}

	found, ok := toDomain(row)
	if !ok {
		return item.Item{}, item.ErrNotFound
	}
	return found, nil
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]item.Item, error) {
	var rows []entities.Item
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	items := make([]item.Item, 0, len(rows))
	for _, row := range rows {
		decoded, ok := toDomain(row)
		if !ok {
			r.log.Warn().Str("item_id", row.ID).Msg("skipping item without created_at")
			continue
		}
		items = append(items, decoded)
	}
	return items, nil
}

func (r *PostgresRepository) Update(ctx context.Context, ownerID, id string, patch item.Patch) (item.Item, error) {
	var updated item.Item
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row entities.Item
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("owner_id = ? AND id = ?", ownerID, id).
			First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return item.ErrNotFound
		}
		if err != nil {
			return err
		}

		current, ok := toDomain(row)
		if !ok {
			return item.ErrNotFound
		}
		updated = patch.Apply(current)

		return tx.Model(&entities.Item{}).
			Where("owner_id = ? AND id = ?", ownerID, id).
			Updates(columnsFor(updated)).Error
	})
	if err != nil {
		return item.Item{}, err
	}
	return updated, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, ownerID, id string) error {
	return r.db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		Delete(&entities.Item{}).Error
}

// DeleteAll reads the owner's current id set and deletes it in one transaction.
func (r *PostgresRepository) DeleteAll(ctx context.Context, ownerID string) (int, error) {
	var removed int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []string
		if err := tx.Model(&entities.Item{}).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("owner_id = ?", ownerID).
			Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}

		result := tx.Where("owner_id = ? AND id IN ?", ownerID, ids).Delete(&entities.Item{})
		if result.Error != nil {
			return result.Error
		}
		removed = int(result.RowsAffected)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

func (r *PostgresRepository) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entities.Item{}).
		Where("owner_id = ?", ownerID).
		Count(&count).Error
	return count, err
}

func toDomain(row entities.Item) (item.Item, bool) {
	if row.CreatedAt == nil || row.CreatedAt.IsZero() {
		return item.Item{}, false
	}

	decoded := item.Item{
		ID:        row.ID,
		OwnerID:   row.OwnerID,
		Content:   row.Content,
		Bucket:    item.DecodeBucket(row.Bucket),
		CreatedAt: row.CreatedAt.UTC(),
	}
	if row.SuggestedBucket != nil {
		reasoning := ""
		if row.SuggestionReasoning != nil {
			reasoning = *row.SuggestionReasoning
		}
		if b, ok := item.ParseBucket(*row.SuggestedBucket); ok {
			decoded.Suggestion = item.NewSuggestion(b, reasoning, decoded.Bucket)
		}
	}
	return decoded, true
}

func columnsFor(it item.Item) map[string]any {
	columns := map[string]any{
		"content":              it.Content,
		"bucket":               string(it.Bucket),
		"suggested_bucket":     nil,
		"suggestion_reasoning": nil,
	}
	if it.Suggestion != nil {
		columns["suggested_bucket"] = string(it.Suggestion.SuggestedBucket)
		columns["suggestion_reasoning"] = it.Suggestion.Reasoning
	}
	return columns
}

var _ item.Repository = (*PostgresRepository)(nil)
