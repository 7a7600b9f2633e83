package entities

import "time"

// Item is the persisted row of a user item. The suggestion is flattened into
// two nullable columns so it can be cleared with a single update.
type Item struct {
	ID                  string     `gorm:"type:varchar(64);primaryKey"`
	OwnerID             string     `gorm:"type:varchar(191);not null;index:idx_items_owner_created,priority:1"`
	Content             string     `gorm:"type:text;not null"`
	Bucket              string     `gorm:"type:varchar(16);not null"`
	SuggestedBucket     *string    `gorm:"type:varchar(16)"`
	SuggestionReasoning *string    `gorm:"type:text"`
	CreatedAt           *time.Time `gorm:"autoCreateTime:false;not null;default:now();index:idx_items_owner_created,priority:2,sort:desc"`
	UpdatedAt           time.Time  `gorm:"autoUpdateTime"`
}

func (Item) TableName() string {
	return "items"
}
