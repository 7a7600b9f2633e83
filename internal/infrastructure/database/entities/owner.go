package entities

import "time"

// Owner records a signed-in user's profile.
type Owner struct {
	ID           string    `gorm:"type:varchar(191);primaryKey"`
	Email        string    `gorm:"type:varchar(320)"`
	DisplayName  string    `gorm:"type:varchar(255)"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	LastSignInAt time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (Owner) TableName() string {
	return "owners"
}
