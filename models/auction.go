package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Auction 代表使用者擁有的拍賣紀錄
// 包含商品描述、起標價、結束時間與目前最高出價
// NOTE: HighestBid 只會在建立時寫入預設值，沒有任何流程會更新它
type Auction struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;<-:create"`
	Item       string    `gorm:"type:varchar(100);not null"`
	StartBid   float64   `gorm:"not null"`
	EndDate    time.Time `gorm:"not null"`
	HighestBid float64   `gorm:"not null;default:0"`
	OwnerID    uuid.UUID `gorm:"type:uuid;not null;index;<-:create"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// 外鍵關聯
	Owner *User `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
}

// BeforeCreate 在寫入前產生主鍵
func (a *Auction) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
