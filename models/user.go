package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User 代表拍賣系統中的使用者
// 包含登入所需的使用者名稱、電子郵件以及加鹽後的密碼雜湊
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;<-:create"`
	Username     string    `gorm:"type:varchar(50);not null;uniqueIndex;<-:create"`
	Email        string    `gorm:"type:varchar(120);not null;uniqueIndex;<-:create"`
	PasswordHash string    `gorm:"type:varchar(128);not null;<-:create"`
	CreatedAt    time.Time
}

// BeforeCreate 在寫入前產生主鍵，讓 postgres 與 sqlite 的行為一致
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
