package models

import (
	"fmt"

	"gorm.io/gorm"
)

// AutoMigrate 建立 users 與 auctions 兩張表
func AutoMigrate(db *gorm.DB) error {
	const op = "models.AutoMigrate"
	if err := db.AutoMigrate(&User{}, &Auction{}); err != nil {
		return fmt.Errorf("[%s] Fail to migrate schema, err=%w", op, err)
	}
	return nil
}
