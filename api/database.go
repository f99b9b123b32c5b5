package api

import (
	"fmt"
	"log/slog"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// OpenDatabase 依照設定開啟 postgres 或 sqlite 連線
func OpenDatabase(config DBConfig) (*gorm.DB, error) {
	const op = "OpenDatabase"
	gormConfig := &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	}
	if config.Debug {
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	}

	var dialector gorm.Dialector
	switch config.Driver {
	case DBDriverPostgres:
		dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable", config.User, config.Password, config.Host, config.Port, config.Database)
		if config.Schema != "" {
			dsn += "&search_path=" + config.Schema
			gormConfig.NamingStrategy = schema.NamingStrategy{
				TablePrefix: config.Schema + ".",
			}
		}
		dialector = postgres.Open(dsn)
	case DBDriverSQLite:
		dialector = sqlite.Open(config.SQLitePath)
	default:
		return nil, fmt.Errorf("[%s] Unsupported database driver: %q", op, config.Driver)
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("[%s] Fail to connect to database, err=%w", op, err)
	}

	if config.Driver == DBDriverSQLite {
		// sqlite 只允許單一寫入者，並且外鍵檢查是以連線為單位開啟
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("[%s] Fail to get sql.DB, err=%w", op, err)
		}
		sqlDB.SetMaxOpenConns(1)
		if result := db.Exec("PRAGMA foreign_keys = ON"); result.Error != nil {
			return nil, fmt.Errorf("[%s] Fail to enable foreign keys, err=%w", op, result.Error)
		}
	}
	slog.Debug("Database connected", slog.String("driver", config.Driver))
	return db, nil
}
