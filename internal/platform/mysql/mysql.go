package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xfcbe/fake-news-detection/internal/model"
)

// New opens the shared session database and pings it. Call Migrate before
// using the session table.
func New(ctx context.Context, dsn string) (*gorm.DB, error) {
	return open(ctx, mysql.Open(dsn), true)
}

// NewWithConn wraps an existing connection, e.g. one owned by a test harness.
func NewWithConn(ctx context.Context, conn *sql.DB) (*gorm.DB, error) {
	return open(ctx, mysql.New(mysql.Config{
		Conn:                      conn,
		SkipInitializeWithVersion: true,
	}), false)
}

// open closes the pool on failure only when it owns it.
func open(ctx context.Context, dialector gorm.Dialector, owned bool) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open mysql failed: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get mysql sql db failed: %w", err)
	}

	// One interactive user per process.
	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetMaxOpenConns(4)
	sqlDB.SetConnMaxLifetime(1 * time.Hour)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		if owned {
			_ = sqlDB.Close()
		}
		return nil, fmt.Errorf("ping mysql failed: %w", err)
	}

	return db, nil
}

func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(&model.SessionEntry{}); err != nil {
		return fmt.Errorf("auto migrate session table failed: %w", err)
	}
	return nil
}
