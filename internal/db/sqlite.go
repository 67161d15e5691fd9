package db

import (
	"fmt"

	"github.com/fsdevblog/linkboard/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// NewSQLite открывает базу, прогоняет миграцию и сеет запись домена
// по умолчанию (хост самого сервиса). Составной уникальный индекс
// (domain_id, short_token) создается здесь же миграцией — он и есть
// финальный арбитр уникальности токена.
func NewSQLite(dbPath string, defaultDomain string) (*gorm.DB, error) {
	conn, connErr := connectSQLite(dbPath)
	if connErr != nil {
		return nil, fmt.Errorf("init database error: %w", connErr)
	}
	if migrateErr := migrateSQLite(conn); migrateErr != nil {
		return nil, fmt.Errorf("migrate database error: %w", migrateErr)
	}
	if seedErr := seedDefaultDomain(conn, defaultDomain); seedErr != nil {
		return nil, fmt.Errorf("seed default domain error: %w", seedErr)
	}
	return conn, nil
}

func connectSQLite(dbPath string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("connect database with path %s error: %w", dbPath, err)
	}
	if dbPath == ":memory:" {
		sqlDB, dbErr := db.DB()
		if dbErr != nil {
			return nil, fmt.Errorf("get sql.DB error: %w", dbErr)
		}
		// у каждого соединения пула была бы своя in-memory база
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

func migrateSQLite(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Domain{},
		&models.Link{},
		&models.PageView{},
		&models.ArchiveEvent{},
	)
	if err != nil {
		return fmt.Errorf("migrating sql: %w", err)
	}
	return nil
}

// seedDefaultDomain гарантирует что домен сервиса существует: анонимные
// ссылки без собственного домена живут под ним.
func seedDefaultDomain(db *gorm.DB, uri string) error {
	if uri == "" {
		return nil
	}
	domain := models.Domain{
		URI:        uri,
		DomainType: models.DomainTypeDomain,
		Status:     models.DomainStatusVerified,
		Validated:  true,
	}
	err := db.Where(models.Domain{URI: uri}).FirstOrCreate(&domain).Error
	if err != nil {
		return fmt.Errorf("first or create domain %s: %w", uri, err)
	}
	return nil
}
