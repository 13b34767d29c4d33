package db

import (
	"fmt"
	"net/url"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"servicereg/internal/config"
)

// Connect opens a GORM database connection built from the discrete
// POSTGRES_* settings in config.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.PostgresUser, cfg.PostgresPassword),
		Host:   fmt.Sprintf("%s:%d", cfg.PostgresHost, cfg.PostgresPort),
		Path:   "/" + cfg.PostgresDB,
	}

	// PrepareStmt: true prevents the GORM postgres migrator from forcing simple protocol
	// for "SELECT * FROM table LIMIT 1", which would otherwise trigger "insufficient arguments".
	// TranslateError maps driver-specific constraint violations onto
	// gorm.ErrDuplicatedKey so handlers can classify them.
	db, err := gorm.Open(postgres.Open(u.String()), &gorm.Config{PrepareStmt: true, TranslateError: true})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&Service{}); err != nil {
		return nil, err
	}

	return db, nil
}
