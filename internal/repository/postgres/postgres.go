// Package postgres provides a PostgreSQL table accessor using pgx
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"translatedtext/internal/repository"
	"translatedtext/internal/repository/sqlstore"
)

// maxParams is the PostgreSQL wire protocol limit on bind parameters
const maxParams = 65535

const schema = `
CREATE TABLE IF NOT EXISTS translated_text (
	att_id BIGINT NOT NULL,
	langcode TEXT NOT NULL,
	item_id BIGINT NOT NULL,
	value TEXT NOT NULL DEFAULT '',
	tstamp BIGINT NOT NULL DEFAULT 0,
	PRIMARY KEY (att_id, langcode, item_id)
);

CREATE INDEX IF NOT EXISTS idx_translated_text_item ON translated_text(att_id, item_id);
`

// Repository is the PostgreSQL backed table accessor
type Repository struct {
	*sqlstore.Store
}

var _ repository.Store = (*Repository)(nil)

// Dialect returns the PostgreSQL SQL dialect
func Dialect() sqlstore.Dialect {
	return sqlstore.NewDollarDialect("postgres", maxParams)
}

// New connects to dsn (URL or key=value form), verifies the connection and
// migrates the schema.
func New(ctx context.Context, dsn string) (*Repository, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	repo := &Repository{Store: sqlstore.New(db, Dialect())}
	if err := repo.Migrate(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return repo, nil
}
