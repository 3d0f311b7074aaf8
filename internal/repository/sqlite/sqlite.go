package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"translatedtext/internal/repository"
	"translatedtext/internal/repository/sqlstore"

	_ "modernc.org/sqlite"
)

// maxParams stays below SQLITE_MAX_VARIABLE_NUMBER on old builds (999)
const maxParams = 999

const schema = `
CREATE TABLE IF NOT EXISTS translated_text (
	att_id INTEGER NOT NULL,
	langcode TEXT NOT NULL,
	item_id INTEGER NOT NULL,
	value TEXT NOT NULL DEFAULT '',
	tstamp INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (att_id, langcode, item_id)
);

CREATE INDEX IF NOT EXISTS idx_translated_text_item ON translated_text(att_id, item_id);
`

// Repository is the SQLite backed table accessor
type Repository struct {
	*sqlstore.Store
}

var _ repository.Store = (*Repository)(nil)

// New opens (creating if needed) the SQLite database at dbPath.
// ":memory:" gives a private in-memory database.
func New(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection: keeps :memory: databases alive and serializes writers
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA journal_mode = WAL; PRAGMA busy_timeout = 5000;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to configure database: %w", err)
	}

	repo := &Repository{Store: sqlstore.New(db, sqlstore.NewQuestionDialect("sqlite", maxParams))}
	if err := repo.Migrate(context.Background(), schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return repo, nil
}
