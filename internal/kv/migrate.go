package kv

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"sync"

	"github.com/pressly/goose/v3"
)

// goose keeps its base FS and dialect in package globals.
var gooseMu sync.Mutex

func migrate(ctx context.Context, db *sql.DB, dialect, path string) error {
	dir, err := fs.Sub(migrations, path)
	if err != nil {
		return fmt.Errorf("open migrations %s: %w", path, err)
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(dir)
	defer goose.SetBaseFS(nil)
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("apply %s migrations: %w", dialect, err)
	}
	return nil
}
