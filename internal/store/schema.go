package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/roach88/carlog/internal/model"
)

//go:embed schema/*.sql
var schemaFS embed.FS

// Tables lists the managed tables in creation order.
var Tables = []string{model.TableFuel, model.TableRides}

// TableExists reports whether a table with the given name exists.
func (s *Store) TableExists(ctx context.Context, name string) (bool, error) {
	var found string
	err := s.db.QueryRowContext(ctx, `
		SELECT name
		FROM sqlite_master
		WHERE type = 'table' AND name = ?
	`, name).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check table %s: %w", name, err)
	}
	return true, nil
}

// Bootstrap creates every managed table that does not exist yet and returns
// the names of the tables it created, in creation order. When all tables
// already exist it returns an empty slice and touches nothing.
func (s *Store) Bootstrap(ctx context.Context) ([]string, error) {
	created := []string{}
	for _, table := range Tables {
		exists, err := s.TableExists(ctx, table)
		if err != nil {
			return created, fmt.Errorf("bootstrap: %w", err)
		}
		if exists {
			continue
		}

		ddl, err := schemaFS.ReadFile("schema/" + table + ".sql")
		if err != nil {
			return created, fmt.Errorf("bootstrap: read schema for %s: %w", table, err)
		}
		if _, err := s.db.ExecContext(ctx, string(ddl)); err != nil {
			return created, fmt.Errorf("bootstrap: create table %s: %w", table, err)
		}
		created = append(created, table)
	}
	return created, nil
}
