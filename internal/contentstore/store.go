// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package contentstore queries the multi-table platform content database
// and canonicalizes row fields into public URLs.
//
// The store is read-only from the engine's point of view: the crawler
// owns the schema. Queries fan a keyword match out across every known
// table and normalize rows into ContentRecords.
//
// See docs/ARCHITECTURE.md § Content Store.
package contentstore

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"sync"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/pdiddy/insight-engine/pkg/types"
)

const defaultLimitPerSource = 100

// Store executes keyword and date-bounded lookups against the content
// database. The table-column cache is read-through and write-once per
// key; it is owned by the Store, not package state.
type Store struct {
	db      *sql.DB
	dialect types.StoreDialect
	limit   int
	log     *zap.Logger

	mu      sync.Mutex
	columns map[string][]string
}

// NewStore opens the content database for the configured dialect.
func NewStore(cfg types.ContentStoreConfig) (*Store, error) {
	driver, err := driverFor(cfg.Dialect)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("opening content database: %w", err)
	}

	return NewStoreWithDB(db, cfg), nil
}

// NewStoreWithDB wraps an existing database handle. Tests use this with
// an in-memory SQLite database.
func NewStoreWithDB(db *sql.DB, cfg types.ContentStoreConfig) *Store {
	limit := cfg.LimitPerSource
	if limit <= 0 {
		limit = defaultLimitPerSource
	}
	dialect := cfg.Dialect
	if dialect == "" {
		dialect = types.DialectSQLite
	}
	return &Store{
		db:      db,
		dialect: dialect,
		limit:   limit,
		log:     zap.NewNop(),
		columns: make(map[string][]string),
	}
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func driverFor(dialect types.StoreDialect) (string, error) {
	switch dialect {
	case types.DialectSQLite, "":
		return "sqlite3", nil
	case types.DialectPostgres:
		return "postgres", nil
	default:
		return "", fmt.Errorf("unsupported content store dialect %q", dialect)
	}
}

// quote wraps an identifier for the store's SQL dialect.
func (s *Store) quote(identifier string) string {
	if s.dialect == types.DialectMySQL {
		return "`" + identifier + "`"
	}
	return `"` + identifier + `"`
}

// rebind rewrites ? placeholders into the dialect's native form.
func (s *Store) rebind(query string) string {
	if s.dialect != types.DialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ListColumns returns the column names of a table. Results are cached
// for the Store's lifetime; at most one schema probe is issued per table.
func (s *Store) ListColumns(ctx context.Context, table string) ([]string, error) {
	s.mu.Lock()
	if cols, ok := s.columns[table]; ok {
		s.mu.Unlock()
		return cols, nil
	}
	s.mu.Unlock()

	cols, err := s.probeColumns(ctx, table)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	// First writer wins; a concurrent probe of the same table returns
	// the identical column set anyway.
	if cached, ok := s.columns[table]; ok {
		cols = cached
	} else {
		s.columns[table] = cols
	}
	s.mu.Unlock()

	return cols, nil
}

func (s *Store) probeColumns(ctx context.Context, table string) ([]string, error) {
	var query string
	var args []any
	switch s.dialect {
	case types.DialectPostgres:
		query = `SELECT column_name FROM information_schema.columns WHERE table_name = $1 ORDER BY ordinal_position`
		args = append(args, table)
	case types.DialectMySQL:
		query = "SHOW COLUMNS FROM " + s.quote(table)
	default:
		query = fmt.Sprintf(`SELECT name FROM pragma_table_info(%s)`, "'"+table+"'")
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("probing columns of %s: %w", table, err)
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		if s.dialect == types.DialectMySQL {
			// SHOW COLUMNS returns six columns; only Field matters.
			var field, colType string
			var null, key, def, extra sql.NullString
			if err := rows.Scan(&field, &colType, &null, &key, &def, &extra); err != nil {
				return nil, fmt.Errorf("scanning column row: %w", err)
			}
			cols = append(cols, field)
			continue
		}
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning column row: %w", err)
		}
		cols = append(cols, name)
	}
	return cols, rows.Err()
}

// hasColumn reports whether the table has the named column, using the cache.
func (s *Store) hasColumn(ctx context.Context, table, column string) bool {
	cols, err := s.ListColumns(ctx, table)
	if err != nil {
		return false
	}
	for _, c := range cols {
		if c == column {
			return true
		}
	}
	return false
}

// queryRows runs a query and scans every row into a column→value map.
func (s *Store) queryRows(ctx context.Context, query string, args ...any) ([]map[string]any, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []map[string]any
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(map[string]any, len(cols))
		for i, c := range cols {
			row[c] = values[i]
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// rowString coerces a row value to a string. Drivers return strings,
// []byte, or numbers depending on the column affinity.
func rowString(row map[string]any, key string) string {
	v, ok := row[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

// rowInt coerces a row value to an int, returning 0 for anything that
// does not parse.
func rowInt(row map[string]any, key string) (int, bool) {
	v, ok := row[key]
	if !ok || v == nil {
		return 0, false
	}
	switch t := v.(type) {
	case int64:
		return int(t), true
	case float64:
		return int(t), true
	case []byte:
		n, err := strconv.Atoi(strings.TrimSpace(string(t)))
		if err != nil {
			return 0, false
		}
		return n, true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
