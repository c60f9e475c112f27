// Package postgres implements store.RecordStore on PostgreSQL. All
// collections share one table of JSONB documents keyed by (collection, id);
// predicates compile to jsonb equality on top-level attributes.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/matchmaker/internal/common"
	"github.com/dmitrijs2005/matchmaker/internal/dbx"
	"github.com/dmitrijs2005/matchmaker/internal/server/store"
	"github.com/dmitrijs2005/matchmaker/internal/server/store/postgres/migrations"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

var gooseUpContext = goose.UpContext

type Store struct {
	db dbx.DBTX
}

func New(db dbx.DBTX) *Store {
	return &Store{db: db}
}

// Open connects with the pgx driver and verifies the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db error: %w: %v", common.ErrorStoreUnavailable, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db error: %w: %v", common.ErrorStoreUnavailable, err)
	}
	return db, nil
}

// RunMigrations applies the embedded goose migrations.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, ".")
}

func dbError(err error) error {
	return fmt.Errorf("db error: %w: %v", common.ErrorStoreUnavailable, err)
}

func (s *Store) GetByID(ctx context.Context, c store.Collection, id string, out any) error {
	query :=
		`SELECT doc FROM records
		 WHERE collection = $1 AND id = $2
		 `

	var doc []byte
	err := s.db.QueryRowContext(ctx, query, c.Name, id).Scan(&doc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrorNotFound
		}
		return dbError(err)
	}

	if err := json.Unmarshal(doc, out); err != nil {
		return dbError(err)
	}
	return nil
}

// buildScan renders the scan query. Field names are bound as parameters
// (doc -> $n), never spliced into the SQL text.
func buildScan(c store.Collection, p store.Predicate) (string, []any, error) {
	var sb strings.Builder
	sb.WriteString("SELECT doc FROM records WHERE collection = $1")
	args := []any{c.Name}

	for _, cond := range p.Conditions() {
		if cond.Op != store.OpEqual {
			return "", nil, fmt.Errorf("unsupported operator %s", cond.Op)
		}
		v, err := json.Marshal(cond.Value)
		if err != nil {
			return "", nil, err
		}
		args = append(args, cond.Field, string(v))
		fmt.Fprintf(&sb, " AND doc -> $%d::text = $%d::jsonb", len(args)-1, len(args))
	}
	sb.WriteString(" ORDER BY id")

	return sb.String(), args, nil
}

func (s *Store) Scan(ctx context.Context, c store.Collection, p store.Predicate, out any) error {
	query, args, err := buildScan(c, p)
	if err != nil {
		return dbError(err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return dbError(err)
	}
	defer rows.Close()

	docs := make([]json.RawMessage, 0)
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return dbError(err)
		}
		docs = append(docs, json.RawMessage(doc))
	}
	if err := rows.Err(); err != nil {
		return dbError(err)
	}

	b, err := json.Marshal(docs)
	if err != nil {
		return dbError(err)
	}
	if err := json.Unmarshal(b, out); err != nil {
		return dbError(err)
	}
	return nil
}

func (s *Store) Put(ctx context.Context, c store.Collection, item any) error {
	doc, err := json.Marshal(item)
	if err != nil {
		return dbError(err)
	}

	var keys map[string]any
	if err := json.Unmarshal(doc, &keys); err != nil {
		return dbError(err)
	}
	id, _ := keys[c.Key].(string)
	if id == "" {
		return dbError(fmt.Errorf("item has no %q", c.Key))
	}

	query :=
		`INSERT INTO records (collection, id, doc)
		 VALUES ($1, $2, $3::jsonb)
		 ON CONFLICT (collection, id) DO UPDATE SET doc = EXCLUDED.doc, updated_at = now()
		 `

	if _, err := s.db.ExecContext(ctx, query, c.Name, id, string(doc)); err != nil {
		return dbError(err)
	}
	return nil
}

// Update merges the assignments into the stored document with jsonb ||.
func (s *Store) Update(ctx context.Context, c store.Collection, id string, set []store.Assignment) error {
	if len(set) == 0 {
		return nil
	}

	patch := make(map[string]any, len(set))
	for _, a := range set {
		patch[a.Field] = a.Value
	}
	b, err := json.Marshal(patch)
	if err != nil {
		return dbError(err)
	}

	query :=
		`UPDATE records SET doc = doc || $3::jsonb, updated_at = now()
		 WHERE collection = $1 AND id = $2
		 `

	res, err := s.db.ExecContext(ctx, query, c.Name, id, string(b))
	if err != nil {
		return dbError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return dbError(err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "SELECT 1"); err != nil {
		return dbError(err)
	}
	return nil
}

// Close closes the underlying pool when the store owns a *sql.DB.
func (s *Store) Close() error {
	if db, ok := s.db.(*sql.DB); ok {
		return db.Close()
	}
	return nil
}
