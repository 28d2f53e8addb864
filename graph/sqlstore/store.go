// Package sqlstore is a graph.Store backed by a database/sql table. Terms are
// stored in N-Triples syntax, one row per triple, and enumerated in insertion
// order. SQLite (modernc.org/sqlite) is registered by this package; Postgres
// and MySQL drivers must be imported by the program.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/geoknoesis/cimxml-go/graph"
	"github.com/geoknoesis/cimxml-go/rdf"
)

// DefaultTable is the table name used when none is configured.
const DefaultTable = "triples"

// Store implements graph.Store and graph.Adder over a SQL table.
type Store struct {
	db      *sql.DB
	dialect Dialect
	table   string
	logger  *zap.Logger
	ctx     context.Context
	owned   bool
}

// Option configures a Store.
type Option func(*Store)

// WithTable sets the table name. The name is used verbatim in SQL.
func WithTable(name string) Option {
	return func(s *Store) {
		s.table = name
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithContext sets the context used by the graph.Store query methods, which
// take no context argument.
func WithContext(ctx context.Context) Option {
	return func(s *Store) {
		if ctx != nil {
			s.ctx = ctx
		}
	}
}

// New wraps an open database. The caller keeps ownership of db.
func New(db *sql.DB, dialect Dialect, opts ...Option) *Store {
	s := &Store{
		db:      db,
		dialect: dialect,
		table:   DefaultTable,
		logger:  zap.NewNop(),
		ctx:     context.Background(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open opens a database with the named driver, creates the table if needed
// and returns a Store that closes the database on Close.
func Open(ctx context.Context, driver, dsn string, opts ...Option) (*Store, error) {
	dialect, err := DialectFor(driver)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: open %s: %w", driver, err)
	}
	if dialect == SQLite {
		// One writer at a time; avoids SQLITE_BUSY under database/sql pooling.
		db.SetMaxOpenConns(1)
	}
	s := New(db, dialect, opts...)
	s.owned = true
	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Migrate creates the triple table and its lookup indexes.
func (s *Store) Migrate(ctx context.Context) error {
	stmts := []string{
		fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s, subject TEXT NOT NULL, predicate TEXT NOT NULL, object TEXT NOT NULL)",
			s.table, s.dialect.idColumn()),
		fmt.Sprintf("CREATE INDEX %s%s_s ON %s (%s)", s.ifNotExists(), s.table, s.table, s.dialect.indexable("subject")),
		fmt.Sprintf("CREATE INDEX %s%s_o ON %s (%s)", s.ifNotExists(), s.table, s.table, s.dialect.indexable("object")),
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			if s.dialect == MySQL && strings.Contains(err.Error(), "Duplicate key name") {
				continue
			}
			return fmt.Errorf("sqlstore: migrate: %w", err)
		}
	}
	s.logger.Debug("triple table ready", zap.String("table", s.table), zap.String("dialect", string(s.dialect)))
	return nil
}

func (s *Store) ifNotExists() string {
	if s.dialect == MySQL {
		return ""
	}
	return "IF NOT EXISTS "
}

// Close closes the database if the Store opened it.
func (s *Store) Close() error {
	if s.owned {
		return s.db.Close()
	}
	return nil
}

// Add inserts t unless an identical row exists.
func (s *Store) Add(t rdf.Triple) error {
	return s.AddContext(s.ctx, t)
}

// AddContext is Add with an explicit context.
func (s *Store) AddContext(ctx context.Context, t rdf.Triple) error {
	if err := graph.ValidateTriple(t); err != nil {
		return err
	}
	subj, pred, obj := rdf.FormatTerm(t.S), t.P.Value, rdf.FormatTerm(t.O)
	query := fmt.Sprintf(
		"INSERT INTO %[1]s (subject, predicate, object) SELECT ?, ?, ?%[2]s WHERE NOT EXISTS (SELECT 1 FROM %[1]s WHERE subject = ? AND predicate = ? AND object = ?)",
		s.table, s.dialect.fromDual())
	if _, err := s.db.ExecContext(ctx, s.dialect.rebind(query), subj, pred, obj, subj, pred, obj); err != nil {
		return fmt.Errorf("sqlstore: insert: %w", err)
	}
	return nil
}

// Subjects returns the distinct subjects ordered by first insertion.
func (s *Store) Subjects() ([]rdf.Term, error) {
	query := fmt.Sprintf("SELECT subject FROM %s GROUP BY subject ORDER BY MIN(id)", s.table)
	values, err := s.column(query)
	if err != nil {
		return nil, err
	}
	out := make([]rdf.Term, 0, len(values))
	for _, v := range values {
		term, err := rdf.ParseTerm(v)
		if err != nil {
			return nil, fmt.Errorf("sqlstore: subject %q: %w", v, err)
		}
		out = append(out, term)
	}
	return out, nil
}

// Predicates returns the distinct predicates ordered by first insertion.
func (s *Store) Predicates() ([]rdf.IRI, error) {
	query := fmt.Sprintf("SELECT predicate FROM %s GROUP BY predicate ORDER BY MIN(id)", s.table)
	values, err := s.column(query)
	if err != nil {
		return nil, err
	}
	out := make([]rdf.IRI, 0, len(values))
	for _, v := range values {
		out = append(out, rdf.IRI{Value: v})
	}
	return out, nil
}

// Match returns the triples matching p in insertion order.
func (s *Store) Match(p graph.Pattern) ([]rdf.Triple, error) {
	where, args := s.where(p)
	query := fmt.Sprintf("SELECT subject, predicate, object FROM %s%s ORDER BY id", s.table, where)
	rows, err := s.db.QueryContext(s.ctx, s.dialect.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: match: %w", err)
	}
	defer rows.Close()

	var out []rdf.Triple
	for rows.Next() {
		var subj, pred, obj string
		if err := rows.Scan(&subj, &pred, &obj); err != nil {
			return nil, fmt.Errorf("sqlstore: scan: %w", err)
		}
		t, err := decodeRow(subj, pred, obj)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlstore: match: %w", err)
	}
	return out, nil
}

// Contains reports whether any triple matches p.
func (s *Store) Contains(p graph.Pattern) (bool, error) {
	where, args := s.where(p)
	query := fmt.Sprintf("SELECT 1 FROM %s%s LIMIT 1", s.table, where)
	var one int
	err := s.db.QueryRowContext(s.ctx, s.dialect.rebind(query), args...).Scan(&one)
	switch {
	case err == sql.ErrNoRows:
		return false, nil
	case err != nil:
		return false, fmt.Errorf("sqlstore: contains: %w", err)
	}
	return true, nil
}

// Len returns the number of rows.
func (s *Store) Len() (int, error) {
	var n int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", s.table)
	if err := s.db.QueryRowContext(s.ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("sqlstore: count: %w", err)
	}
	return n, nil
}

func (s *Store) where(p graph.Pattern) (string, []any) {
	var clauses []string
	var args []any
	if p.S != nil {
		clauses = append(clauses, "subject = ?")
		args = append(args, rdf.FormatTerm(p.S))
	}
	if p.P.Value != "" {
		clauses = append(clauses, "predicate = ?")
		args = append(args, p.P.Value)
	}
	if p.O != nil {
		clauses = append(clauses, "object = ?")
		args = append(args, rdf.FormatTerm(p.O))
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func (s *Store) column(query string) ([]string, error) {
	rows, err := s.db.QueryContext(s.ctx, query)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: query: %w", err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("sqlstore: scan: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlstore: query: %w", err)
	}
	return out, nil
}

func decodeRow(subj, pred, obj string) (rdf.Triple, error) {
	s, err := rdf.ParseTerm(subj)
	if err != nil {
		return rdf.Triple{}, fmt.Errorf("sqlstore: subject %q: %w", subj, err)
	}
	o, err := rdf.ParseTerm(obj)
	if err != nil {
		return rdf.Triple{}, fmt.Errorf("sqlstore: object %q: %w", obj, err)
	}
	return rdf.Triple{S: s, P: rdf.IRI{Value: pred}, O: o}, nil
}
