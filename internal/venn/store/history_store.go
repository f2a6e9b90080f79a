package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Source identifies the surface an evaluation came from
type Source string

const (
	SourceGRPC      Source = "grpc"
	SourceHTTP      Source = "http"
	SourceWebSocket Source = "websocket"
	SourceCLI       Source = "cli"
	SourceShell     Source = "shell"
)

// Evaluation is one recorded evaluation attempt
type Evaluation struct {
	ID            string        `json:"id"`
	Timestamp     time.Time     `json:"timestamp"`
	ExerciseID    string        `json:"exercise_id"`
	Expression    string        `json:"expression"`
	Canonical     string        `json:"canonical,omitempty"`
	Result        string        `json:"result,omitempty"`
	ErrorKind     string        `json:"error_kind,omitempty"`
	ErrorPosition int           `json:"error_position"`
	ErrorMessage  string        `json:"error_message,omitempty"`
	Duration      time.Duration `json:"duration"`
	Source        Source        `json:"source,omitempty"`
	RequestID     string        `json:"request_id,omitempty"`
}

// Failed reports whether the evaluation ended in a parse error
func (e *Evaluation) Failed() bool {
	return e.ErrorKind != ""
}

// Filter defines criteria for querying the history
type Filter struct {
	ExerciseID string
	Since      time.Time
	OnlyErrors bool
	Limit      int
	Offset     int
}

// ExpressionCount is an expression with its number of occurrences
type ExpressionCount struct {
	Expression string `json:"expression"`
	Count      int64  `json:"count"`
}

// Stats summarises the stored history
type Stats struct {
	Total          int64             `json:"total"`
	Errors         int64             `json:"errors"`
	ByExercise     map[string]int64  `json:"by_exercise"`
	ByErrorKind    map[string]int64  `json:"by_error_kind"`
	TopExpressions []ExpressionCount `json:"top_expressions"`
	First          time.Time         `json:"first,omitempty"`
	Last           time.Time         `json:"last,omitempty"`
}

// HistoryStore defines the interface for evaluation history persistence
type HistoryStore interface {
	Record(ctx context.Context, e *Evaluation) error
	Query(ctx context.Context, filter Filter) ([]*Evaluation, error)
	Stats(ctx context.Context) (*Stats, error)
	Prune(ctx context.Context, olderThan time.Duration) (int64, error)
	PingContext(ctx context.Context) error
	Close() error
}

// SQLiteHistoryStore implements HistoryStore using SQLite
type SQLiteHistoryStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// Config holds configuration for the SQLite store
type Config struct {
	Path string
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		Path: "./data/history.db",
	}
}

// topExpressionsLimit caps Stats.TopExpressions
const topExpressionsLimit = 10

// NewSQLiteHistoryStore creates a new SQLite-based history store
func NewSQLiteHistoryStore(cfg Config) (*SQLiteHistoryStore, error) {
	dir := filepath.Dir(cfg.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &SQLiteHistoryStore{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates the necessary tables
func (s *SQLiteHistoryStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS evaluations (
		id TEXT PRIMARY KEY,
		timestamp DATETIME NOT NULL,
		exercise_id TEXT NOT NULL,
		expression TEXT NOT NULL,
		canonical TEXT,
		result TEXT,
		error_kind TEXT,
		error_position INTEGER NOT NULL DEFAULT -1,
		error_message TEXT,
		duration_us INTEGER NOT NULL DEFAULT 0,
		source TEXT,
		request_id TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_evaluations_timestamp ON evaluations(timestamp DESC);
	CREATE INDEX IF NOT EXISTS idx_evaluations_exercise ON evaluations(exercise_id);
	CREATE INDEX IF NOT EXISTS idx_evaluations_error_kind ON evaluations(error_kind);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Record stores an evaluation, assigning ID and Timestamp when unset
func (s *SQLiteHistoryStore) Record(ctx context.Context, e *Evaluation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	e.Timestamp = e.Timestamp.UTC()
	if e.ErrorKind == "" {
		e.ErrorPosition = -1
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO evaluations (id, timestamp, exercise_id, expression, canonical, result,
			error_kind, error_position, error_message, duration_us, source, request_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, e.ID, e.Timestamp, e.ExerciseID, e.Expression, nullString(e.Canonical), nullString(e.Result),
		nullString(e.ErrorKind), e.ErrorPosition, nullString(e.ErrorMessage),
		e.Duration.Microseconds(), nullString(string(e.Source)), nullString(e.RequestID))

	if err != nil {
		return fmt.Errorf("failed to insert evaluation: %w", err)
	}

	return nil
}

// Query retrieves evaluations, newest first
func (s *SQLiteHistoryStore) Query(ctx context.Context, filter Filter) ([]*Evaluation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT id, timestamp, exercise_id, expression, canonical, result, error_kind,
		error_position, error_message, duration_us, source, request_id FROM evaluations WHERE 1=1`
	var args []interface{}

	if filter.ExerciseID != "" {
		query += " AND exercise_id = ?"
		args = append(args, filter.ExerciseID)
	}
	if !filter.Since.IsZero() {
		query += " AND timestamp >= ?"
		args = append(args, filter.Since.UTC())
	}
	if filter.OnlyErrors {
		query += " AND error_kind IS NOT NULL"
	}

	query += " ORDER BY timestamp DESC, id"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	} else if filter.Offset > 0 {
		// SQLite requires LIMIT before OFFSET
		query += " LIMIT -1"
	}
	if filter.Offset > 0 {
		query += " OFFSET ?"
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query evaluations: %w", err)
	}
	defer rows.Close()

	entries := []*Evaluation{}
	for rows.Next() {
		var e Evaluation
		var canonical, result, errorKind, errorMessage, source, requestID sql.NullString
		var durationUS int64

		if err := rows.Scan(&e.ID, &e.Timestamp, &e.ExerciseID, &e.Expression, &canonical, &result,
			&errorKind, &e.ErrorPosition, &errorMessage, &durationUS, &source, &requestID); err != nil {
			return nil, fmt.Errorf("failed to scan evaluation: %w", err)
		}

		e.Canonical = canonical.String
		e.Result = result.String
		e.ErrorKind = errorKind.String
		e.ErrorMessage = errorMessage.String
		e.Source = Source(source.String)
		e.RequestID = requestID.String
		e.Duration = time.Duration(durationUS) * time.Microsecond

		entries = append(entries, &e)
	}

	return entries, rows.Err()
}

// Stats returns summary statistics over the whole history
func (s *SQLiteHistoryStore) Stats(ctx context.Context) (*Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &Stats{
		ByExercise:     make(map[string]int64),
		ByErrorKind:    make(map[string]int64),
		TopExpressions: []ExpressionCount{},
	}

	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COUNT(error_kind) FROM evaluations`,
	).Scan(&stats.Total, &stats.Errors); err != nil {
		return nil, fmt.Errorf("failed to count evaluations: %w", err)
	}

	if stats.Total > 0 {
		var first, last string
		if err := s.db.QueryRowContext(ctx,
			`SELECT MIN(timestamp), MAX(timestamp) FROM evaluations`,
		).Scan(&first, &last); err != nil {
			return nil, fmt.Errorf("failed to read time range: %w", err)
		}
		stats.First = parseTimestamp(first)
		stats.Last = parseTimestamp(last)
	}

	if err := s.countBy(ctx, `SELECT exercise_id, COUNT(*) FROM evaluations GROUP BY exercise_id`, stats.ByExercise); err != nil {
		return nil, err
	}
	if err := s.countBy(ctx, `SELECT error_kind, COUNT(*) FROM evaluations WHERE error_kind IS NOT NULL GROUP BY error_kind`, stats.ByErrorKind); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT canonical, COUNT(*) AS n FROM evaluations
		WHERE canonical IS NOT NULL
		GROUP BY canonical ORDER BY n DESC, canonical LIMIT ?
	`, topExpressionsLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top expressions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ec ExpressionCount
		if err := rows.Scan(&ec.Expression, &ec.Count); err != nil {
			return nil, fmt.Errorf("failed to scan top expression: %w", err)
		}
		stats.TopExpressions = append(stats.TopExpressions, ec)
	}

	return stats, rows.Err()
}

func (s *SQLiteHistoryStore) countBy(ctx context.Context, query string, into map[string]int64) error {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to query counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var n int64
		if err := rows.Scan(&key, &n); err != nil {
			return fmt.Errorf("failed to scan count: %w", err)
		}
		into[key] = n
	}
	return rows.Err()
}

// Prune removes evaluations older than the given age
func (s *SQLiteHistoryStore) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-olderThan).UTC()

	result, err := s.db.ExecContext(ctx, `DELETE FROM evaluations WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune evaluations: %w", err)
	}

	return result.RowsAffected()
}

// Vacuum compacts the database file
func (s *SQLiteHistoryStore) Vacuum(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "VACUUM")
	return err
}

// PingContext verifies the database is reachable
func (s *SQLiteHistoryStore) PingContext(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection
func (s *SQLiteHistoryStore) Close() error {
	return s.db.Close()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// timestampFormats lists the layouts go-sqlite3 uses when storing time.Time
var timestampFormats = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// parseTimestamp parses aggregate results, which sqlite returns as text
func parseTimestamp(s string) time.Time {
	for _, layout := range timestampFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
