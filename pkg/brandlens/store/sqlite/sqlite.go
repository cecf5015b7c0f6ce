package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/cognicore/brandlens/pkg/brandlens/internalerr"
	"github.com/cognicore/brandlens/pkg/brandlens/mention"
	"github.com/cognicore/brandlens/pkg/brandlens/store"
)

// Store is a SQLite-backed store.Store. It persists the run's mentions and,
// optionally, finished report rows so runs can be audited afterwards.
type Store struct {
	db *sql.DB

	mu     sync.Mutex
	dim    int
	sealed bool
}

// Open opens (or creates) a SQLite database with WAL mode enabled and the
// schema initialized.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	s := &Store{db: db}
	if err := s.loadDimension(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS mentions (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	id TEXT UNIQUE NOT NULL,
	brand TEXT NOT NULL,
	platform TEXT,
	text TEXT NOT NULL,
	polarity TEXT NOT NULL,
	intensity REAL NOT NULL,
	embedding TEXT NOT NULL,
	likes INTEGER NOT NULL DEFAULT 0,
	replies INTEGER NOT NULL DEFAULT 0,
	shares INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS themes (
	run_id TEXT NOT NULL,
	brand TEXT NOT NULL,
	bucket TEXT NOT NULL,
	label TEXT NOT NULL,
	score REAL NOT NULL,
	volume INTEGER NOT NULL,
	avg_engagement REAL NOT NULL,
	avg_intensity REAL NOT NULL,
	cluster_id INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_mentions_brand ON mentions(brand);
CREATE INDEX IF NOT EXISTS idx_themes_run ON themes(run_id);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

func (s *Store) loadDimension(ctx context.Context) error {
	var raw string
	err := s.db.QueryRowContext(ctx, "SELECT embedding FROM mentions ORDER BY seq LIMIT 1").Scan(&raw)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return err
	}
	var vec []float64
	if err := json.Unmarshal([]byte(raw), &vec); err != nil {
		return fmt.Errorf("decoding stored embedding: %w", err)
	}
	s.dim = len(vec)
	return nil
}

// Add validates and inserts a mention.
func (s *Store) Add(ctx context.Context, m mention.Mention) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := m.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	if s.sealed {
		s.mu.Unlock()
		return fmt.Errorf("%w: cannot add mention %s", internalerr.ErrStoreSealed, m.ID)
	}
	if s.dim == 0 {
		s.dim = len(m.Embedding)
	} else if len(m.Embedding) != s.dim {
		s.mu.Unlock()
		return fmt.Errorf("%w: mention %s embedding dimension %d, run dimension %d",
			internalerr.ErrInvalidInput, m.ID, len(m.Embedding), s.dim)
	}
	s.mu.Unlock()

	raw, err := json.Marshal(m.Embedding)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO mentions (id, brand, platform, text, polarity, intensity, embedding, likes, replies, shares)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.Brand, m.Platform, m.Text, string(m.Polarity), m.Intensity, string(raw),
		m.Engagement.Likes, m.Engagement.Replies, m.Engagement.Shares)
	if err != nil {
		return fmt.Errorf("%w: inserting mention %s: %v", internalerr.ErrInvalidInput, m.ID, err)
	}
	return nil
}

// Seal marks the store read-only for the rest of the run.
func (s *Store) Seal(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sealed = true
	return nil
}

// Sealed reports whether the store accepts further mentions.
func (s *Store) Sealed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sealed
}

// Get returns a mention by id.
func (s *Store) Get(ctx context.Context, id string) (mention.Mention, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, brand, platform, text, polarity, intensity, embedding, likes, replies, shares
		FROM mentions WHERE id = ?`, id)

	m, err := scanMention(row)
	if err == sql.ErrNoRows {
		return mention.Mention{}, false, nil
	}
	if err != nil {
		return mention.Mention{}, false, err
	}
	return m, true, nil
}

// All returns every mention in insertion order.
func (s *Store) All(ctx context.Context) ([]mention.Mention, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, brand, platform, text, polarity, intensity, embedding, likes, replies, shares
		FROM mentions ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []mention.Mention
	for rows.Next() {
		m, err := scanMention(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Len reports the number of stored mentions.
func (s *Store) Len() int {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM mentions").Scan(&n); err != nil {
		return 0
	}
	return n
}

// Dimension reports the run's embedding dimension (0 when empty).
func (s *Store) Dimension() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dim
}

// SaveThemes persists the rows of a finished report under a run id.
func (s *Store) SaveThemes(ctx context.Context, records []store.ThemeRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO themes (run_id, brand, bucket, label, score, volume, avg_engagement, avg_intensity, cluster_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.ExecContext(ctx, r.RunID, r.Brand, r.Bucket, r.Label,
			r.Score, r.Volume, r.AvgEngagement, r.AvgIntensity, r.ClusterID); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ThemesByRun returns the persisted rows for one run, ordered as saved.
func (s *Store) ThemesByRun(ctx context.Context, runID string) ([]store.ThemeRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, brand, bucket, label, score, volume, avg_engagement, avg_intensity, cluster_id
		FROM themes WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.ThemeRecord
	for rows.Next() {
		var r store.ThemeRecord
		if err := rows.Scan(&r.RunID, &r.Brand, &r.Bucket, &r.Label,
			&r.Score, &r.Volume, &r.AvgEngagement, &r.AvgIntensity, &r.ClusterID); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMention(row rowScanner) (mention.Mention, error) {
	var m mention.Mention
	var polarity, raw string
	if err := row.Scan(&m.ID, &m.Brand, &m.Platform, &m.Text, &polarity, &m.Intensity,
		&raw, &m.Engagement.Likes, &m.Engagement.Replies, &m.Engagement.Shares); err != nil {
		return mention.Mention{}, err
	}
	m.Polarity = mention.Polarity(polarity)
	if err := json.Unmarshal([]byte(raw), &m.Embedding); err != nil {
		return mention.Mention{}, fmt.Errorf("decoding embedding for %s: %w", m.ID, err)
	}
	return m, nil
}

var _ store.Store = (*Store)(nil)
