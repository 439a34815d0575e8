package corpus

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Store is a SQLite-backed reference table.
type Store struct {
	db   *sql.DB
	path string
}

// OpenStore opens the database at path and creates the schema when absent.
func OpenStore(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrLoadCorpus, path, err)
	}
	s := &Store{db: db, path: path}
	if err := s.runMigrations(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: migrate %s: %w", ErrLoadCorpus, path, err)
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) runMigrations(ctx context.Context) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS shooters (
			id TEXT PRIMARY KEY,
			position INTEGER NOT NULL,
			name TEXT NOT NULL,
			height_cm REAL NOT NULL,
			weight_kg REAL NOT NULL,
			wingspan_cm REAL NOT NULL,
			build TEXT NOT NULL,
			tier TEXT NOT NULL,
			overall_score REAL NOT NULL,
			shoulder_angle REAL NOT NULL,
			elbow_angle REAL NOT NULL,
			hip_angle REAL NOT NULL,
			knee_angle REAL NOT NULL,
			ankle_angle REAL NOT NULL,
			wrist_angle REAL NOT NULL,
			release_height REAL NOT NULL,
			release_angle REAL NOT NULL,
			spine_angle REAL NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_shooters_position ON shooters(position)`,
	}
	for _, m := range migrations {
		if _, err := s.db.ExecContext(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

// Save replaces the table contents with refs, keeping their order.
func (s *Store) Save(ctx context.Context, refs []ShooterReference) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, `DELETE FROM shooters`); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO shooters (
		id, position, name, height_cm, weight_kg, wingspan_cm, build, tier, overall_score,
		shoulder_angle, elbow_angle, hip_angle, knee_angle, ankle_angle, wrist_angle,
		release_height, release_angle, spine_angle
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, r := range refs {
		m := r.Metrics
		if _, err := stmt.ExecContext(ctx,
			r.ID, i, r.Name, r.HeightCM, r.WeightKG, r.WingspanCM, string(r.Build), string(r.Tier), r.OverallScore,
			m.ShoulderAngle, m.ElbowAngle, m.HipAngle, m.KneeAngle, m.AnkleAngle, m.WristAngle,
			m.ReleaseHeight, m.ReleaseAngle, m.SpineAngle,
		); err != nil {
			return fmt.Errorf("insert %s: %w", r.ID, err)
		}
	}
	return tx.Commit()
}

// Load reads every row ordered by position and builds a Corpus.
func (s *Store) Load(ctx context.Context) (*Corpus, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT
		id, name, height_cm, weight_kg, wingspan_cm, build, tier, overall_score,
		shoulder_angle, elbow_angle, hip_angle, knee_angle, ankle_angle, wrist_angle,
		release_height, release_angle, spine_angle
	FROM shooters ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("%w: query: %w", ErrLoadCorpus, err)
	}
	defer rows.Close()

	var refs []ShooterReference
	for rows.Next() {
		var (
			r           ShooterReference
			build, tier string
		)
		m := &r.Metrics
		if err := rows.Scan(
			&r.ID, &r.Name, &r.HeightCM, &r.WeightKG, &r.WingspanCM, &build, &tier, &r.OverallScore,
			&m.ShoulderAngle, &m.ElbowAngle, &m.HipAngle, &m.KneeAngle, &m.AnkleAngle, &m.WristAngle,
			&m.ReleaseHeight, &m.ReleaseAngle, &m.SpineAngle,
		); err != nil {
			return nil, fmt.Errorf("%w: scan: %w", ErrLoadCorpus, err)
		}
		r.Build, r.Tier = Build(build), Tier(tier)
		refs = append(refs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: rows: %w", ErrLoadCorpus, err)
	}
	return New(refs)
}

// LoadSQLite opens path, reads the corpus and closes the database.
func LoadSQLite(ctx context.Context, path string) (*Corpus, error) {
	s, err := OpenStore(ctx, path)
	if err != nil {
		return nil, err
	}
	defer s.Close()
	return s.Load(ctx)
}
