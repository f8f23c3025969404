package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pathways-sim/pathways/internal/models"
	"github.com/pathways-sim/pathways/internal/pathutil"

	_ "modernc.org/sqlite" // SQLite driver
)

var _ ExperimentStore = (*SQLiteStore)(nil)

// timeLayout is fixed-width so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteStore implements ExperimentStore using SQLite.
type SQLiteStore struct {
	mu     sync.Mutex
	db     *sql.DB
	dbPath string
}

// NewSQLiteStore opens (creating if needed) the database at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := pathutil.EnsureParentDir(dbPath); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", pathutil.RedactPath(dbPath), err)
	}

	db.SetMaxOpenConns(1) // SQLite works best with single writer

	if err := InitSchema(context.Background(), db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStore{db: db, dbPath: dbPath}, nil
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string { return s.dbPath }

// Save stores e and returns its ID.
func (s *SQLiteStore) Save(ctx context.Context, e Experiment) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	var seed sql.NullInt64
	if e.Result.Seed != nil {
		seed = sql.NullInt64{Int64: *e.Result.Seed, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO experiments (
			id, created_at, config_path, config_sha256, seed,
			num_simulations, num_shipments,
			missed_rate, num_inspections, num_boxes_inspected, num_boxes
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.CreatedAt.UTC().Format(timeLayout), e.ConfigPath, e.ConfigSHA256, seed,
		e.Result.NumSimulations, e.Result.NumShipments,
		e.Result.MissedRate, e.Result.NumInspections, e.Result.NumBoxesInspected, e.Result.NumBoxes,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert experiment: %w", err)
	}
	return e.ID, nil
}

// List returns up to limit experiments, newest first.
func (s *SQLiteStore) List(ctx context.Context, limit int) ([]Experiment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		SELECT id, created_at, config_path, config_sha256, seed,
			num_simulations, num_shipments,
			missed_rate, num_inspections, num_boxes_inspected, num_boxes
		FROM experiments
		ORDER BY created_at DESC, rowid DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query experiments: %w", err)
	}
	defer rows.Close()

	var out []Experiment
	for rows.Next() {
		var (
			e          Experiment
			createdAt  string
			configPath sql.NullString
			digest     sql.NullString
			seed       sql.NullInt64
		)
		if err := rows.Scan(&e.ID, &createdAt, &configPath, &digest, &seed,
			&e.Result.NumSimulations, &e.Result.NumShipments,
			&e.Result.MissedRate, &e.Result.NumInspections, &e.Result.NumBoxesInspected, &e.Result.NumBoxes,
		); err != nil {
			return nil, fmt.Errorf("failed to scan experiment: %w", err)
		}
		e.CreatedAt, err = time.Parse(timeLayout, createdAt)
		if err != nil {
			return nil, fmt.Errorf("experiment %s: bad created_at %q: %w", e.ID, createdAt, err)
		}
		e.ConfigPath = configPath.String
		e.ConfigSHA256 = digest.String
		if seed.Valid {
			v := seed.Int64
			e.Result.Seed = &v
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// NewExperiment builds an experiment record for agg.
func NewExperiment(configPath, configSHA256 string, agg models.AggregateResult) Experiment {
	return Experiment{
		ConfigPath:   configPath,
		ConfigSHA256: configSHA256,
		Result:       agg,
	}
}
