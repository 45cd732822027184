package cases

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ihavespoons/smellbench/internal/excerpt"
	_ "modernc.org/sqlite"
)

// DB persists cases and generations in SQLite so runs can resume and
// evaluations can join them without rereading NDJSON.
type DB struct {
	db   *sql.DB
	path string
}

// OpenDB opens or creates the database at path
func OpenDB(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &DB{db: db, path: path}
	if err := store.init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *DB) init() error {
	schema := `
		CREATE TABLE IF NOT EXISTS cases (
			case_id TEXT PRIMARY KEY,
			project TEXT NOT NULL,
			file_path TEXT NOT NULL,
			package TEXT NOT NULL,
			class_name TEXT NOT NULL,
			smell_type TEXT NOT NULL,
			detector_reason TEXT NOT NULL,
			metrics TEXT NOT NULL,
			code_excerpt TEXT NOT NULL,
			excerpt_strategy TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS generations (
			case_id TEXT NOT NULL,
			model TEXT NOT NULL,
			file_path TEXT NOT NULL,
			prompt_hash TEXT NOT NULL,
			run_id TEXT,
			explain TEXT NOT NULL,
			explain_latency REAL NOT NULL,
			refactor TEXT NOT NULL,
			refactor_latency REAL NOT NULL,
			meta_validation TEXT NOT NULL,
			meta_validation_latency REAL NOT NULL,
			PRIMARY KEY (case_id, model)
		);

		CREATE INDEX IF NOT EXISTS idx_cases_smell ON cases(smell_type);
		CREATE INDEX IF NOT EXISTS idx_generations_model ON generations(model);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// PutCase inserts or replaces a case
func (s *DB) PutCase(c *Case) error {
	return putCase(s.db, c)
}

// ReplaceCases swaps the stored cases for all in one transaction, so cases
// a later build no longer produces disappear. Generations are kept.
func (s *DB) ReplaceCases(all []Case) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM cases`); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to clear cases: %w", err)
	}
	for i := range all {
		if err := putCase(tx, &all[i]); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to store case %s: %w", all[i].CaseID, err)
		}
	}
	return tx.Commit()
}

func putCase(ex execer, c *Case) error {
	metrics, err := json.Marshal(c.Metrics)
	if err != nil {
		return fmt.Errorf("failed to encode metrics: %w", err)
	}

	query := `
		INSERT OR REPLACE INTO cases
		(case_id, project, file_path, package, class_name, smell_type, detector_reason, metrics, code_excerpt, excerpt_strategy)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = ex.Exec(query,
		c.CaseID,
		c.Project,
		c.FilePath,
		c.Package,
		c.ClassName,
		c.SmellType,
		c.DetectorReason,
		string(metrics),
		c.CodeExcerpt,
		string(c.ExcerptStrategy),
	)
	return err
}

// GetCase retrieves a case by ID
func (s *DB) GetCase(id string) (*Case, error) {
	query := `
		SELECT case_id, project, file_path, package, class_name, smell_type,
		       detector_reason, metrics, code_excerpt, excerpt_strategy
		FROM cases WHERE case_id = ?
	`
	c, err := scanCase(s.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("case '%s' not found", id)
	}
	return c, err
}

// ListCases returns all cases, or those of one smell type, ordered by ID
func (s *DB) ListCases(smellType string) ([]Case, error) {
	query := `
		SELECT case_id, project, file_path, package, class_name, smell_type,
		       detector_reason, metrics, code_excerpt, excerpt_strategy
		FROM cases
	`
	var args []interface{}
	if smellType != "" {
		query += " WHERE smell_type = ?"
		args = append(args, smellType)
	}
	query += " ORDER BY case_id"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []Case
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// CountByStrategy returns the number of stored cases per excerpt strategy
func (s *DB) CountByStrategy() (map[excerpt.Strategy]int, error) {
	rows, err := s.db.Query("SELECT excerpt_strategy, COUNT(*) FROM cases GROUP BY excerpt_strategy")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[excerpt.Strategy]int)
	for rows.Next() {
		var strategy string
		var n int
		if err := rows.Scan(&strategy, &n); err != nil {
			return nil, err
		}
		counts[excerpt.Strategy(strategy)] = n
	}
	return counts, rows.Err()
}

// PutGeneration inserts or replaces a model's answers for a case
func (s *DB) PutGeneration(g *Generation) error {
	query := `
		INSERT OR REPLACE INTO generations
		(case_id, model, file_path, prompt_hash, run_id, explain, explain_latency,
		 refactor, refactor_latency, meta_validation, meta_validation_latency)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.Exec(query,
		g.CaseID,
		g.Model,
		g.FilePath,
		g.PromptHash,
		g.RunID,
		g.Explain.Text,
		g.Explain.LatencyS,
		g.Refactor.Text,
		g.Refactor.LatencyS,
		g.MetaValidation.Text,
		g.MetaValidation.LatencyS,
	)
	return err
}

// HasGeneration reports whether model already answered for the case
func (s *DB) HasGeneration(caseID, model string) (bool, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM generations WHERE case_id = ? AND model = ?", caseID, model).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListGenerations returns generations of one model, or all when model is empty
func (s *DB) ListGenerations(model string) ([]Generation, error) {
	query := `
		SELECT case_id, model, file_path, prompt_hash, run_id, explain, explain_latency,
		       refactor, refactor_latency, meta_validation, meta_validation_latency
		FROM generations
	`
	var args []interface{}
	if model != "" {
		query += " WHERE model = ?"
		args = append(args, model)
	}
	query += " ORDER BY model, case_id"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []Generation
	for rows.Next() {
		var g Generation
		var runID sql.NullString
		if err := rows.Scan(
			&g.CaseID, &g.Model, &g.FilePath, &g.PromptHash, &runID,
			&g.Explain.Text, &g.Explain.LatencyS,
			&g.Refactor.Text, &g.Refactor.LatencyS,
			&g.MetaValidation.Text, &g.MetaValidation.LatencyS,
		); err != nil {
			return nil, err
		}
		g.RunID = runID.String
		out = append(out, g)
	}
	return out, rows.Err()
}

// Close closes the database
func (s *DB) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCase(row rowScanner) (*Case, error) {
	var c Case
	var metrics, strategy string
	if err := row.Scan(
		&c.CaseID, &c.Project, &c.FilePath, &c.Package, &c.ClassName, &c.SmellType,
		&c.DetectorReason, &metrics, &c.CodeExcerpt, &strategy,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(metrics), &c.Metrics); err != nil {
		return nil, fmt.Errorf("failed to decode metrics for %s: %w", c.CaseID, err)
	}
	c.ExcerptStrategy = excerpt.Strategy(strategy)
	return &c, nil
}
