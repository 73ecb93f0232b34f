// Package metrics collects analytics about change analyses: totals,
// risk distribution, most-matched patterns, and recent activity.
//
// It is backed by SQLite through database/sql. The default
// configuration uses an in-memory database; statistics live and die
// with the process, keeping the server free of persistent state. A file
// path can be supplied explicitly when an operator wants statistics to
// survive restarts.
package metrics

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// Config holds metrics store configuration.
type Config struct {
	// Path is the SQLite database file; empty means in-memory.
	Path string
	// TopPatterns and Recent cap the respective statistics lists.
	TopPatterns int
	Recent      int
}

// DefaultConfig returns the default in-memory configuration.
func DefaultConfig() Config {
	return Config{TopPatterns: 5, Recent: 10}
}

// Store records analyses and aggregates statistics over them.
type Store struct {
	db        *sql.DB
	cfg       Config
	startedAt time.Time
}

// New opens the metrics database and runs migrations.
func New(cfg Config) (*Store, error) {
	dsn := cfg.Path
	if dsn == "" {
		dsn = ":memory:"
	}
	db, err := openDB("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("metrics: open database: %w", err)
	}
	// A single connection keeps an in-memory database alive across
	// calls (each connection would otherwise get its own empty DB) and
	// serializes writers.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return nil, fmt.Errorf("metrics: pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db, cfg: cfg, startedAt: time.Now()}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("metrics: migration: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS analyses (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			created_at TEXT    NOT NULL DEFAULT (datetime('now')),
			pattern    TEXT    NOT NULL DEFAULT '',
			risk_level TEXT    NOT NULL,
			escalated  INTEGER NOT NULL DEFAULT 0
		);
		CREATE INDEX IF NOT EXISTS idx_analyses_pattern ON analyses(pattern);
		CREATE INDEX IF NOT EXISTS idx_analyses_risk ON analyses(risk_level);
	`
	_, err := s.db.Exec(schema)
	return err
}

// RecordAnalysis stores one analysis outcome. Pattern is empty for
// unrecognized changes.
func (s *Store) RecordAnalysis(pattern, riskLevel string, escalated bool) error {
	_, err := s.db.Exec(
		`INSERT INTO analyses (pattern, risk_level, escalated) VALUES (?, ?, ?)`,
		pattern, riskLevel, boolToInt(escalated),
	)
	if err != nil {
		return fmt.Errorf("metrics: record analysis: %w", err)
	}
	return nil
}

// PatternCount is one entry in the top-patterns list.
type PatternCount struct {
	Pattern string `json:"pattern"`
	Count   int    `json:"count"`
}

// RecentAnalysis is one entry in the recent-analyses list.
type RecentAnalysis struct {
	CreatedAt string `json:"created_at"`
	Pattern   string `json:"pattern,omitempty"`
	RiskLevel string `json:"risk_level"`
	Escalated bool   `json:"escalated"`
}

// Statistics is the aggregate view over all recorded analyses.
type Statistics struct {
	TotalAnalyses      int              `json:"total_analyses"`
	UptimeSeconds      float64          `json:"uptime_seconds"`
	HighRiskPercentage float64          `json:"high_risk_percentage"`
	RiskDistribution   map[string]int   `json:"risk_distribution"`
	TopPatterns        []PatternCount   `json:"top_patterns"`
	Recent             []RecentAnalysis `json:"recent_analyses"`
}

// Statistics aggregates all recorded analyses.
func (s *Store) Statistics() (Statistics, error) {
	stats := Statistics{
		UptimeSeconds:    time.Since(s.startedAt).Seconds(),
		RiskDistribution: make(map[string]int),
	}

	rows, err := s.db.Query(`SELECT risk_level, COUNT(*) FROM analyses GROUP BY risk_level`)
	if err != nil {
		return Statistics{}, fmt.Errorf("metrics: risk distribution: %w", err)
	}
	defer rows.Close()
	highRisk := 0
	for rows.Next() {
		var level string
		var count int
		if err := rows.Scan(&level, &count); err != nil {
			return Statistics{}, fmt.Errorf("metrics: scanning distribution: %w", err)
		}
		stats.RiskDistribution[level] = count
		stats.TotalAnalyses += count
		if level == "HIGH" || level == "CRITICAL" {
			highRisk += count
		}
	}
	if err := rows.Err(); err != nil {
		return Statistics{}, fmt.Errorf("metrics: distribution rows: %w", err)
	}
	if stats.TotalAnalyses > 0 {
		stats.HighRiskPercentage = float64(highRisk) / float64(stats.TotalAnalyses) * 100
	}

	top, err := s.topPatterns()
	if err != nil {
		return Statistics{}, err
	}
	stats.TopPatterns = top

	recent, err := s.recent()
	if err != nil {
		return Statistics{}, err
	}
	stats.Recent = recent

	return stats, nil
}

func (s *Store) topPatterns() ([]PatternCount, error) {
	limit := s.cfg.TopPatterns
	if limit <= 0 {
		limit = 5
	}
	rows, err := s.db.Query(`
		SELECT pattern, COUNT(*) AS n FROM analyses
		WHERE pattern != ''
		GROUP BY pattern
		ORDER BY n DESC, pattern ASC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("metrics: top patterns: %w", err)
	}
	defer rows.Close()

	var top []PatternCount
	for rows.Next() {
		var pc PatternCount
		if err := rows.Scan(&pc.Pattern, &pc.Count); err != nil {
			return nil, fmt.Errorf("metrics: scanning top patterns: %w", err)
		}
		top = append(top, pc)
	}
	return top, rows.Err()
}

func (s *Store) recent() ([]RecentAnalysis, error) {
	limit := s.cfg.Recent
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.Query(`
		SELECT created_at, pattern, risk_level, escalated FROM analyses
		ORDER BY id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("metrics: recent analyses: %w", err)
	}
	defer rows.Close()

	var recent []RecentAnalysis
	for rows.Next() {
		var r RecentAnalysis
		var escalated int
		if err := rows.Scan(&r.CreatedAt, &r.Pattern, &r.RiskLevel, &escalated); err != nil {
			return nil, fmt.Errorf("metrics: scanning recent: %w", err)
		}
		r.Escalated = escalated != 0
		recent = append(recent, r)
	}
	return recent, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
