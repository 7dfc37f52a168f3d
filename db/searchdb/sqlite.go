package searchdb

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/meghashyamc/whichpackage/config"
	"github.com/meghashyamc/whichpackage/logger"
	_ "modernc.org/sqlite"
)

type SQLiteDB struct {
	db     *sqlx.DB
	logger logger.Logger
}

const schema = `
CREATE TABLE IF NOT EXISTS packages (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	summary TEXT NOT NULL DEFAULT '',
	score INTEGER NOT NULL DEFAULT 0,
	platforms TEXT NOT NULL DEFAULT '[]',
	product_types TEXT NOT NULL DEFAULT '[]'
);

CREATE TABLE IF NOT EXISTS repositories (
	package_id TEXT PRIMARY KEY REFERENCES packages(id) ON DELETE CASCADE,
	name TEXT NOT NULL,
	owner TEXT NOT NULL,
	stars INTEGER NOT NULL DEFAULT 0,
	license TEXT NOT NULL DEFAULT '',
	last_commit_date TEXT NOT NULL DEFAULT '',
	last_activity_at TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS keywords (
	package_id TEXT NOT NULL REFERENCES packages(id) ON DELETE CASCADE,
	keyword TEXT NOT NULL,
	UNIQUE (package_id, keyword)
);

CREATE TABLE IF NOT EXISTS search (
	package_id TEXT NOT NULL,
	package_name TEXT,
	summary TEXT,
	score INTEGER,
	repo_name TEXT,
	repo_owner TEXT,
	stars INTEGER,
	license TEXT,
	last_commit_date TEXT,
	last_activity_at TEXT,
	keyword TEXT NOT NULL DEFAULT '',
	keywords TEXT NOT NULL DEFAULT '[]',
	platforms TEXT NOT NULL DEFAULT '[]',
	product_types TEXT NOT NULL DEFAULT '[]',
	haystack TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_search_package_id ON search (package_id);
CREATE INDEX IF NOT EXISTS idx_search_keyword ON search (keyword);
CREATE INDEX IF NOT EXISTS idx_search_repo_owner ON search (repo_owner);
`

// refreshQuery rebuilds the search view from the base tables. One row per
// package and keyword; a package with no keywords still gets a single row
// through the '[""]' placeholder array, so the cross join never drops it.
const refreshQuery = `
INSERT INTO search (package_id, package_name, summary, score, repo_name, repo_owner,
	stars, license, last_commit_date, last_activity_at, keyword, keywords,
	platforms, product_types, haystack)
SELECT p.id, p.name, p.summary, p.score, r.name, r.owner,
	r.stars, r.license, r.last_commit_date, r.last_activity_at,
	k.value,
	coalesce(kw.arr, '[]'),
	p.platforms, p.product_types,
	lower(coalesce(p.name, '') || ' ' || coalesce(p.summary, '') || ' ' ||
		coalesce(r.name, '') || ' ' || coalesce(r.owner, '') || ' ' ||
		coalesce(kw.joined, ''))
FROM packages p
JOIN repositories r ON r.package_id = p.id
LEFT JOIN (
	SELECT package_id, json_group_array(keyword) AS arr, group_concat(keyword, ' ') AS joined
	FROM keywords
	GROUP BY package_id
) kw ON kw.package_id = p.id
CROSS JOIN json_each(coalesce(kw.arr, '[""]')) AS k
`

func New(logger logger.Logger, cfg *config.Config) (*SQLiteDB, error) {
	dbPath := cfg.GetDBPath()
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		logger.Error("failed to create database directory", "err", err.Error(), "path", dbPath)
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", dbPath)
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		logger.Error("could not open database", "err", err.Error(), "path", dbPath)
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// sqlite handles concurrency best with a single writer connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		db.Close()
		logger.Error("could not connect to database", "err", err.Error(), "path", dbPath)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqliteDB := &SQLiteDB{db: db, logger: logger}
	if err := sqliteDB.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return sqliteDB, nil
}

func (s *SQLiteDB) migrate() error {
	if _, err := s.db.Exec(schema); err != nil {
		s.logger.Error("could not create schema", "err", err.Error())
		return err
	}
	return nil
}

// Select runs one composed search statement and scans the unified rows.
func (s *SQLiteDB) Select(ctx context.Context, query string, args ...any) ([]Row, error) {
	rows := []Row{}
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		s.logger.Error("search query failed", "err", err.Error())
		return nil, fmt.Errorf("search query failed: %w", err)
	}
	return rows, nil
}

// InsertPackage upserts one package with its repository and keywords. This
// is the write boundary the ingestion pipeline (and tests) go through; the
// search view does not see the change until the next refresh.
func (s *SQLiteDB) InsertPackage(ctx context.Context, pkg Package) error {
	platforms, err := json.Marshal(normalizeList(pkg.Platforms))
	if err != nil {
		return fmt.Errorf("failed to encode platforms: %w", err)
	}
	productTypes, err := json.Marshal(normalizeList(pkg.ProductTypes))
	if err != nil {
		return fmt.Errorf("failed to encode product types: %w", err)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO packages (id, name, summary, score, platforms, product_types)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			summary = excluded.summary,
			score = excluded.score,
			platforms = excluded.platforms,
			product_types = excluded.product_types`,
		pkg.ID, pkg.Name, pkg.Summary, pkg.Score, string(platforms), string(productTypes)); err != nil {
		s.logger.Error("could not upsert package", "package", pkg.Name, "err", err.Error())
		return fmt.Errorf("failed to upsert package: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO repositories (package_id, name, owner, stars, license, last_commit_date, last_activity_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (package_id) DO UPDATE SET
			name = excluded.name,
			owner = excluded.owner,
			stars = excluded.stars,
			license = excluded.license,
			last_commit_date = excluded.last_commit_date,
			last_activity_at = excluded.last_activity_at`,
		pkg.ID, pkg.RepoName, pkg.RepoOwner, pkg.Stars, pkg.License,
		formatTime(pkg.LastCommitDate), formatTime(pkg.LastActivityAt)); err != nil {
		s.logger.Error("could not upsert repository", "package", pkg.Name, "err", err.Error())
		return fmt.Errorf("failed to upsert repository: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM keywords WHERE package_id = ?`, pkg.ID); err != nil {
		return fmt.Errorf("failed to clear keywords: %w", err)
	}
	for _, keyword := range normalizeList(pkg.Keywords) {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO keywords (package_id, keyword) VALUES (?, ?) ON CONFLICT DO NOTHING`,
			pkg.ID, keyword); err != nil {
			return fmt.Errorf("failed to insert keyword: %w", err)
		}
	}

	return tx.Commit()
}

// RefreshSearchView rebuilds the search view from the base tables in one
// transaction. Readers keep seeing the pre-refresh snapshot until commit.
func (s *SQLiteDB) RefreshSearchView(ctx context.Context) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM search`); err != nil {
		s.logger.Error("could not clear search view", "err", err.Error())
		return fmt.Errorf("failed to clear search view: %w", err)
	}
	if _, err := tx.ExecContext(ctx, refreshQuery); err != nil {
		s.logger.Error("could not rebuild search view", "err", err.Error())
		return fmt.Errorf("failed to rebuild search view: %w", err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("could not commit search view rebuild", "err", err.Error())
		return fmt.Errorf("failed to commit search view rebuild: %w", err)
	}
	return nil
}

func (s *SQLiteDB) Close() error {
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("could not close database", "err", err.Error())
			return err
		}
	}
	return nil
}

func normalizeList(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
