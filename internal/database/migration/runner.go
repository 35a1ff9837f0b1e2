package migration

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const lockKey int64 = 746295114

// Runner applies versioned SQL files named V<version>__<name>.sql from Source.
type Runner struct {
	Source fs.FS
	Log    *zap.Logger
}

func (r Runner) Run(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("nil db")
	}
	if r.Source == nil {
		return errors.New("nil migration source")
	}
	log := r.Log
	if log == nil {
		log = zap.NewNop()
	}

	migs, err := Load(r.Source)
	if err != nil {
		return err
	}
	if len(migs) == 0 {
		log.Info("no migrations found")
		return nil
	}

	if err := ensureSchemaMigrations(ctx, db); err != nil {
		return err
	}

	var applied int
	err = withAdvisoryLock(ctx, db, lockKey, func() error {
		done, err := getApplied(ctx, db)
		if err != nil {
			return err
		}
		pending, err := plan(migs, done)
		if err != nil {
			return err
		}
		for _, m := range pending {
			if err := applyOne(ctx, db, m); err != nil {
				return err
			}
			applied++
			log.Info("migration applied", zap.Int64("version", m.Version), zap.String("name", m.Name))
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Info("migrations complete", zap.Int("applied", applied), zap.Int("total", len(migs)))
	return nil
}

// Status describes one known migration against the target database.
type Status struct {
	Version   int64
	Name      string
	AppliedAt *time.Time
}

func (s Status) Applied() bool { return s.AppliedAt != nil }

// Status reports every migration in Source without changing the database.
// A checksum mismatch is returned as an error.
func (r Runner) Status(ctx context.Context, db *sql.DB) ([]Status, error) {
	if db == nil {
		return nil, errors.New("nil db")
	}
	if r.Source == nil {
		return nil, errors.New("nil migration source")
	}
	migs, err := Load(r.Source)
	if err != nil {
		return nil, err
	}
	if err := ensureSchemaMigrations(ctx, db); err != nil {
		return nil, err
	}
	applied, err := getApplied(ctx, db)
	if err != nil {
		return nil, err
	}
	if _, err := plan(migs, applied); err != nil {
		return nil, err
	}

	out := make([]Status, 0, len(migs))
	for _, m := range migs {
		st := Status{Version: m.Version, Name: m.Name}
		if a, ok := applied[m.Version]; ok {
			at := a.AppliedAt
			st.AppliedAt = &at
		}
		out = append(out, st)
	}
	return out, nil
}

// plan returns the migrations not yet applied, in order. An applied
// migration whose file has since changed fails the whole plan.
func plan(migs []Migration, applied map[int64]appliedMigration) ([]Migration, error) {
	pending := make([]Migration, 0, len(migs))
	for _, m := range migs {
		a, ok := applied[m.Version]
		if !ok {
			pending = append(pending, m)
			continue
		}
		if a.Checksum != m.Checksum {
			return nil, fmt.Errorf("migration %s was edited after being applied (version %d)", m.Filename, m.Version)
		}
	}
	return pending, nil
}

type Migration struct {
	Version  int64
	Name     string
	Filename string
	SQL      string
	Checksum string
}

type appliedMigration struct {
	Version   int64
	Checksum  string
	AppliedAt time.Time
}

var filenamePattern = regexp.MustCompile(`^V(\d+)__([A-Za-z0-9_.-]+)\.sql$`)

// parseFilename reports ok=false for files that are not migrations.
func parseFilename(name string) (version int64, label string, ok bool, err error) {
	m := filenamePattern.FindStringSubmatch(name)
	if m == nil {
		return 0, "", false, nil
	}
	version, err = strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, "", false, fmt.Errorf("invalid migration version: %s", name)
	}
	return version, m[2], true, nil
}

func checksum(body string) string {
	sum := sha256.Sum256([]byte(body))
	return hex.EncodeToString(sum[:])
}

// Load reads and orders the migrations at the root of src.
func Load(src fs.FS) ([]Migration, error) {
	entries, err := fs.ReadDir(src, ".")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	migs := make([]Migration, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		version, label, ok, err := parseFilename(e.Name())
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		raw, err := fs.ReadFile(src, e.Name())
		if err != nil {
			return nil, err
		}
		body := strings.TrimSpace(string(raw))
		if body == "" {
			return nil, fmt.Errorf("empty migration file: %s", e.Name())
		}

		migs = append(migs, Migration{
			Version:  version,
			Name:     label,
			Filename: e.Name(),
			SQL:      body,
			Checksum: checksum(body),
		})
	}

	sort.Slice(migs, func(i, j int) bool { return migs[i].Version < migs[j].Version })
	for i, m := range migs {
		if i > 0 && migs[i-1].Version == m.Version {
			return nil, fmt.Errorf("duplicate migration version: %d", m.Version)
		}
	}

	return migs, nil
}

func ensureSchemaMigrations(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version BIGINT PRIMARY KEY,
	name TEXT NOT NULL,
	checksum TEXT NOT NULL,
	applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`)
	return err
}

// withAdvisoryLock runs fn while holding a Postgres session lock. The lock
// and unlock must share a session, so both go through one pinned connection.
func withAdvisoryLock(ctx context.Context, db *sql.DB, key int64, fn func() error) error {
	conn, err := db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("pin connection for lock: %w", err)
	}
	defer func() { _ = conn.Close() }()

	if _, err := conn.ExecContext(ctx, `SELECT pg_advisory_lock($1)`, key); err != nil {
		return fmt.Errorf("acquire migration lock: %w", err)
	}
	defer func() {
		_, _ = conn.ExecContext(context.Background(), `SELECT pg_advisory_unlock($1)`, key)
	}()

	return fn()
}

func getApplied(ctx context.Context, db *sql.DB) (map[int64]appliedMigration, error) {
	rows, err := db.QueryContext(ctx, `SELECT version, checksum, applied_at FROM schema_migrations`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[int64]appliedMigration{}
	for rows.Next() {
		var a appliedMigration
		if err := rows.Scan(&a.Version, &a.Checksum, &a.AppliedAt); err != nil {
			return nil, err
		}
		out[a.Version] = a
	}
	return out, rows.Err()
}

func applyOne(ctx context.Context, db *sql.DB, m Migration) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, m.SQL); err != nil {
		return fmt.Errorf("apply %s: %w", m.Filename, err)
	}

	_, err = tx.ExecContext(
		ctx,
		`INSERT INTO schema_migrations (version, name, checksum, applied_at) VALUES ($1, $2, $3, $4)`,
		m.Version,
		m.Name,
		m.Checksum,
		time.Now().UTC(),
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}
