package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/restud-replication-packages/restud/internal/models"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLiteStore implements Store using modernc.org/sqlite (pure Go, no CGO).
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	// Ensure parent directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite only supports one concurrent writer; a single connection
	// serializes access through Go's connection pool.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// newULID generates a new ULID string.
func newULID() string {
	entropy := rand.New(rand.NewSource(time.Now().UnixNano()))
	return ulid.MustNew(ulid.Timestamp(time.Now()), ulid.Monotonic(entropy, 0)).String()
}

// Migrate runs all embedded SQL migration files in order.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		filename TEXT PRIMARY KEY,
		applied_at DATETIME NOT NULL DEFAULT (datetime('now'))
	)`)
	if err != nil {
		return fmt.Errorf("create migrations table: %w", err)
	}

	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()

		var count int
		err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations WHERE filename = ?", name).Scan(&count)
		if err != nil {
			return fmt.Errorf("check migration %s: %w", name, err)
		}
		if count > 0 {
			continue
		}

		data, err := migrationsFS.ReadFile("migrations/" + name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}

		if _, err := s.db.ExecContext(ctx, string(data)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}

		if _, err := s.db.ExecContext(ctx, "INSERT INTO schema_migrations (filename) VALUES (?)", name); err != nil {
			return fmt.Errorf("record migration %s: %w", name, err)
		}
	}

	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// --- Packages ---

func (s *SQLiteStore) CreatePackage(ctx context.Context, p *models.Package) error {
	if p.ID == "" {
		p.ID = newULID()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO packages (id, name, path, zenodo_record, accepted, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Path, p.ZenodoRecord, boolToInt(p.Accepted), p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create package: %w", err)
	}
	return nil
}

func (s *SQLiteStore) scanPackage(row *sql.Row, notFound string) (*models.Package, error) {
	p := &models.Package{}
	err := row.Scan(&p.ID, &p.Name, &p.Path, &p.ZenodoRecord, &p.Accepted, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("package not found: %s", notFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get package: %w", err)
	}
	return p, nil
}

func (s *SQLiteStore) GetPackage(ctx context.Context, id string) (*models.Package, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, path, zenodo_record, accepted, created_at, updated_at
		FROM packages WHERE id = ?`, id)
	return s.scanPackage(row, id)
}

func (s *SQLiteStore) GetPackageByName(ctx context.Context, name string) (*models.Package, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, path, zenodo_record, accepted, created_at, updated_at
		FROM packages WHERE name = ?`, name)
	return s.scanPackage(row, name)
}

func (s *SQLiteStore) ListPackages(ctx context.Context) ([]*models.Package, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, path, zenodo_record, accepted, created_at, updated_at
		FROM packages ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list packages: %w", err)
	}
	defer rows.Close()

	var packages []*models.Package
	for rows.Next() {
		p := &models.Package{}
		if err := rows.Scan(&p.ID, &p.Name, &p.Path, &p.ZenodoRecord, &p.Accepted, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan package: %w", err)
		}
		packages = append(packages, p)
	}
	return packages, rows.Err()
}

func (s *SQLiteStore) UpdatePackage(ctx context.Context, p *models.Package) error {
	p.UpdatedAt = time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`UPDATE packages SET name = ?, path = ?, zenodo_record = ?, accepted = ?, updated_at = ?
		WHERE id = ?`,
		p.Name, p.Path, p.ZenodoRecord, boolToInt(p.Accepted), p.UpdatedAt, p.ID,
	)
	if err != nil {
		return fmt.Errorf("update package: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("package not found: %s", p.ID)
	}
	return nil
}

func (s *SQLiteStore) DeletePackage(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM packages WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete package: %w", err)
	}
	return nil
}

// --- Renders ---

func (s *SQLiteStore) CreateRender(ctx context.Context, r *models.Render) error {
	if r.ID == "" {
		r.ID = newULID()
	}
	r.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO renders (id, package_id, round, kind, template_id, output, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.PackageID, r.Round, r.Kind, r.TemplateID, r.Output, r.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create render: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListRenders(ctx context.Context, packageID string, limit int) ([]*models.Render, error) {
	query := `SELECT id, package_id, round, kind, template_id, output, created_at
		FROM renders WHERE package_id = ? ORDER BY created_at DESC`
	args := []any{packageID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list renders: %w", err)
	}
	defer rows.Close()

	var renders []*models.Render
	for rows.Next() {
		r := &models.Render{}
		if err := rows.Scan(&r.ID, &r.PackageID, &r.Round, &r.Kind, &r.TemplateID, &r.Output, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan render: %w", err)
		}
		renders = append(renders, r)
	}
	return renders, rows.Err()
}

func (s *SQLiteStore) LatestRender(ctx context.Context, packageID string, kind models.RenderKind) (*models.Render, error) {
	r := &models.Render{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, package_id, round, kind, template_id, output, created_at
		FROM renders WHERE package_id = ? AND kind = ?
		ORDER BY created_at DESC LIMIT 1`, packageID, kind,
	).Scan(&r.ID, &r.PackageID, &r.Round, &r.Kind, &r.TemplateID, &r.Output, &r.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("no %s render for package: %s", kind, packageID)
	}
	if err != nil {
		return nil, fmt.Errorf("latest render: %w", err)
	}
	return r, nil
}
