package store

import (
	"context"

	"github.com/restud-replication-packages/restud/internal/models"
)

// Store defines the persistence interface for the package registry and
// render history.
type Store interface {
	// Packages
	CreatePackage(ctx context.Context, p *models.Package) error
	GetPackage(ctx context.Context, id string) (*models.Package, error)
	GetPackageByName(ctx context.Context, name string) (*models.Package, error)
	ListPackages(ctx context.Context) ([]*models.Package, error)
	UpdatePackage(ctx context.Context, p *models.Package) error
	DeletePackage(ctx context.Context, id string) error

	// Renders
	CreateRender(ctx context.Context, r *models.Render) error
	ListRenders(ctx context.Context, packageID string, limit int) ([]*models.Render, error)
	LatestRender(ctx context.Context, packageID string, kind models.RenderKind) (*models.Render, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
