package storage

import (
	"context"
	"database/sql"

	"github.com/Salvatore112/pvz-task/internal/config"
	"github.com/Salvatore112/pvz-task/internal/models"
	"github.com/Salvatore112/pvz-task/internal/storage/drivers"
)

//go:generate mockgen -source=storage.go -destination=../mocks/mock_storage.go -package=mocks

// Storage owns all business state. Mutating reception/product operations
// are keyed by PVZ id and must be atomic: the open-reception lookup and
// the state change happen as one unit inside the driver.
type Storage interface {
	// User operations
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// Token operations
	SaveToken(ctx context.Context, token, userID string) error
	GetUserByToken(ctx context.Context, token string) (*models.User, error)

	// PVZ operations
	CreatePVZ(ctx context.Context, pvz *models.PVZ) error
	GetPVZ(ctx context.Context, id string) (*models.PVZ, error)
	ListPVZs(ctx context.Context, filter models.PVZFilter) ([]*models.PVZListItem, error)

	// Reception operations
	CreateReception(ctx context.Context, reception *models.Reception) error
	GetOpenReception(ctx context.Context, pvzID string) (*models.Reception, error)
	CloseReception(ctx context.Context, pvzID string) (*models.Reception, error)

	// Product operations
	AddProduct(ctx context.Context, pvzID string, product *models.Product) error
	DeleteLastProduct(ctx context.Context, pvzID string) (*models.Product, error)

	// Automigrate and etc.
	Migrate(mpath string) error
}

type StorageOpts struct {
	Database   *sql.DB
	DriverType string
	DriverPath string
}

func NewStorage(opts StorageOpts) Storage {
	switch opts.DriverType {
	case config.PostgresDriverType:
		return drivers.NewPostgresStorage(opts.Database, opts.DriverPath)
	case config.MemoryDriverType:
		return drivers.NewMemoryStorage()
	}
	return nil
}
