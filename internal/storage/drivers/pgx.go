package drivers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/lib/pq"

	"github.com/Salvatore112/pvz-task/internal/models"
)

// pq error codes
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// Define context key for transactions
type contextKey int

const (
	CtxTxKey contextKey = iota
)

// Executor interface for both DB and Tx
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// PostgresStorage implements storage.Storage over PostgreSQL. The
// single-open-reception invariant is held by a partial unique index, the
// product insertion order by a BIGSERIAL seq column.
type PostgresStorage struct {
	db  *sql.DB
	dsn string
}

func NewPostgresStorage(db *sql.DB, dsn string) *PostgresStorage {
	return &PostgresStorage{db: db, dsn: dsn}
}

// getExecutor returns current transaction or main DB
func (s *PostgresStorage) getExecutor(ctx context.Context) Executor {
	if tx, ok := ctx.Value(CtxTxKey).(*sql.Tx); ok {
		return tx
	}
	return s.db
}

// WithTransaction executes a function within a database transaction
func (s *PostgresStorage) WithTransaction(ctx context.Context, fn func(context.Context) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	txCtx := context.WithValue(ctx, CtxTxKey, tx)

	if err := fn(txCtx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("tx err: %v, rb err: %w", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// User operations
func (s *PostgresStorage) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, email, password, role, created_at)
		VALUES ($1, NULLIF($2, ''), $3, $4, now())
	`

	_, err := s.getExecutor(ctx).ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.Password,
		user.Role,
	)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == pgUniqueViolation {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (s *PostgresStorage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, email, password, role
		FROM users
		WHERE email = $1
	`

	var user models.User
	err := s.getExecutor(ctx).QueryRowContext(ctx, query, email).Scan(
		&user.ID,
		&user.Email,
		&user.Password,
		&user.Role,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return &user, nil
}

// Token operations
func (s *PostgresStorage) SaveToken(ctx context.Context, token, userID string) error {
	query := `
		INSERT INTO tokens (token, user_id, created_at)
		VALUES ($1, $2, now())
	`

	if _, err := s.getExecutor(ctx).ExecContext(ctx, query, token, userID); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}

	return nil
}

func (s *PostgresStorage) GetUserByToken(ctx context.Context, token string) (*models.User, error) {
	query := `
		SELECT u.id, COALESCE(u.email, ''), u.password, u.role
		FROM users u
		JOIN tokens t ON t.user_id = u.id
		WHERE t.token = $1
	`

	var user models.User
	err := s.getExecutor(ctx).QueryRowContext(ctx, query, token).Scan(
		&user.ID,
		&user.Email,
		&user.Password,
		&user.Role,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by token: %w", err)
	}

	return &user, nil
}

// PVZ operations
func (s *PostgresStorage) CreatePVZ(ctx context.Context, pvz *models.PVZ) error {
	query := `
		INSERT INTO pvz (id, registration_date, city)
		VALUES ($1, $2, $3)
	`

	_, err := s.getExecutor(ctx).ExecContext(ctx, query,
		pvz.ID,
		pvz.RegistrationDate,
		pvz.City,
	)

	if err != nil {
		return fmt.Errorf("failed to create PVZ: %w", err)
	}

	return nil
}

func (s *PostgresStorage) GetPVZ(ctx context.Context, id string) (*models.PVZ, error) {
	query := `
		SELECT id, registration_date, city
		FROM pvz
		WHERE id = $1
	`

	var pvz models.PVZ
	err := s.getExecutor(ctx).QueryRowContext(ctx, query, id).Scan(
		&pvz.ID,
		&pvz.RegistrationDate,
		&pvz.City,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get PVZ: %w", err)
	}

	return &pvz, nil
}

func (s *PostgresStorage) ListPVZs(ctx context.Context, filter models.PVZFilter) ([]*models.PVZListItem, error) {
	query := `
		SELECT id, registration_date, city
		FROM pvz
		ORDER BY registration_date
		LIMIT $1 OFFSET $2
	`

	rows, err := s.getExecutor(ctx).QueryContext(ctx, query,
		filter.Limit, (filter.Page-1)*filter.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query PVZs: %w", err)
	}
	defer rows.Close()

	result := []*models.PVZListItem{}
	for rows.Next() {
		var pvz models.PVZ
		if err := rows.Scan(
			&pvz.ID,
			&pvz.RegistrationDate,
			&pvz.City,
		); err != nil {
			return nil, fmt.Errorf("failed to scan PVZ: %w", err)
		}
		result = append(result, &models.PVZListItem{
			PVZ:        &pvz,
			Receptions: []*models.ReceptionItem{},
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	for _, item := range result {
		receptions, err := s.getReceptions(ctx, item.PVZ.ID, filter)
		if err != nil {
			return nil, err
		}
		item.Receptions = receptions
	}

	return result, nil
}

func (s *PostgresStorage) getReceptions(ctx context.Context, pvzID string, filter models.PVZFilter) ([]*models.ReceptionItem, error) {
	builder := sq.Select("id", "date_time", "pvz_id", "status").
		From("receptions").
		Where(sq.Eq{"pvz_id": pvzID}).
		OrderBy("date_time").
		PlaceholderFormat(sq.Dollar)

	// Диапазон применяется только при обеих границах
	if filter.HasDateRange() {
		builder = builder.
			Where(sq.GtOrEq{"date_time": filter.StartDate}).
			Where(sq.LtOrEq{"date_time": filter.EndDate})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build receptions query: %w", err)
	}

	rows, err := s.getExecutor(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query receptions: %w", err)
	}
	defer rows.Close()

	items := []*models.ReceptionItem{}
	for rows.Next() {
		var reception models.Reception
		if err := rows.Scan(
			&reception.ID,
			&reception.DateTime,
			&reception.PVZID,
			&reception.Status,
		); err != nil {
			return nil, fmt.Errorf("failed to scan reception: %w", err)
		}
		items = append(items, &models.ReceptionItem{
			Reception: &reception,
			Products:  []*models.Product{},
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	for _, item := range items {
		products, err := s.getProducts(ctx, item.Reception.ID)
		if err != nil {
			return nil, err
		}
		item.Products = products
	}

	return items, nil
}

func (s *PostgresStorage) getProducts(ctx context.Context, receptionID string) ([]*models.Product, error) {
	query := `
		SELECT id, date_time, type, reception_id
		FROM products
		WHERE reception_id = $1
		ORDER BY seq
	`

	rows, err := s.getExecutor(ctx).QueryContext(ctx, query, receptionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []*models.Product{}
	for rows.Next() {
		var product models.Product
		if err := rows.Scan(
			&product.ID,
			&product.DateTime,
			&product.Type,
			&product.ReceptionID,
		); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, &product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return products, nil
}

// Reception operations
func (s *PostgresStorage) CreateReception(ctx context.Context, reception *models.Reception) error {
	query := `
		INSERT INTO receptions (id, date_time, pvz_id, status)
		VALUES ($1, $2, $3, $4)
	`

	_, err := s.getExecutor(ctx).ExecContext(ctx, query,
		reception.ID,
		reception.DateTime,
		reception.PVZID,
		reception.Status,
	)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			// uq_receptions_open: partial unique index on open receptions
			switch pqErr.Code {
			case pgUniqueViolation:
				return ErrOpenReceptionExists
			case pgForeignKeyViolation:
				return ErrNotFound
			}
		}
		return fmt.Errorf("failed to create reception: %w", err)
	}

	return nil
}

func (s *PostgresStorage) GetOpenReception(ctx context.Context, pvzID string) (*models.Reception, error) {
	query := `
		SELECT id, date_time, pvz_id, status
		FROM receptions
		WHERE pvz_id = $1 AND status = 'in_progress'
		LIMIT 1
	`

	var reception models.Reception
	err := s.getExecutor(ctx).QueryRowContext(ctx, query, pvzID).Scan(
		&reception.ID,
		&reception.DateTime,
		&reception.PVZID,
		&reception.Status,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get open reception: %w", err)
	}

	return &reception, nil
}

func (s *PostgresStorage) CloseReception(ctx context.Context, pvzID string) (*models.Reception, error) {
	query := `
		UPDATE receptions
		SET status = 'closed'
		WHERE pvz_id = $1 AND status = 'in_progress'
		RETURNING id, date_time, pvz_id, status
	`

	var reception models.Reception
	err := s.getExecutor(ctx).QueryRowContext(ctx, query, pvzID).Scan(
		&reception.ID,
		&reception.DateTime,
		&reception.PVZID,
		&reception.Status,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			if _, pvzErr := s.GetPVZ(ctx, pvzID); errors.Is(pvzErr, ErrNotFound) {
				return nil, ErrNotFound
			}
			return nil, ErrNoOpenReception
		}
		return nil, fmt.Errorf("failed to close reception: %w", err)
	}

	return &reception, nil
}

// Product operations
func (s *PostgresStorage) AddProduct(ctx context.Context, pvzID string, product *models.Product) error {
	query := `
		INSERT INTO products (id, date_time, type, reception_id)
		SELECT $1, $2, $3, r.id
		FROM receptions r
		WHERE r.pvz_id = $4 AND r.status = 'in_progress'
		RETURNING reception_id
	`

	err := s.getExecutor(ctx).QueryRowContext(ctx, query,
		product.ID,
		product.DateTime,
		product.Type,
		pvzID,
	).Scan(&product.ReceptionID)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			if _, pvzErr := s.GetPVZ(ctx, pvzID); errors.Is(pvzErr, ErrNotFound) {
				return ErrNotFound
			}
			return ErrNoOpenReception
		}
		return fmt.Errorf("failed to add product: %w", err)
	}

	return nil
}

func (s *PostgresStorage) DeleteLastProduct(ctx context.Context, pvzID string) (*models.Product, error) {
	var product models.Product

	err := s.WithTransaction(ctx, func(txCtx context.Context) error {
		lockQuery := `
			SELECT id
			FROM receptions
			WHERE pvz_id = $1 AND status = 'in_progress'
			FOR UPDATE
		`

		var receptionID string
		if err := s.getExecutor(txCtx).QueryRowContext(txCtx, lockQuery, pvzID).Scan(&receptionID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				if _, pvzErr := s.GetPVZ(txCtx, pvzID); errors.Is(pvzErr, ErrNotFound) {
					return ErrNotFound
				}
				return ErrNoOpenReception
			}
			return fmt.Errorf("failed to lock open reception: %w", err)
		}

		// seq, не timestamp: порядок вставки определяет последний товар
		deleteQuery := `
			DELETE FROM products
			WHERE id = (
				SELECT id FROM products
				WHERE reception_id = $1
				ORDER BY seq DESC
				LIMIT 1
			)
			RETURNING id, date_time, type, reception_id
		`

		err := s.getExecutor(txCtx).QueryRowContext(txCtx, deleteQuery, receptionID).Scan(
			&product.ID,
			&product.DateTime,
			&product.Type,
			&product.ReceptionID,
		)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNoProducts
			}
			return fmt.Errorf("failed to delete last product: %w", err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return &product, nil
}

func (s *PostgresStorage) Migrate(mpath string) error {
	migr, err := migrate.New(
		fmt.Sprintf("file://%s", mpath),
		s.dsn,
	)
	if err != nil {
		return err
	}
	if err := migr.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
