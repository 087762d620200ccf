package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/danisatya/asset-management-api/internal/domain/entity"
	"github.com/danisatya/asset-management-api/internal/domain/repository"
)

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

type AssetRepository struct {
	pool *pgxpool.Pool
}

func NewAssetRepository(pool *pgxpool.Pool) *AssetRepository {
	return &AssetRepository{pool: pool}
}

func (r *AssetRepository) Create(ctx context.Context, a *entity.Asset) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO assets (name, asset_type, serial_number, status, assigned_to, purchase_date, purchase_price, description, image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`, a.Name, a.AssetType, a.SerialNumber, a.Status, a.AssignedTo, a.PurchaseDate, a.PurchasePrice, a.Description, a.ImageURL)

	if err := row.Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *AssetRepository) GetByID(ctx context.Context, id string) (*entity.Asset, error) {
	a := &entity.Asset{}

	row := r.pool.QueryRow(ctx, `
		SELECT id, name, asset_type, serial_number, status, assigned_to, purchase_date, purchase_price, description, image_url, created_at, updated_at
		FROM assets
		WHERE id = $1
	`, id)

	if err := row.Scan(&a.ID, &a.Name, &a.AssetType, &a.SerialNumber, &a.Status,
		&a.AssignedTo, &a.PurchaseDate, &a.PurchasePrice, &a.Description, &a.ImageURL,
		&a.CreatedAt, &a.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return a, nil
}

func (r *AssetRepository) List(ctx context.Context, skip, limit int) ([]entity.Asset, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, asset_type, serial_number, status, assigned_to, purchase_date, purchase_price, description, image_url, created_at, updated_at
		FROM assets
		ORDER BY created_at, id
		OFFSET $1 LIMIT $2
	`, skip, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assets := make([]entity.Asset, 0, limit)
	for rows.Next() {
		var a entity.Asset
		if err := rows.Scan(&a.ID, &a.Name, &a.AssetType, &a.SerialNumber, &a.Status,
			&a.AssignedTo, &a.PurchaseDate, &a.PurchasePrice, &a.Description, &a.ImageURL,
			&a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		assets = append(assets, a)
	}
	return assets, rows.Err()
}

func (r *AssetRepository) Update(ctx context.Context, a *entity.Asset) error {
	a.UpdatedAt = time.Now().UTC()

	res, err := r.pool.Exec(ctx, `
		UPDATE assets
		SET name = $1, asset_type = $2, serial_number = $3, status = $4, assigned_to = $5,
		    purchase_date = $6, purchase_price = $7, description = $8, image_url = $9, updated_at = $10
		WHERE id = $11
	`, a.Name, a.AssetType, a.SerialNumber, a.Status, a.AssignedTo,
		a.PurchaseDate, a.PurchasePrice, a.Description, a.ImageURL, a.UpdatedAt, a.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return err
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *AssetRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM assets WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.AssetRepository = (*AssetRepository)(nil)
