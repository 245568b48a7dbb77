package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Sohaib59/ecommerce-store/internal/model"
)

// ErrBrandNotFound is returned when a brand lookup fails.
var ErrBrandNotFound = errors.New("brand not found")

// BrandRepo encapsulates queries against the `brands` table. Name and
// slug both carry unique indexes; collisions surface as ErrConflict and
// are never resolved by renaming.
type BrandRepo struct{ DB *sql.DB }

func NewBrandRepo(db *sql.DB) *BrandRepo { return &BrandRepo{DB: db} }

const brandCols = "id,name,slug,description,website,is_active,created_at,updated_at"

func scanBrand(row *sql.Row) (*model.Brand, error) {
	var b model.Brand
	err := row.Scan(&b.ID, &b.Name, &b.Slug, &b.Description, &b.Website, &b.IsActive, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBrandNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Create inserts a brand and reads the row back to populate defaults.
func (r *BrandRepo) Create(ctx context.Context, b *model.Brand) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO brands (name, slug, description, website, is_active) VALUES (?,?,?,?,?)",
		b.Name, b.Slug, b.Description, b.Website, b.IsActive)
	if err != nil {
		if isDuplicate(err) {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)

	got, err := r.GetByID(ctx, b.ID)
	if err != nil {
		return err
	}
	*b = *got
	return nil
}

// GetByID fetches a brand by primary key.
func (r *BrandRepo) GetByID(ctx context.Context, id uint64) (*model.Brand, error) {
	return scanBrand(r.DB.QueryRowContext(ctx,
		"SELECT "+brandCols+" FROM brands WHERE id=? LIMIT 1", id))
}

// List returns all brands ordered by name.
func (r *BrandRepo) List(ctx context.Context) ([]*model.Brand, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT "+brandCols+" FROM brands ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Brand
	for rows.Next() {
		b := new(model.Brand)
		if err := rows.Scan(&b.ID, &b.Name, &b.Slug, &b.Description, &b.Website, &b.IsActive, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// Update rewrites brand fields. Duplicate name/slug → ErrConflict.
func (r *BrandRepo) Update(ctx context.Context, b *model.Brand) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE brands
		 SET name=?, slug=?, description=?, website=?, is_active=?, updated_at=CURRENT_TIMESTAMP
		 WHERE id=?`,
		b.Name, b.Slug, b.Description, b.Website, b.IsActive, b.ID)
	if err != nil {
		if isDuplicate(err) {
			return ErrConflict
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, b.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a brand. Products keep existing: their brand reference
// is cleared in the same transaction, mirroring SET NULL semantics.
func (r *BrandRepo) Delete(ctx context.Context, id uint64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	var exists uint64
	if err = tx.QueryRowContext(ctx, "SELECT id FROM brands WHERE id=?", id).Scan(&exists); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrBrandNotFound
		}
		return err
	}
	if _, err = tx.ExecContext(ctx, "UPDATE products SET brand_id=NULL WHERE brand_id=?", id); err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, "DELETE FROM brands WHERE id=?", id)
	return err
}
