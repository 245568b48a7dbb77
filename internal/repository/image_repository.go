package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Sohaib59/ecommerce-store/internal/model"
)

// ErrImageNotFound is returned when a product image lookup fails.
var ErrImageNotFound = errors.New("product image not found")

// ImageRepo encapsulates queries against the `product_images` table.
// Every write that sets is_primary runs as "demote all, then promote"
// inside one transaction that first locks the owning product row, so
// two concurrent primary writes for the same product serialize at any
// isolation level and exactly one image ends up primary (last writer
// wins). Images of different products never touch each other's rows.
type ImageRepo struct{ DB *sql.DB }

func NewImageRepo(db *sql.DB) *ImageRepo { return &ImageRepo{DB: db} }

const imageCols = "id,product_id,url,alt_text,is_primary,sort_order,created_at"

func scanImage(row *sql.Row) (*model.ProductImage, error) {
	var img model.ProductImage
	err := row.Scan(&img.ID, &img.ProductID, &img.URL, &img.AltText, &img.IsPrimary, &img.SortOrder, &img.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrImageNotFound
	}
	if err != nil {
		return nil, err
	}
	return &img, nil
}

// GetByID fetches an image by primary key.
func (r *ImageRepo) GetByID(ctx context.Context, id uint64) (*model.ProductImage, error) {
	return scanImage(r.DB.QueryRowContext(ctx,
		"SELECT "+imageCols+" FROM product_images WHERE id=? LIMIT 1", id))
}

// ListByProduct returns a product's images in display order.
func (r *ImageRepo) ListByProduct(ctx context.Context, productID uint64) ([]*model.ProductImage, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+imageCols+" FROM product_images WHERE product_id=? ORDER BY sort_order, created_at, id",
		productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.ProductImage
	for rows.Next() {
		img := new(model.ProductImage)
		if err := rows.Scan(&img.ID, &img.ProductID, &img.URL, &img.AltText, &img.IsPrimary, &img.SortOrder, &img.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, img)
	}
	return out, rows.Err()
}

// Create inserts an image. When IsPrimary is set, the insert and the
// demotion of the product's current primary share a transaction.
func (r *ImageRepo) Create(ctx context.Context, img *model.ProductImage) error {
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

	// Serializes concurrent image writes for this product regardless of
	// the session's isolation level.
	var locked uint64
	if err = tx.QueryRowContext(ctx,
		"SELECT id FROM products WHERE id=? FOR UPDATE", img.ProductID).Scan(&locked); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrProductNotFound
		}
		return err
	}

	if img.IsPrimary {
		if _, err = tx.ExecContext(ctx,
			"UPDATE product_images SET is_primary=0 WHERE product_id=? AND is_primary=1",
			img.ProductID); err != nil {
			return err
		}
	}
	var res sql.Result
	res, err = tx.ExecContext(ctx,
		"INSERT INTO product_images (product_id, url, alt_text, is_primary, sort_order) VALUES (?,?,?,?,?)",
		img.ProductID, img.URL, img.AltText, img.IsPrimary, img.SortOrder)
	if err != nil {
		return err
	}
	id, idErr := res.LastInsertId()
	if idErr != nil {
		err = idErr
		return err
	}
	img.ID = uint64(id)

	err = tx.QueryRowContext(ctx,
		"SELECT "+imageCols+" FROM product_images WHERE id=?", img.ID).
		Scan(&img.ID, &img.ProductID, &img.URL, &img.AltText, &img.IsPrimary, &img.SortOrder, &img.CreatedAt)
	return err
}

// Update rewrites image fields. Promoting to primary demotes every
// other primary of the same product in the same transaction.
func (r *ImageRepo) Update(ctx context.Context, img *model.ProductImage) error {
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

	var productID uint64
	if err = tx.QueryRowContext(ctx,
		"SELECT product_id FROM product_images WHERE id=?", img.ID).Scan(&productID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrImageNotFound
		}
		return err
	}
	var locked uint64
	if err = tx.QueryRowContext(ctx,
		"SELECT id FROM products WHERE id=? FOR UPDATE", productID).Scan(&locked); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrProductNotFound
		}
		return err
	}
	if img.IsPrimary {
		if _, err = tx.ExecContext(ctx,
			"UPDATE product_images SET is_primary=0 WHERE product_id=? AND is_primary=1 AND id<>?",
			productID, img.ID); err != nil {
			return err
		}
	}
	_, err = tx.ExecContext(ctx,
		"UPDATE product_images SET url=?, alt_text=?, is_primary=?, sort_order=? WHERE id=?",
		img.URL, img.AltText, img.IsPrimary, img.SortOrder, img.ID)
	return err
}

// Delete removes an image by id.
func (r *ImageRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM product_images WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrImageNotFound
	}
	return nil
}
