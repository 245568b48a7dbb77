package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Sohaib59/ecommerce-store/internal/model"
)

// ErrProductNotFound is returned when a product lookup fails.
var ErrProductNotFound = errors.New("product not found")

// ProductFilter narrows List results. Nil fields are ignored.
type ProductFilter struct {
	CategoryID *uint64
	BrandID    *uint64
	Status     *string
	Featured   *bool
	InStock    *bool
	Active     *bool
}

// ProductRepo encapsulates queries against the `products` table.
type ProductRepo struct{ DB *sql.DB }

func NewProductRepo(db *sql.DB) *ProductRepo { return &ProductRepo{DB: db} }

const productCols = `id,name,slug,description,short_description,category_id,brand_id,
	price,discount_price,stock,rating,reviews_count,status,is_featured,is_active,created_at,updated_at`

func scanProductRow(row *sql.Row) (*model.Product, error) {
	var p model.Product
	err := row.Scan(&p.ID, &p.Name, &p.Slug, &p.Description, &p.ShortDescription,
		&p.CategoryID, &p.BrandID, &p.Price, &p.DiscountPrice, &p.Stock,
		&p.Rating, &p.ReviewsCount, &p.Status, &p.IsFeatured, &p.IsActive,
		&p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a product and reads it back. Duplicate slug → ErrConflict.
func (r *ProductRepo) Create(ctx context.Context, p *model.Product) error {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO products
		 (name, slug, description, short_description, category_id, brand_id,
		  price, discount_price, stock, rating, reviews_count, status, is_featured, is_active)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		p.Name, p.Slug, p.Description, p.ShortDescription, p.CategoryID, p.BrandID,
		p.Price, p.DiscountPrice, p.Stock, p.Rating, p.ReviewsCount, p.Status, p.IsFeatured, p.IsActive)
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
	p.ID = uint64(id)

	got, err := r.GetByID(ctx, p.ID)
	if err != nil {
		return err
	}
	*p = *got
	return nil
}

// GetByID fetches a product by primary key.
func (r *ProductRepo) GetByID(ctx context.Context, id uint64) (*model.Product, error) {
	return scanProductRow(r.DB.QueryRowContext(ctx,
		"SELECT "+productCols+" FROM products WHERE id=? LIMIT 1", id))
}

// GetBySlug fetches a product by its unique slug.
func (r *ProductRepo) GetBySlug(ctx context.Context, slug string) (*model.Product, error) {
	return scanProductRow(r.DB.QueryRowContext(ctx,
		"SELECT "+productCols+" FROM products WHERE slug=? LIMIT 1", slug))
}

// List returns products matching the filter, newest first.
func (r *ProductRepo) List(ctx context.Context, f ProductFilter) ([]*model.Product, error) {
	q := "SELECT " + productCols + " FROM products WHERE 1=1"
	var args []any
	if f.CategoryID != nil {
		q += " AND category_id=?"
		args = append(args, *f.CategoryID)
	}
	if f.BrandID != nil {
		q += " AND brand_id=?"
		args = append(args, *f.BrandID)
	}
	if f.Status != nil {
		q += " AND status=?"
		args = append(args, *f.Status)
	}
	if f.Featured != nil {
		q += " AND is_featured=?"
		args = append(args, *f.Featured)
	}
	if f.Active != nil {
		q += " AND is_active=?"
		args = append(args, *f.Active)
	}
	if f.InStock != nil {
		if *f.InStock {
			q += " AND stock > 0"
		} else {
			q += " AND stock = 0"
		}
	}
	q += " ORDER BY created_at DESC, id DESC"

	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Product
	for rows.Next() {
		p := new(model.Product)
		if err := rows.Scan(&p.ID, &p.Name, &p.Slug, &p.Description, &p.ShortDescription,
			&p.CategoryID, &p.BrandID, &p.Price, &p.DiscountPrice, &p.Stock,
			&p.Rating, &p.ReviewsCount, &p.Status, &p.IsFeatured, &p.IsActive,
			&p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Update rewrites product fields. Duplicate slug → ErrConflict,
// missing row → ErrProductNotFound.
func (r *ProductRepo) Update(ctx context.Context, p *model.Product) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE products
		 SET name=?, slug=?, description=?, short_description=?, category_id=?, brand_id=?,
		     price=?, discount_price=?, stock=?, rating=?, reviews_count=?, status=?,
		     is_featured=?, is_active=?, updated_at=CURRENT_TIMESTAMP
		 WHERE id=?`,
		p.Name, p.Slug, p.Description, p.ShortDescription, p.CategoryID, p.BrandID,
		p.Price, p.DiscountPrice, p.Stock, p.Rating, p.ReviewsCount, p.Status,
		p.IsFeatured, p.IsActive, p.ID)
	if err != nil {
		if isDuplicate(err) {
			return ErrConflict
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, p.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a product and its images in one transaction.
func (r *ProductRepo) Delete(ctx context.Context, id uint64) error {
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
	if err = tx.QueryRowContext(ctx, "SELECT id FROM products WHERE id=?", id).Scan(&exists); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrProductNotFound
		}
		return err
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM product_images WHERE product_id=?", id); err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, "DELETE FROM products WHERE id=?", id)
	return err
}
