package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/Sohaib59/ecommerce-store/internal/model"
)

// ErrCategoryNotFound is returned when a category lookup fails.
var ErrCategoryNotFound = errors.New("category not found")

// CategoryRepo encapsulates queries against the `categories` table.
// Categories form a forest via the self-referential parent_id column.
// The storage layer does not prevent cycles, so every parent write runs
// wouldCycle over the full (id, parent) map first. Deletes cascade to
// the whole subtree and clear product references in one transaction.
type CategoryRepo struct{ DB *sql.DB }

func NewCategoryRepo(db *sql.DB) *CategoryRepo { return &CategoryRepo{DB: db} }

const categoryCols = "id,name,slug,description,parent_id,is_active,created_at,updated_at"

func scanCategory(row *sql.Row) (*model.Category, error) {
	var c model.Category
	err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.ParentID, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// wouldCycle reports whether pointing node id at newParent would make
// the node its own ancestor. parents maps every category id to its
// current parent (nil for roots). The walk is bounded by the map size
// so a pre-existing corrupt cycle cannot loop forever.
func wouldCycle(parents map[uint64]*uint64, id uint64, newParent *uint64) bool {
	cur := newParent
	for steps := 0; cur != nil && steps <= len(parents); steps++ {
		if *cur == id {
			return true
		}
		cur = parents[*cur]
	}
	return false
}

// parentMap loads the (id, parent_id) pairs of every category in one
// query, locking the rows for the duration of the caller's transaction.
// The lock is what makes the cycle check sound: without it, two
// concurrent reparents could each read the old tree, pass, and commit a
// cycle together.
func parentMap(ctx context.Context, tx *sql.Tx) (map[uint64]*uint64, error) {
	rows, err := tx.QueryContext(ctx, "SELECT id, parent_id FROM categories FOR UPDATE")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	parents := make(map[uint64]*uint64)
	for rows.Next() {
		var id uint64
		var parent *uint64
		if err := rows.Scan(&id, &parent); err != nil {
			return nil, err
		}
		parents[id] = parent
	}
	return parents, rows.Err()
}

// Create inserts a category. A non-nil parent must exist; duplicate
// name/slug → ErrConflict. A freshly created node cannot close a cycle,
// so no cycle check is needed here.
func (r *CategoryRepo) Create(ctx context.Context, c *model.Category) error {
	if c.ParentID != nil {
		if _, err := r.GetByID(ctx, *c.ParentID); err != nil {
			return err
		}
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO categories (name, slug, description, parent_id, is_active) VALUES (?,?,?,?,?)",
		c.Name, c.Slug, c.Description, c.ParentID, c.IsActive)
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
	c.ID = uint64(id)

	got, err := r.GetByID(ctx, c.ID)
	if err != nil {
		return err
	}
	*c = *got
	return nil
}

// GetByID fetches a category by primary key.
func (r *CategoryRepo) GetByID(ctx context.Context, id uint64) (*model.Category, error) {
	return scanCategory(r.DB.QueryRowContext(ctx,
		"SELECT "+categoryCols+" FROM categories WHERE id=? LIMIT 1", id))
}

// List returns all categories ordered by name.
func (r *CategoryRepo) List(ctx context.Context) ([]*model.Category, error) {
	return r.queryCategories(ctx, "SELECT "+categoryCols+" FROM categories ORDER BY name")
}

// ListChildren returns the direct children of a category.
func (r *CategoryRepo) ListChildren(ctx context.Context, parentID uint64) ([]*model.Category, error) {
	return r.queryCategories(ctx,
		"SELECT "+categoryCols+" FROM categories WHERE parent_id=? ORDER BY name", parentID)
}

func (r *CategoryRepo) queryCategories(ctx context.Context, q string, args ...any) ([]*model.Category, error) {
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Category
	for rows.Next() {
		c := new(model.Category)
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.ParentID, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Update rewrites category fields. A parent change is validated against
// the current tree: the new parent must exist, must not be the node
// itself, and must not be one of its descendants (ErrCycle). The check
// and the write share a transaction so a concurrent parent change
// cannot slip a cycle past us.
func (r *CategoryRepo) Update(ctx context.Context, c *model.Category) error {
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

	parents, err := parentMap(ctx, tx)
	if err != nil {
		return err
	}
	if _, ok := parents[c.ID]; !ok {
		err = ErrCategoryNotFound
		return err
	}
	if c.ParentID != nil {
		if _, ok := parents[*c.ParentID]; !ok {
			err = ErrCategoryNotFound
			return err
		}
		if *c.ParentID == c.ID || wouldCycle(parents, c.ID, c.ParentID) {
			err = ErrCycle
			return err
		}
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE categories
		 SET name=?, slug=?, description=?, parent_id=?, is_active=?, updated_at=CURRENT_TIMESTAMP
		 WHERE id=?`,
		c.Name, c.Slug, c.Description, c.ParentID, c.IsActive, c.ID)
	if err != nil && isDuplicate(err) {
		err = ErrConflict
	}
	return err
}

// Delete removes a category and every descendant transitively. Products
// referencing any deleted node survive with category_id cleared. All of
// it happens in a single transaction: either the whole subtree goes or
// nothing does.
func (r *CategoryRepo) Delete(ctx context.Context, id uint64) error {
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

	parents, err := parentMap(ctx, tx)
	if err != nil {
		return err
	}
	if _, ok := parents[id]; !ok {
		err = ErrCategoryNotFound
		return err
	}

	doomed := subtreeIDs(parents, id)
	placeholders := strings.TrimRight(strings.Repeat("?,", len(doomed)), ",")
	args := make([]any, len(doomed))
	for i, d := range doomed {
		args[i] = d
	}

	if _, err = tx.ExecContext(ctx,
		"UPDATE products SET category_id=NULL WHERE category_id IN ("+placeholders+")", args...); err != nil {
		return err
	}
	// Delete leaves first so the self-referential FK never dangles.
	for i := len(doomed) - 1; i >= 0; i-- {
		if _, err = tx.ExecContext(ctx, "DELETE FROM categories WHERE id=?", doomed[i]); err != nil {
			return err
		}
	}
	return nil
}

// subtreeIDs returns id and all its descendants in breadth-first order.
func subtreeIDs(parents map[uint64]*uint64, id uint64) []uint64 {
	children := make(map[uint64][]uint64, len(parents))
	for child, parent := range parents {
		if parent != nil {
			children[*parent] = append(children[*parent], child)
		}
	}
	out := []uint64{id}
	for i := 0; i < len(out); i++ {
		out = append(out, children[out[i]]...)
	}
	return out
}
