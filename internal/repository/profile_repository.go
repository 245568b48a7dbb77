package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Sohaib59/ecommerce-store/internal/model"
)

// ErrProfileNotFound is returned when a profile lookup fails.
var ErrProfileNotFound = errors.New("profile not found")

// ErrProfileExists is returned when a user already has a profile; the
// relation is strictly 1:1.
var ErrProfileExists = errors.New("profile already exists")

// ProfileRepo encapsulates queries against the `profiles` table.
type ProfileRepo struct{ DB *sql.DB }

func NewProfileRepo(db *sql.DB) *ProfileRepo { return &ProfileRepo{DB: db} }

const profileCols = "id,user_id,full_name,phone,address,city,country,postal_code,created_at,updated_at"

func scanProfile(row *sql.Row) (*model.Profile, error) {
	var p model.Profile
	err := row.Scan(&p.ID, &p.UserID, &p.FullName, &p.Phone, &p.Address, &p.City, &p.Country, &p.PostalCode, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts the profile and reads the row back so timestamp fields
// are populated. The unique constraint on user_id keeps the relation 1:1.
func (r *ProfileRepo) Create(ctx context.Context, p *model.Profile) error {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO profiles (user_id, full_name, phone, address, city, country, postal_code)
		 VALUES (?,?,?,?,?,?,?)`,
		p.UserID, p.FullName, p.Phone, p.Address, p.City, p.Country, p.PostalCode)
	if err != nil {
		if isDuplicate(err) {
			return ErrProfileExists
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

// GetByID fetches a profile by primary key.
func (r *ProfileRepo) GetByID(ctx context.Context, id uint64) (*model.Profile, error) {
	return scanProfile(r.DB.QueryRowContext(ctx,
		"SELECT "+profileCols+" FROM profiles WHERE id=? LIMIT 1", id))
}

// GetByUser fetches the profile owned by a user.
func (r *ProfileRepo) GetByUser(ctx context.Context, userID uint64) (*model.Profile, error) {
	return scanProfile(r.DB.QueryRowContext(ctx,
		"SELECT "+profileCols+" FROM profiles WHERE user_id=? LIMIT 1", userID))
}

// IDByUser returns the profile id for a user, or nil when none exists.
// Used to decorate the public user representation.
func (r *ProfileRepo) IDByUser(ctx context.Context, userID uint64) (*uint64, error) {
	var id uint64
	err := r.DB.QueryRowContext(ctx,
		"SELECT id FROM profiles WHERE user_id=? LIMIT 1", userID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// List returns all profiles ordered by id. Non-administrators are scoped
// to GetByUser in the handler and never reach this method.
func (r *ProfileRepo) List(ctx context.Context) ([]*model.Profile, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT "+profileCols+" FROM profiles ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Profile
	for rows.Next() {
		p := new(model.Profile)
		if err := rows.Scan(&p.ID, &p.UserID, &p.FullName, &p.Phone, &p.Address, &p.City, &p.Country, &p.PostalCode, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Update rewrites the mutable profile fields. Returns ErrProfileNotFound
// when the row is absent.
func (r *ProfileRepo) Update(ctx context.Context, p *model.Profile) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE profiles
		 SET full_name=?, phone=?, address=?, city=?, country=?, postal_code=?, updated_at=CURRENT_TIMESTAMP
		 WHERE id=?`,
		p.FullName, p.Phone, p.Address, p.City, p.Country, p.PostalCode, p.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, p.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a profile by id.
func (r *ProfileRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM profiles WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrProfileNotFound
	}
	return nil
}
