package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/Sohaib59/ecommerce-store/internal/model"
)

const (
	productLockSQL    = "SELECT id FROM products WHERE id=? FOR UPDATE"
	imageSelectSQL    = "SELECT id,product_id,url,alt_text,is_primary,sort_order,created_at FROM product_images WHERE id=?"
	imageOwnerSQL     = "SELECT product_id FROM product_images WHERE id=?"
	demoteOnCreateSQL = "UPDATE product_images SET is_primary=0 WHERE product_id=? AND is_primary=1"
	demoteOnUpdateSQL = "UPDATE product_images SET is_primary=0 WHERE product_id=? AND is_primary=1 AND id<>?"
	imageInsertSQL    = "INSERT INTO product_images (product_id, url, alt_text, is_primary, sort_order) VALUES (?,?,?,?,?)"
	imageUpdateSQL    = "UPDATE product_images SET url=?, alt_text=?, is_primary=?, sort_order=? WHERE id=?"
)

func newImageMock(t *testing.T) (*ImageRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewImageRepo(db), mock
}

// Creating a primary image locks the product row and demotes any
// existing primary before the insert, all inside one transaction, so
// the product ends up with exactly one primary image.
func TestCreatePrimaryDemotesSiblingsInOneTransaction(t *testing.T) {
	repo, mock := newImageMock(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(productLockSQL).
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	mock.ExpectExec(demoteOnCreateSQL).
		WithArgs(uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(imageInsertSQL).
		WithArgs(uint64(3), "https://cdn.example.com/b.jpg", "back", true, 1).
		WillReturnResult(sqlmock.NewResult(12, 1))
	mock.ExpectQuery(imageSelectSQL).
		WithArgs(uint64(12)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "product_id", "url", "alt_text", "is_primary", "sort_order", "created_at"}).
			AddRow(12, 3, "https://cdn.example.com/b.jpg", "back", true, 1, now))
	mock.ExpectCommit()

	img := &model.ProductImage{ProductID: 3, URL: "https://cdn.example.com/b.jpg", AltText: "back", IsPrimary: true, SortOrder: 1}
	require.NoError(t, repo.Create(context.Background(), img))
	require.Equal(t, uint64(12), img.ID)
	require.True(t, img.IsPrimary)
	require.NoError(t, mock.ExpectationsWereMet())
}

// A non-primary insert still takes the product lock but never touches
// sibling rows.
func TestCreateNonPrimaryLeavesSiblingsAlone(t *testing.T) {
	repo, mock := newImageMock(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(productLockSQL).
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	mock.ExpectExec(imageInsertSQL).
		WithArgs(uint64(3), "https://cdn.example.com/c.jpg", "", false, 0).
		WillReturnResult(sqlmock.NewResult(13, 1))
	mock.ExpectQuery(imageSelectSQL).
		WithArgs(uint64(13)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "product_id", "url", "alt_text", "is_primary", "sort_order", "created_at"}).
			AddRow(13, 3, "https://cdn.example.com/c.jpg", "", false, 0, now))
	mock.ExpectCommit()

	img := &model.ProductImage{ProductID: 3, URL: "https://cdn.example.com/c.jpg"}
	require.NoError(t, repo.Create(context.Background(), img))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateForMissingProductRollsBack(t *testing.T) {
	repo, mock := newImageMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(productLockSQL).
		WithArgs(uint64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	img := &model.ProductImage{ProductID: 99, URL: "https://cdn.example.com/x.jpg", IsPrimary: true}
	require.ErrorIs(t, repo.Create(context.Background(), img), ErrProductNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

// Promoting an existing image demotes every other primary of the same
// product, scoped so the promoted row itself is untouched.
func TestUpdatePromoteDemotesOtherPrimaries(t *testing.T) {
	repo, mock := newImageMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(imageOwnerSQL).
		WithArgs(uint64(12)).
		WillReturnRows(sqlmock.NewRows([]string{"product_id"}).AddRow(3))
	mock.ExpectQuery(productLockSQL).
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	mock.ExpectExec(demoteOnUpdateSQL).
		WithArgs(uint64(3), uint64(12)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(imageUpdateSQL).
		WithArgs("https://cdn.example.com/b.jpg", "back", true, 1, uint64(12)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	img := &model.ProductImage{ID: 12, URL: "https://cdn.example.com/b.jpg", AltText: "back", IsPrimary: true, SortOrder: 1}
	require.NoError(t, repo.Update(context.Background(), img))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateMissingImageRollsBack(t *testing.T) {
	repo, mock := newImageMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(imageOwnerSQL).
		WithArgs(uint64(404)).
		WillReturnRows(sqlmock.NewRows([]string{"product_id"}))
	mock.ExpectRollback()

	img := &model.ProductImage{ID: 404, URL: "https://cdn.example.com/x.jpg"}
	require.ErrorIs(t, repo.Update(context.Background(), img), ErrImageNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
