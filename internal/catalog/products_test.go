package catalog

import (
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewStore(db), mock
}

const slugExistsQuery = `SELECT EXISTS\(SELECT 1 FROM products WHERE slug = \? AND id != \?\)`

func existsRow(mock sqlmock.Sqlmock, exists bool) *sqlmock.Rows {
	return mock.NewRows([]string{"exists"}).AddRow(exists)
}

func TestUniqueProductSlugAppendsSuffix(t *testing.T) {
	store, mock := newMockStore(t)

	// "mechanical-keyboard" and "mechanical-keyboard-2" are taken.
	mock.ExpectQuery(slugExistsQuery).
		WithArgs("mechanical-keyboard", int64(0)).
		WillReturnRows(existsRow(mock, true))
	mock.ExpectQuery(slugExistsQuery).
		WithArgs("mechanical-keyboard-2", int64(0)).
		WillReturnRows(existsRow(mock, true))
	mock.ExpectQuery(slugExistsQuery).
		WithArgs("mechanical-keyboard-3", int64(0)).
		WillReturnRows(existsRow(mock, false))

	got, err := store.uniqueProductSlug("Mechanical Keyboard", 0)
	require.NoError(t, err)
	assert.Equal(t, "mechanical-keyboard-3", got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateProductDuplicateSKU(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM products WHERE sku = \? AND id != \?\)`).
		WithArgs("KB-01", int64(0)).
		WillReturnRows(existsRow(mock, true))

	sku := "KB-01"
	_, err := store.CreateProduct(ProductInput{Name: "Mechanical Keyboard", Price: 99.99, SKU: &sku})
	assert.ErrorIs(t, err, ErrDuplicateSKU)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteProductNotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM products WHERE id = ?")).
		WithArgs(int64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.DeleteProduct(404)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateCategoryDuplicateName(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM categories WHERE slug = \? OR name = \?\)`).
		WithArgs("keyboards", "Keyboards").
		WillReturnRows(existsRow(mock, true))

	_, err := store.CreateCategory("Keyboards", nil, true)
	assert.ErrorIs(t, err, ErrDuplicateName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteCategoryWithProducts(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM products WHERE category_id = ?")).
		WithArgs(int64(3)).
		WillReturnRows(mock.NewRows([]string{"count"}).AddRow(7))

	err := store.DeleteCategory(3)
	assert.ErrorIs(t, err, ErrCategoryHasProducts)
	assert.NoError(t, mock.ExpectationsWereMet())
}
