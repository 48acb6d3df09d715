package orders

import (
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/su413/storefront-golang/internal/models"
)

func TestUpdateAdminNotesStampsUpdatedAt(t *testing.T) {
	ledger, mock := newMockLedger(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE orders SET admin_notes = ?, updated_at = ? WHERE id = ?")).
		WithArgs("call customer before shipping", sqlmock.AnyArg(), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, ledger.UpdateAdminNotes(7, "call customer before shipping"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateAdminNotesUnknownOrder(t *testing.T) {
	ledger, mock := newMockLedger(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE orders SET admin_notes = ?, updated_at = ? WHERE id = ?")).
		WithArgs("anything", sqlmock.AnyArg(), int64(999)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := ledger.UpdateAdminNotes(999, "anything")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestMarkPaidStampsUpdatedAt(t *testing.T) {
	ledger, mock := newMockLedger(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE orders SET payment_status = ?, updated_at = ? WHERE order_number = ?")).
		WithArgs(models.PaymentStatusPaid, sqlmock.AnyArg(), "ORD-AB12CD34").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, ledger.MarkPaid("ORD-AB12CD34"))
	require.NoError(t, mock.ExpectationsWereMet())
}
