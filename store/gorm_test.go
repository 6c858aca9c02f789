package store

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"pillflow-backend/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupMockStore(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *GormStore) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return db, mock, NewGormStore(gdb)
}

func TestGormStore_GetCustomer(t *testing.T) {
	db, mock, s := setupMockStore(t)
	defer db.Close()

	id := uuid.New()
	owner := uuid.New()
	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "owner_user_id", "customer_code", "first_name", "last_name", "status", "created_at", "updated_at"}).
		AddRow(id.String(), owner.String(), "CUST-1", "Ada", "Lovelace", "active", now, now)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "customers" WHERE id = $1`)).
		WillReturnRows(rows)

	c, err := s.GetCustomer(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, c.ID)
	assert.Equal(t, owner, c.OwnerUserID)
	assert.Equal(t, "CUST-1", c.CustomerID)
	assert.Equal(t, models.CustomerActive, c.Status)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_GetCustomer_NotFound(t *testing.T) {
	db, mock, s := setupMockStore(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "customers" WHERE id = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := s.GetCustomer(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_DeleteCustomer_NoRows(t *testing.T) {
	db, mock, s := setupMockStore(t)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "customers" WHERE id = $1`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.DeleteCustomer(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_ListScanOutsForOwner(t *testing.T) {
	db, mock, s := setupMockStore(t)
	defer db.Close()

	owner := uuid.New()
	id := uuid.New()
	customerID := uuid.New()
	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "customer_id", "pharmacist_initials", "webster_pack_id", "pack_type", "status", "created_at", "updated_at"}).
		AddRow(id.String(), customerID.String(), "JD", "WP-1", "blister_packs", "scanned_out", now, now)

	mock.ExpectQuery(`SELECT scan_outs\.\* FROM "scan_outs" JOIN customers ON customers\.id = scan_outs\.customer_id WHERE customers\.owner_user_id = .+ AND scan_outs\.status = .+ ORDER BY scan_outs\.created_at DESC`).
		WillReturnRows(rows)

	scanOuts, err := s.ListScanOuts(context.Background(), ScanOutFilter{OwnerUserID: owner, Status: models.ScannedOut})
	require.NoError(t, err)
	require.Len(t, scanOuts, 1)
	assert.Equal(t, "WP-1", scanOuts[0].WebsterPackID)
	assert.Equal(t, models.ScannedOut, scanOuts[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_ReminderSent(t *testing.T) {
	db, mock, s := setupMockStore(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "delivery_reminder_logs" WHERE scan_out_id = $1 AND status = $2`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	sent, err := s.ReminderSent(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.True(t, sent)
	assert.NoError(t, mock.ExpectationsWereMet())
}
