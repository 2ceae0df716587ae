package repository_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/cardtavern/storefront/models"
	"github.com/cardtavern/storefront/repository"
)

func TestCreateDraft_Success(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormOrderRepository(gormDB)

	draft := &models.OrderDraft{
		UserID:      uuid.New(),
		TotalAmount: decimal.RequireFromString("42.50"),
		BillingAddress: models.Address{
			FirstName: "Ash", LastName: "Ketchum",
			Line1: "1 Pallet Town Rd", City: "Pallet Town",
			State: "KA", PostalCode: "00001",
		},
	}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "order_drafts"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New()))
	mock.ExpectCommit()

	err := repo.CreateDraft(context.Background(), draft)
	assert.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, draft.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttachSession_Success(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormOrderRepository(gormDB)

	draftID := uuid.New()
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "order_drafts"`)).
		WithArgs("cs_test_abc", draftID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.AttachSession(context.Background(), draftID, "cs_test_abc")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindDraftBySessionID_Success(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormOrderRepository(gormDB)

	draftID := uuid.New()
	sessionID := "cs_test_abc"
	rows := sqlmock.NewRows([]string{"id", "user_id", "total_amount", "session_id", "created_at"}).
		AddRow(draftID, uuid.New(), "42.50", sessionID, time.Now())

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "order_drafts"`)).
		WithArgs(sessionID, 1).
		WillReturnRows(rows)

	draft, err := repo.FindDraftBySessionID(context.Background(), sessionID)
	assert.NoError(t, err)
	assert.Equal(t, draftID, draft.ID)
	assert.True(t, draft.TotalAmount.Equal(decimal.RequireFromString("42.50")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindDraftBySessionID_NotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormOrderRepository(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "order_drafts"`)).
		WithArgs("cs_unknown", 1).
		WillReturnRows(sqlmock.NewRows([]string{}))

	draft, err := repo.FindDraftBySessionID(context.Background(), "cs_unknown")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.Nil(t, draft)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func orderRecordsFixture(sessionID string) []models.OrderRecord {
	userID := uuid.New()
	draftID := uuid.New()
	now := time.Now().UTC()
	total := decimal.RequireFromString("53.99")
	return []models.OrderRecord{
		{UserID: userID, SessionID: sessionID, ProductID: 7, ProductType: models.ProductTypeCard, TotalAmount: total, PurchasedAt: now, OrderDraftID: draftID},
		{UserID: userID, SessionID: sessionID, ProductID: 3, ProductType: models.ProductTypeApparel, Size: "L", TotalAmount: total, PurchasedAt: now, OrderDraftID: draftID},
	}
}

func TestCommitRecords_Success(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormOrderRepository(gormDB)

	sessionID := "cs_test_abc"
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "order_commits"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "orders"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New()).AddRow(uuid.New()))
	mock.ExpectCommit()

	err := repo.CommitRecords(context.Background(), sessionID, orderRecordsFixture(sessionID))
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommitRecords_DuplicateSessionWritesNothing(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormOrderRepository(gormDB)

	sessionID := "cs_test_abc"
	// guard row violates the primary key, the whole transaction rolls
	// back and no order rows are inserted
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "order_commits"`)).
		WillReturnError(gorm.ErrDuplicatedKey)
	mock.ExpectRollback()

	err := repo.CommitRecords(context.Background(), sessionID, orderRecordsFixture(sessionID))
	assert.ErrorIs(t, err, repository.ErrAlreadyCommitted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommitRecords_RecordWriteFailureRollsBack(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormOrderRepository(gormDB)

	sessionID := "cs_test_abc"
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "order_commits"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "orders"`)).
		WillReturnError(gorm.ErrInvalidData)
	mock.ExpectRollback()

	err := repo.CommitRecords(context.Background(), sessionID, orderRecordsFixture(sessionID))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, repository.ErrAlreadyCommitted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindRecordsByUserID_Paginated(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormOrderRepository(gormDB)

	userID := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "orders"`)).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "user_id", "session_id", "product_id", "product_type", "total_amount", "purchased_at"}).
		AddRow(uuid.New(), userID, "cs_b", int64(3), "apparel", "24.00", now).
		AddRow(uuid.New(), userID, "cs_a", int64(7), "pokemon", "29.99", now.Add(-time.Hour))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "orders"`)).
		WithArgs(userID, 2).
		WillReturnRows(rows)

	records, total, err := repo.FindRecordsByUserID(context.Background(), userID, 1, 2)
	assert.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, records, 2)
	assert.Equal(t, "cs_b", records[0].SessionID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
