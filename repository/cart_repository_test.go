package repository_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/cardtavern/storefront/models"
	"github.com/cardtavern/storefront/repository"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{TranslateError: true})
	assert.NoError(t, err)
	return gormDB, mock
}

func TestCountLine_WithSize(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormCartRepository(gormDB)

	userID := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "cart"`)).
		WithArgs(userID, models.ProductTypeApparel, int64(3), "L").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	count, err := repo.CountLine(context.Background(), userID, models.ProductTypeApparel, 3, "L")
	assert.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountLine_SizeOmittedFromKey(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormCartRepository(gormDB)

	userID := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "cart"`)).
		WithArgs(userID, models.ProductTypeCard, int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	count, err := repo.CountLine(context.Background(), userID, models.ProductTypeCard, 7, "")
	assert.NoError(t, err)
	assert.Equal(t, int64(0), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCartCreate_Success(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormCartRepository(gormDB)

	line := &models.CartLine{
		UserID:      uuid.New(),
		ProductType: models.ProductTypeCard,
		ProductID:   7,
	}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "cart"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New()))
	mock.ExpectCommit()

	err := repo.Create(context.Background(), line)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCartCreate_DuplicateVariant(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormCartRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "cart"`)).
		WillReturnError(gorm.ErrDuplicatedKey)
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &models.CartLine{
		UserID:      uuid.New(),
		ProductType: models.ProductTypeApparel,
		ProductID:   3,
		Size:        "L",
	})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteLine_Idempotent(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormCartRepository(gormDB)

	userID := uuid.New()
	// zero rows affected is still a success
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "cart"`)).
		WithArgs(userID, models.ProductTypeCard, int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.DeleteLine(context.Background(), userID, models.ProductTypeCard, 7)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCartFindByUserID_Success(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormCartRepository(gormDB)

	userID := uuid.New()
	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "user_id", "product_type", "product_id", "size", "created_at"}).
		AddRow(uuid.New(), userID, "pokemon", int64(7), "", now).
		AddRow(uuid.New(), userID, "apparel", int64(3), "L", now)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "cart"`)).
		WithArgs(userID).
		WillReturnRows(rows)

	lines, err := repo.FindByUserID(context.Background(), userID)
	assert.NoError(t, err)
	assert.Len(t, lines, 2)
	assert.Equal(t, models.ProductTypeCard, lines[0].ProductType)
	assert.Equal(t, "L", lines[1].Size)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteByUserID_Success(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormCartRepository(gormDB)

	userID := uuid.New()
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "cart"`)).
		WithArgs(userID).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	err := repo.DeleteByUserID(context.Background(), userID)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
