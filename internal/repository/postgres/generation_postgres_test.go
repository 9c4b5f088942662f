package postgres

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"letterapi/internal/model"
	"letterapi/internal/repository"
)

var columns = []string{"id", "language", "doc_type", "output_format", "filename", "storage_key", "status", "error_kind", "email_requested", "email_sent", "created_at"}

func sampleRecord(now time.Time) *model.GenerationRecord {
	return &model.GenerationRecord{
		ID:             "5f0c7c7e-8a55-4f4e-9b1f-0b7d2b1a2c3d",
		Language:       "he",
		DocumentType:   "legal_warning",
		OutputFormat:   model.FormatPDF,
		Filename:       "generated_letter_2026-10-18_5f0c7c7e-8a55-4f4e-9b1f-0b7d2b1a2c3d.pdf",
		StorageKey:     "generated_letter_2026-10-18_5f0c7c7e-8a55-4f4e-9b1f-0b7d2b1a2c3d.pdf",
		Status:         model.StatusSucceeded,
		EmailRequested: true,
		EmailSent:      true,
		CreatedAt:      now,
	}
}

func TestGenerationPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewGenerationPostgres(db)
	now := time.Now().UTC()
	rec := sampleRecord(now)

	rows := sqlmock.NewRows(columns).AddRow(
		rec.ID, rec.Language, rec.DocumentType, "pdf", rec.Filename, rec.StorageKey,
		"succeeded", nil, true, true, now,
	)
	mock.ExpectQuery("INSERT INTO generations").
		WithArgs(rec.ID, "he", "legal_warning", "pdf", rec.Filename, rec.StorageKey, "succeeded",
			sql.NullString{}, true, true, now).
		WillReturnRows(rows)

	got, err := repo.Create(context.Background(), rec)
	require.NoError(t, err)
	assert.Equal(t, rec, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGenerationPostgres_CreateFailedRecord(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewGenerationPostgres(db)
	now := time.Now().UTC()
	rec := sampleRecord(now)
	rec.Status = model.StatusFailed
	rec.ErrorKind = "DELIVERY_ERROR"
	rec.EmailSent = false

	rows := sqlmock.NewRows(columns).AddRow(
		rec.ID, rec.Language, rec.DocumentType, "pdf", rec.Filename, rec.StorageKey,
		"failed", "DELIVERY_ERROR", true, false, now,
	)
	mock.ExpectQuery("INSERT INTO generations").
		WithArgs(rec.ID, "he", "legal_warning", "pdf", rec.Filename, rec.StorageKey, "failed",
			sql.NullString{String: "DELIVERY_ERROR", Valid: true}, true, false, now).
		WillReturnRows(rows)

	got, err := repo.Create(context.Background(), rec)
	require.NoError(t, err)
	assert.Equal(t, "DELIVERY_ERROR", got.ErrorKind)
	assert.Equal(t, model.StatusFailed, got.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGenerationPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewGenerationPostgres(db)
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("found", func(t *testing.T) {
		rec := sampleRecord(now)
		rows := sqlmock.NewRows(columns).AddRow(
			rec.ID, "he", "legal_warning", "pdf", rec.Filename, rec.StorageKey, "succeeded", nil, true, true, now,
		)
		mock.ExpectQuery(regexp.QuoteMeta("FROM generations WHERE id = $1")).
			WithArgs(rec.ID).
			WillReturnRows(rows)

		got, err := repo.FindByID(ctx, rec.ID)
		require.NoError(t, err)
		assert.Equal(t, rec, got)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("FROM generations WHERE id = $1")).
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		got, err := repo.FindByID(ctx, "missing")
		assert.Nil(t, got)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("db error", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("FROM generations WHERE id = $1")).
			WithArgs("x").
			WillReturnError(errors.New("connection reset"))

		_, err := repo.FindByID(ctx, "x")
		assert.EqualError(t, err, "connection reset")
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGenerationPostgres_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewGenerationPostgres(db)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM generations")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery("ORDER BY created_at DESC").
		WithArgs(2, 0).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("a", "he", "legal_warning", "docx", "a.docx", "a.docx", "succeeded", nil, false, false, now).
			AddRow("b", "en", "legal_warning", "pdf", "b.pdf", "b.pdf", "failed", "CONVERSION_ERROR", false, false, now))

	page, err := repo.List(context.Background(), repository.PageQuery{Limit: 2, Offset: 0})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	require.Len(t, page.Items, 2)
	assert.Equal(t, model.FormatDOCX, page.Items[0].OutputFormat)
	assert.Equal(t, "CONVERSION_ERROR", page.Items[1].ErrorKind)
	assert.NoError(t, mock.ExpectationsWereMet())
}
