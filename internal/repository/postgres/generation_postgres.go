package postgres

import (
	"context"
	"database/sql"
	"errors"

	"letterapi/internal/model"
	"letterapi/internal/repository"
)

// GenerationPostgres is a PostgreSQL implementation of repository.GenerationRepository.
type GenerationPostgres struct {
	db *sql.DB
}

// NewGenerationPostgres creates a new GenerationPostgres repository.
func NewGenerationPostgres(db *sql.DB) *GenerationPostgres {
	return &GenerationPostgres{db: db}
}

var _ repository.GenerationRepository = (*GenerationPostgres)(nil)

const generationColumns = `id, language, doc_type, output_format, filename, storage_key, status, error_kind, email_requested, email_sent, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanGeneration(s scanner) (*model.GenerationRecord, error) {
	var (
		g         model.GenerationRecord
		format    string
		status    string
		errorKind sql.NullString
	)
	if err := s.Scan(
		&g.ID,
		&g.Language,
		&g.DocumentType,
		&format,
		&g.Filename,
		&g.StorageKey,
		&status,
		&errorKind,
		&g.EmailRequested,
		&g.EmailSent,
		&g.CreatedAt,
	); err != nil {
		return nil, err
	}
	g.OutputFormat = model.OutputFormat(format)
	g.Status = model.GenerationStatus(status)
	g.ErrorKind = errorKind.String
	return &g, nil
}

// Create inserts a generation row and returns the stored record.
func (r *GenerationPostgres) Create(ctx context.Context, rec *model.GenerationRecord) (*model.GenerationRecord, error) {
	const q = `
		INSERT INTO generations (` + generationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + generationColumns

	var errorKind sql.NullString
	if rec.ErrorKind != "" {
		errorKind = sql.NullString{String: rec.ErrorKind, Valid: true}
	}
	row := r.db.QueryRowContext(ctx, q,
		rec.ID,
		rec.Language,
		rec.DocumentType,
		string(rec.OutputFormat),
		rec.Filename,
		rec.StorageKey,
		string(rec.Status),
		errorKind,
		rec.EmailRequested,
		rec.EmailSent,
		rec.CreatedAt,
	)
	return scanGeneration(row)
}

// FindByID fetches a single generation by its ID.
func (r *GenerationPostgres) FindByID(ctx context.Context, id string) (*model.GenerationRecord, error) {
	const q = `SELECT ` + generationColumns + ` FROM generations WHERE id = $1`

	g, err := scanGeneration(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return g, nil
}

// List returns generations using LIMIT/OFFSET pagination and a total count.
func (r *GenerationPostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.GenerationRecord], error) {
	const qCount = `SELECT COUNT(*) FROM generations`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT ` + generationColumns + `
		FROM generations
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, qList, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.GenerationRecord, 0)
	for rows.Next() {
		g, err := scanGeneration(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.GenerationRecord]{Items: items, Total: total}, nil
}
