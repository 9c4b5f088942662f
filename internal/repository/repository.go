// Package repository contains data access layer abstractions.
// Implementations live in subpackages (postgres).
package repository

import (
	"context"
	"errors"

	"letterapi/internal/model"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// GenerationRepository stores one audit row per generation attempt using SQL
// queries only. Document bytes are never persisted.
type GenerationRepository interface {
	// Create inserts a new generation record and returns the stored row.
	Create(ctx context.Context, rec *model.GenerationRecord) (*model.GenerationRecord, error)

	// FindByID returns a record by its ID, or ErrNotFound.
	FindByID(ctx context.Context, id string) (*model.GenerationRecord, error)

	// List returns a page of records, newest first, and the total row count.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.GenerationRecord], error)
}

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
type PageResult[T any] struct {
	Items []T
	Total int
}
