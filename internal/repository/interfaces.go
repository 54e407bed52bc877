package repository

import (
	"context"
	"errors"

	"github.com/alexanderramin/fiberpay/internal/domain"
)

// ErrNotFound is wrapped by every Get that finds no row.
var ErrNotFound = errors.New("not found")

type RecordRepo interface {
	Create(ctx context.Context, r *domain.Record) error
	GetByID(ctx context.Context, id string) (*domain.Record, error)
	List(ctx context.Context) ([]domain.Record, error)
	Count(ctx context.Context) (int, error)
}

type SummaryRepo interface {
	Save(ctx context.Context, name string, t domain.Table) error
	Get(ctx context.Context, name string) (domain.Table, error)
	Names(ctx context.Context) ([]string, error)
}

type MetaRepo interface {
	Set(ctx context.Context, key, value string) error
	Get(ctx context.Context, key string) (string, error)
	All(ctx context.Context) (map[string]string, error)
}
