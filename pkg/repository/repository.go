// Package repository provides a small generic gorm store shared by the
// domain services.
package repository

import (
	"context"
	"errors"

	"github.com/othomas555/arocwaste/pkg/db/option"
	"gorm.io/gorm"
)

var ErrRecordNotFound = gorm.ErrRecordNotFound

// Repository is a typed gorm store for a single model.
type Repository[T any] interface {
	Create(ctx context.Context, record *T) error
	Save(ctx context.Context, record *T) error
	Find(ctx context.Context, filter map[string]any, opts ...option.QueryOption) ([]T, error)
	FindOne(ctx context.Context, filter map[string]any) (*T, error)
	Delete(ctx context.Context, filter map[string]any) error
}

type store[T any] struct {
	db *gorm.DB
}

// ProvideStore builds a Repository bound to the shared connection.
func ProvideStore[T any](db *gorm.DB) Repository[T] {
	return &store[T]{db: db}
}

func (s *store[T]) Create(ctx context.Context, record *T) error {
	return s.db.WithContext(ctx).Create(record).Error
}

func (s *store[T]) Save(ctx context.Context, record *T) error {
	return s.db.WithContext(ctx).Save(record).Error
}

func (s *store[T]) Find(ctx context.Context, filter map[string]any, opts ...option.QueryOption) ([]T, error) {
	var records []T
	tx := s.db.WithContext(ctx).Model(new(T))
	if len(filter) > 0 {
		tx = tx.Where(filter)
	}
	tx = option.Apply(tx, opts...)
	if err := tx.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (s *store[T]) FindOne(ctx context.Context, filter map[string]any) (*T, error) {
	var record T
	err := s.db.WithContext(ctx).Where(filter).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (s *store[T]) Delete(ctx context.Context, filter map[string]any) error {
	if len(filter) == 0 {
		return errors.New("delete requires a filter")
	}
	return s.db.WithContext(ctx).Where(filter).Delete(new(T)).Error
}
