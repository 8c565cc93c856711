package store

import "go.ngs.io/sst-indices/internal/domain"

// FieldLoader is the interface for loading a gridded SST field.
type FieldLoader interface {
	// LoadField returns the full field with its coordinate axes as stored.
	LoadField() (*domain.Field, error)
}
