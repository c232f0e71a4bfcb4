// package models defines the value objects of the merge pipeline and its persisted run history
package models

import (
	"time"
)

// Model is a persisted record with an id, timestamps, and self-validation.
// [MergeRun] is the only one today.
type Model interface {
	ID() string
	CreatedAt() time.Time
	UpdatedAt() time.Time
	Validate() error
}

// Repository is CRUD over one kind of [Model]. Delete is soft; List filters by criteria keys
// the implementation documents and skips deleted rows.
type Repository[T Model] interface {
	Create(model T) error
	Get(id string) (T, error)
	Update(model T) error
	Delete(id string) error
	List(criteria map[string]any) ([]T, error)
}
