package store

import (
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Entity is anything with a stable string identifier. All persisted models
// satisfy it; Save needs it to re-fetch what it just wrote.
type Entity interface {
	EntityID() string
}

// ValidID reports whether id is a well-formed entity identifier. Malformed
// identifiers are rejected before any query runs.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Save persists a newly constructed entity and re-fetches it applying
// responseOpts, so response projections (e.g. omitting password_hash) hold
// for create responses exactly as they do for reads.
func Save[T Entity](db *gorm.DB, item *T, responseOpts GetOptions) (*T, error) {
	if err := db.Create(item).Error; err != nil {
		return nil, classify("save", err)
	}
	return GetByID[T](db, (*item).EntityID(), responseOpts)
}

// GetAll returns every entity matching opts. The result is never nil.
func GetAll[T any](db *gorm.DB, opts GetOptions) ([]T, error) {
	items := make([]T, 0)
	if err := opts.apply(db).Find(&items).Error; err != nil {
		return nil, classify("find", err)
	}
	return items, nil
}

// GetByID fetches a single entity by identifier, applying opts on top of
// the id constraint. ErrInvalidID and ErrNotFound are distinct, expected
// outcomes.
func GetByID[T any](db *gorm.DB, id string, opts GetOptions) (*T, error) {
	if !ValidID(id) {
		return nil, ErrInvalidID
	}
	var item T
	if err := opts.apply(db).First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, classify("find", err)
	}
	return &item, nil
}

// GetOne fetches the first entity matching opts, e.g. a user by email.
func GetOne[T any](db *gorm.DB, opts GetOptions) (*T, error) {
	var item T
	if err := opts.apply(db).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, classify("find", err)
	}
	return &item, nil
}

// FindByID is the silent lookup used to validate references: it reports
// absence (or a malformed id, or any storage failure) as a plain false
// instead of an error.
func FindByID[T any](db *gorm.DB, id string) (*T, bool) {
	item, err := GetByID[T](db, id, GetOptions{})
	if err != nil {
		return nil, false
	}
	return item, true
}

// UpdateByID applies a partial field update and returns the post-update
// view of the entity with responseOpts applied. The identifier itself is
// immutable and never part of the update.
func UpdateByID[T any](db *gorm.DB, id string, fields map[string]any, responseOpts GetOptions) (*T, error) {
	if !ValidID(id) {
		return nil, ErrInvalidID
	}
	var existing T
	if err := db.First(&existing, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, classify("update", err)
	}
	delete(fields, "id")
	if len(fields) > 0 {
		if err := db.Model(&existing).Updates(fields).Error; err != nil {
			return nil, classify("update", err)
		}
	}
	return GetByID[T](db, id, responseOpts)
}

// DeleteByID fetches the entity (with responseOpts applied, so the deleted
// entity's selected fields can be echoed back) and then removes it.
func DeleteByID[T any](db *gorm.DB, id string, responseOpts GetOptions) (*T, error) {
	if !ValidID(id) {
		return nil, ErrInvalidID
	}
	item, err := GetByID[T](db, id, responseOpts)
	if err != nil {
		return nil, err
	}
	if err := db.Delete(new(T), "id = ?", id).Error; err != nil {
		return nil, classify("delete", err)
	}
	return item, nil
}

// Count returns the number of entities matching filter; a nil filter counts
// the whole collection.
func Count[T any](db *gorm.DB, filter map[string]any) (int64, error) {
	var count int64
	tx := db.Model(new(T))
	if len(filter) > 0 {
		tx = tx.Where(filter)
	}
	if err := tx.Count(&count).Error; err != nil {
		return 0, classify("count", err)
	}
	return count, nil
}

// Sum aggregates column across every entity of T. An empty collection has
// no sum to report and yields ErrNotFound rather than zero.
func Sum[T any](db *gorm.DB, column string) (float64, error) {
	row := db.Model(new(T)).Select("SUM(" + column + ")").Row()
	var total sql.NullFloat64
	if err := row.Scan(&total); err != nil {
		return 0, classify("aggregate", err)
	}
	if !total.Valid {
		return 0, ErrNotFound
	}
	return total.Float64, nil
}
