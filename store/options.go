package store

import "gorm.io/gorm"

// Expand names a reference field to resolve into its referenced entity in
// the result. Path may be a nested association path such as
// "OrderItems.Product.Category". A non-empty Selection restricts the
// columns loaded for the expanded entity; it must include the primary key
// and any foreign key GORM needs to stitch the association together.
type Expand struct {
	Path      string
	Selection []string
}

// GetOptions configures a read. Every field is independently optional; the
// zero value is a plain unfiltered, unsorted, unbounded query. Options
// compose onto a single query execution.
type GetOptions struct {
	// Filter applies equality constraints; a slice value becomes an
	// inclusion (IN) constraint. Keys are column names.
	Filter map[string]any

	// Selection is an inclusion projection of column names.
	Selection []string

	// Omit is an exclusion projection, used chiefly to keep sensitive
	// columns such as password_hash out of result rows.
	Omit []string

	// Sort lists ordering clauses, e.g. "date_ordered desc".
	Sort []string

	// Limit caps the result count; zero or negative means unbounded.
	Limit int

	// Expand lists reference fields to resolve in the result.
	Expand []Expand
}

// apply configures tx with every option that is set. Absent options are
// no-ops.
func (o GetOptions) apply(tx *gorm.DB) *gorm.DB {
	if len(o.Filter) > 0 {
		tx = tx.Where(o.Filter)
	}
	if len(o.Selection) > 0 {
		tx = tx.Select(o.Selection)
	}
	if len(o.Omit) > 0 {
		tx = tx.Omit(o.Omit...)
	}
	for _, clause := range o.Sort {
		tx = tx.Order(clause)
	}
	if o.Limit > 0 {
		tx = tx.Limit(o.Limit)
	}
	for _, e := range o.Expand {
		if len(e.Selection) > 0 {
			selection := e.Selection
			tx = tx.Preload(e.Path, func(db *gorm.DB) *gorm.DB {
				return db.Select(selection)
			})
		} else {
			tx = tx.Preload(e.Path)
		}
	}
	return tx
}
