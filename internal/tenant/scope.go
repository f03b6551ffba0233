package tenant

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// column qualifies name with the table of the statement being built.
func column(name string) clause.Column {
	return clause.Column{Table: clause.CurrentTable, Name: name}
}

// Scope restricts a statement to the rows of one tenant. A malformed
// tenant id matches nothing.
func Scope(tenantID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		id, err := uuid.Parse(tenantID)
		if err != nil {
			return db.Where("1 = 0")
		}
		return db.Where(clause.Eq{Column: column("tenant_id"), Value: id})
	}
}

// ActiveOnly hides soft-deleted rows.
func ActiveOnly(db *gorm.DB) *gorm.DB {
	return db.Where(clause.Eq{Column: column("is_active"), Value: true})
}

// ByID matches the primary key of the current table.
func ByID(id string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(clause.Eq{Column: column("id"), Value: id})
	}
}
