// Package tenant resolves the single tenant a server process serves and
// scopes every content query to it.
package tenant

import (
	"strings"

	"github.com/pagecontent/internal/config"
	"gorm.io/gorm"
)

// Scope identifies the tenant all page queries are restricted to.
type Scope string

// Resolve returns the tenant scope for the lifetime of the process.
func Resolve(cfg config.AppConfig) (Scope, error) {
	id := strings.TrimSpace(cfg.TenantID)
	if id == "" {
		return "", config.ErrTenantMissing
	}
	return Scope(id), nil
}

func (s Scope) String() string {
	return string(s)
}

// Where returns a gorm scope restricting a query to this tenant. An empty
// scope matches no rows.
func (s Scope) Where(column string) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		if s == "" {
			return tx.Where("1 = 0")
		}
		return tx.Where(column+" = ?", string(s))
	}
}
