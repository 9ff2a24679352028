package db

import "gorm.io/gorm"

// Page represents a CMS-authored content page owned by one tenant.
// Slug uniqueness per tenant is intended but not enforced; legacy rows may
// carry duplicates.
type Page struct {
	gorm.Model
	TenantID        string `gorm:"size:100;not null;index:idx_pages_tenant_slug,priority:1;index:idx_pages_tenant_name,priority:1"`
	Name            string `gorm:"column:page_name;size:255;not null;index:idx_pages_tenant_name,priority:2"`
	Slug            string `gorm:"size:255;index:idx_pages_tenant_slug,priority:2"`
	MetaTitle       string `gorm:"size:255"`
	MetaDescription string `gorm:"type:text"`
	MetaKeywords    string `gorm:"type:text"`
}

// PageLayout holds the stored layout payload for a page. LayoutJSON is kept
// as text exactly as the editor wrote it; nil means the payload is absent.
type PageLayout struct {
	gorm.Model
	PageID     uint    `gorm:"uniqueIndex;not null"`
	LayoutJSON *string `gorm:"column:layout_json;type:text"`
}

// TableName keeps the table name stable across dialects.
func (PageLayout) TableName() string {
	return "page_layouts"
}
