// Package seed loads page fixtures into the content tables.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/pagecontent/internal/db"
	"github.com/pagecontent/internal/tenant"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

var (
	ErrTenantRequired = errors.New("fixture tenant is required")
	ErrPageIdentity   = errors.New("page needs a name")
)

// Fixture is the on-disk description of one tenant's pages.
type Fixture struct {
	Tenant string        `yaml:"tenant"`
	Pages  []PageFixture `yaml:"pages"`
}

// PageFixture describes one page and its layout. Layout is any YAML value
// and is stored JSON-encoded; LayoutRaw is stored verbatim and wins when
// both are set. A page with neither gets no layout row.
type PageFixture struct {
	Name            string  `yaml:"name"`
	Slug            string  `yaml:"slug"`
	MetaTitle       string  `yaml:"meta_title"`
	MetaDescription string  `yaml:"meta_description"`
	MetaKeywords    string  `yaml:"meta_keywords"`
	Layout          any     `yaml:"layout"`
	LayoutRaw       *string `yaml:"layout_raw"`
}

// Result counts what Apply changed.
type Result struct {
	Created int
	Updated int
	Layouts int
}

// Decode parses a YAML fixture.
func Decode(r io.Reader) (Fixture, error) {
	var fixture Fixture
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&fixture); err != nil {
		return Fixture{}, fmt.Errorf("decode fixture: %w", err)
	}
	return fixture, nil
}

// Validate checks the fixture before anything is written.
func (f Fixture) Validate() error {
	if strings.TrimSpace(f.Tenant) == "" {
		return ErrTenantRequired
	}
	for i, page := range f.Pages {
		if strings.TrimSpace(page.Name) == "" {
			return fmt.Errorf("page %d: %w", i, ErrPageIdentity)
		}
	}
	return nil
}

// Apply upserts every page of the fixture and its layout in one
// transaction. Pages are matched on tenant, name and slug.
func Apply(ctx context.Context, gdb *gorm.DB, fixture Fixture) (Result, error) {
	var result Result
	if err := fixture.Validate(); err != nil {
		return result, err
	}
	scope := tenant.Scope(strings.TrimSpace(fixture.Tenant))

	err := gdb.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, item := range fixture.Pages {
			created, err := upsertPage(tx, scope, item)
			if err != nil {
				return err
			}
			if created.isNew {
				result.Created++
			} else {
				result.Updated++
			}

			payload, err := layoutPayload(item)
			if err != nil {
				return fmt.Errorf("page %q: %w", item.Name, err)
			}
			if payload == nil {
				continue
			}
			if err := upsertLayout(tx, created.page.ID, payload); err != nil {
				return err
			}
			result.Layouts++
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	return result, nil
}

type upserted struct {
	page  db.Page
	isNew bool
}

func upsertPage(tx *gorm.DB, scope tenant.Scope, item PageFixture) (upserted, error) {
	name := strings.TrimSpace(item.Name)
	slug := strings.TrimSpace(item.Slug)

	var page db.Page
	err := tx.Scopes(scope.Where("tenant_id")).
		Where("page_name = ? AND slug = ?", name, slug).
		Take(&page).Error
	isNew := errors.Is(err, gorm.ErrRecordNotFound)
	if err != nil && !isNew {
		return upserted{}, fmt.Errorf("find page %q: %w", name, err)
	}

	page.TenantID = scope.String()
	page.Name = name
	page.Slug = slug
	page.MetaTitle = strings.TrimSpace(item.MetaTitle)
	page.MetaDescription = strings.TrimSpace(item.MetaDescription)
	page.MetaKeywords = strings.TrimSpace(item.MetaKeywords)

	if err := tx.Save(&page).Error; err != nil {
		return upserted{}, fmt.Errorf("save page %q: %w", name, err)
	}
	return upserted{page: page, isNew: isNew}, nil
}

func upsertLayout(tx *gorm.DB, pageID uint, payload *string) error {
	var row db.PageLayout
	err := tx.Where("page_id = ?", pageID).Take(&row).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("find layout for page %d: %w", pageID, err)
	}
	row.PageID = pageID
	row.LayoutJSON = payload
	if err := tx.Save(&row).Error; err != nil {
		return fmt.Errorf("save layout for page %d: %w", pageID, err)
	}
	return nil
}

func layoutPayload(item PageFixture) (*string, error) {
	if item.LayoutRaw != nil {
		raw := *item.LayoutRaw
		return &raw, nil
	}
	if item.Layout == nil {
		return nil, nil
	}
	encoded, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(item.Layout)
	if err != nil {
		return nil, fmt.Errorf("encode layout: %w", err)
	}
	text := string(encoded)
	return &text, nil
}
