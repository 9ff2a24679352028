package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pagecontent/internal/db"
	"github.com/pagecontent/internal/layout"
	"github.com/pagecontent/internal/tenant"
	"gorm.io/gorm"
)

// HomeToken is the request token that selects the tenant's home page.
const HomeToken = "home"

var (
	ErrPageNotFound   = errors.New("page not found")
	ErrLayoutNotFound = errors.New("page layout not found")
)

// PageService resolves tenant-scoped pages and their layouts.
type PageService struct {
	db        *gorm.DB
	tenant    tenant.Scope
	homeNames []string
}

// NewPageService returns a PageService bound to one tenant. homeNames are
// the reserved page names tried, in order, for the home page.
func NewPageService(gdb *gorm.DB, scope tenant.Scope, homeNames []string) *PageService {
	names := make([]string, 0, len(homeNames))
	for _, name := range homeNames {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			names = append(names, trimmed)
		}
	}
	if len(names) == 0 {
		names = []string{"Homepage"}
	}
	return &PageService{db: gdb, tenant: scope, homeNames: names}
}

// Tenant returns the scope every lookup is restricted to.
func (s *PageService) Tenant() tenant.Scope {
	return s.tenant
}

// Locate finds the page addressed by token. The token "home" is resolved by
// reserved page name, never by slug.
func (s *PageService) Locate(ctx context.Context, token string) (*db.Page, error) {
	slug := cleanToken(token)
	if slug == "" {
		return nil, ErrPageNotFound
	}

	if slug == HomeToken {
		return s.locateHome(ctx)
	}

	var page db.Page
	err := s.pages(ctx).
		Where("slug IN ?", []string{slug, "/" + slug}).
		Order("updated_at DESC").
		Order("id DESC").
		Take(&page).Error
	if err != nil {
		return nil, mapNotFound(err, ErrPageNotFound)
	}
	return &page, nil
}

func (s *PageService) locateHome(ctx context.Context) (*db.Page, error) {
	for _, name := range s.homeNames {
		var page db.Page
		err := s.pages(ctx).
			Where("page_name = ?", name).
			Order("updated_at DESC").
			Order("id DESC").
			Take(&page).Error
		if err == nil {
			return &page, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}
	return nil, ErrPageNotFound
}

// LoadLayout fetches the stored layout payload for a page without
// interpreting it.
func (s *PageService) LoadLayout(ctx context.Context, pageID uint) (layout.Raw, error) {
	var row db.PageLayout
	if err := s.db.WithContext(ctx).Where("page_id = ?", pageID).Take(&row).Error; err != nil {
		return layout.AbsentRaw(), mapNotFound(err, ErrLayoutNotFound)
	}
	return layout.FromStored(row.LayoutJSON), nil
}

// Resolve runs the full lookup for a slug or the home token and assembles
// the response.
func (s *PageService) Resolve(ctx context.Context, token string) (*PageContent, error) {
	page, err := s.Locate(ctx, token)
	if err != nil {
		return nil, err
	}

	raw, err := s.LoadLayout(ctx, page.ID)
	if err != nil {
		return nil, err
	}

	requested := cleanToken(token)
	content := Assemble(page, requested, layout.Normalize(raw))
	return &content, nil
}

// ResolveHome resolves the tenant's home page.
func (s *PageService) ResolveHome(ctx context.Context) (*PageContent, error) {
	return s.Resolve(ctx, HomeToken)
}

// PageSummary is a lightweight listing entry.
type PageSummary struct {
	Slug  string `json:"slug"`
	Name  string `json:"name"`
	Title string `json:"title"`
}

// List returns every page of the tenant ordered by name.
func (s *PageService) List(ctx context.Context) ([]PageSummary, error) {
	var pages []db.Page
	if err := s.pages(ctx).Order("page_name ASC").Order("id ASC").Find(&pages).Error; err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}

	summaries := make([]PageSummary, 0, len(pages))
	for i := range pages {
		meta := assembleMeta(&pages[i])
		summaries = append(summaries, PageSummary{
			Slug:  strings.TrimSpace(pages[i].Slug),
			Name:  pages[i].Name,
			Title: meta.Title,
		})
	}
	return summaries, nil
}

func (s *PageService) pages(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Model(&db.Page{}).Scopes(s.tenant.Where("tenant_id"))
}

func cleanToken(token string) string {
	return strings.Trim(strings.TrimSpace(token), "/")
}

func mapNotFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}
