package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pagecontent/internal/db"
	"github.com/pagecontent/internal/metrics"
	"github.com/pagecontent/internal/service"
	"github.com/pagecontent/internal/tenant"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T, scope string) (*API, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	gdb, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})

	pages := service.NewPageService(gdb, tenant.Scope(scope), []string{"Homepage"})
	return NewAPI(gdb, pages, Options{Tenant: scope, Metrics: metrics.NewRecorder(), StaticDir: t.TempDir()}), gdb
}

func seed(t *testing.T, gdb *gorm.DB, page db.Page, layoutJSON *string) {
	t.Helper()
	if err := gdb.Create(&page).Error; err != nil {
		t.Fatalf("failed to seed page: %v", err)
	}
	if layoutJSON != nil {
		if err := gdb.Create(&db.PageLayout{PageID: page.ID, LayoutJSON: layoutJSON}).Error; err != nil {
			t.Fatalf("failed to seed layout: %v", err)
		}
	}
}

func strPtr(s string) *string { return &s }

func performPageContent(api *API, slug string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/page-content/"+slug, nil)
	c.Params = gin.Params{{Key: "slug", Value: slug}}
	api.GetPageContent(c)
	return w
}

func TestGetPageContentAssemblesResponse(t *testing.T) {
	api, gdb := setupTestDB(t, "t1")
	seed(t, gdb, db.Page{TenantID: "t1", Name: "About Us", Slug: "about"}, strPtr(`"[{\"type\":\"Hero\"}]"`))

	w := performPageContent(api, "about")

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	want := map[string]any{
		"slug":       "about",
		"meta":       map[string]any{"title": "About Us", "description": "", "keywords": ""},
		"components": []any{map[string]any{"type": "Hero"}},
	}
	if fmt.Sprint(body) != fmt.Sprint(want) {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestGetHomeContentWrapsSingleComponent(t *testing.T) {
	api, gdb := setupTestDB(t, "t1")
	seed(t, gdb, db.Page{TenantID: "t1", Name: "Homepage", Slug: "", MetaTitle: "Welcome"}, strPtr(`{"type":"Hero"}`))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/home-content", nil)
	api.GetHomeContent(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var body service.PageContent
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body.Slug != "home" || body.Meta.Title != "Welcome" {
		t.Fatalf("unexpected response %+v", body)
	}
	if len(body.Components) != 1 || string(body.Components[0]) != `{"type":"Hero"}` {
		t.Fatalf("expected wrapped component, got %s", w.Body.String())
	}
}

func TestGetPageContentNotFound(t *testing.T) {
	api, gdb := setupTestDB(t, "t1")
	seed(t, gdb, db.Page{TenantID: "t2", Name: "Elsewhere", Slug: "missing-slug"}, strPtr(`[]`))
	seed(t, gdb, db.Page{TenantID: "t1", Name: "Draft", Slug: "draft"}, nil)

	w := performPageContent(api, "missing-slug")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", w.Code)
	}
	if strings.TrimSpace(w.Body.String()) != `{"error":"Page not found"}` {
		t.Fatalf("unexpected body %s", w.Body.String())
	}

	w = performPageContent(api, "draft")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 for missing layout, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"error"`) {
		t.Fatalf("expected error field, got %s", w.Body.String())
	}
}

type failingResolver struct{ err error }

func (f failingResolver) Resolve(context.Context, string) (*service.PageContent, error) {
	return nil, f.err
}

func (f failingResolver) ResolveHome(context.Context) (*service.PageContent, error) {
	return nil, f.err
}

func (f failingResolver) List(context.Context) ([]service.PageSummary, error) {
	return nil, f.err
}

func TestGetPageContentInternalError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	api := NewAPI(nil, failingResolver{err: errors.New("connection refused")}, Options{Tenant: "t1"})

	w := performPageContent(api, "about")

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body["error"] == "" || body["details"] != "connection refused" {
		t.Fatalf("unexpected error body %v", body)
	}

	w = httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/pages", nil)
	api.ListPages(c)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500 from list, got %d", w.Code)
	}
}

func TestListPages(t *testing.T) {
	api, gdb := setupTestDB(t, "t1")
	seed(t, gdb, db.Page{TenantID: "t1", Name: "About Us", Slug: "about"}, nil)
	seed(t, gdb, db.Page{TenantID: "t9", Name: "Hidden", Slug: "hidden"}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/pages", nil)
	api.ListPages(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var body struct {
		Pages []service.PageSummary `json:"pages"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(body.Pages) != 1 || body.Pages[0].Slug != "about" {
		t.Fatalf("unexpected pages %+v", body.Pages)
	}
}
