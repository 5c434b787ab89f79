package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/devmart/internal/auth"
	"github.com/devmart/internal/config"
	"github.com/devmart/internal/db"
	"github.com/devmart/internal/errs"
	"github.com/devmart/internal/model"
	"github.com/devmart/internal/repository"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbSeq atomic.Int64

type recordingDispatcher struct {
	mu    sync.Mutex
	leads []model.Lead
}

func (d *recordingDispatcher) DispatchLead(_ context.Context, lead model.Lead) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.leads = append(d.leads, lead)
}

type testEnv struct {
	api    *API
	db     *gorm.DB
	jobs   *recordingDispatcher
	engine *gin.Engine
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:handler-%d?mode=memory&cache=shared", dbSeq.Add(1))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	if err := db.EnsureUser(gdb, "admin", "secret-pass"); err != nil {
		t.Fatalf("failed to seed admin: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})

	cfg := config.AppConfig{
		SiteBaseURL:   "https://devmart.sr",
		UploadDir:     t.TempDir(),
		UploadURLPath: "/static/uploads",
	}
	jobs := &recordingDispatcher{}
	reg := repository.NewRegistry(gdb, auth.ContextSession{}, zerolog.Nop())
	api := NewAPI(gdb, reg, jobs, cfg, zerolog.Nop())
	api.now = func() time.Time { return time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC) }

	r := gin.New()
	r.Use(sessions.Sessions("test_session", cookie.NewStore([]byte("test-secret"))))
	r.GET("/api/services/:slug", api.GetService)
	r.GET("/api/blog/:slug", api.GetBlogPost)
	r.GET("/api/faqs", api.ListFAQs)
	r.GET("/api/settings", api.GetSettings)
	r.POST("/api/leads", api.SubmitLead)
	r.GET("/sitemap.xml", api.Sitemap)
	r.POST("/admin/login", api.Login)
	admin := r.Group("/admin/api", AuthRequired())
	admin.GET("/dashboard", api.Dashboard)
	admin.GET("/services", api.AdminListServices)
	admin.POST("/services", api.AdminCreateService)
	admin.PUT("/services/:id", api.AdminUpdateService)
	admin.DELETE("/services/:id", api.AdminDeleteService)
	admin.POST("/blog", api.AdminCreateBlogPost)
	admin.GET("/leads/export", api.AdminExportLeads)
	admin.PATCH("/leads/:id/status", api.AdminUpdateLeadStatus)
	admin.POST("/media/upload", api.UploadMedia)
	admin.PUT("/settings", api.AdminUpdateSettings)

	return &testEnv{api: api, db: gdb, jobs: jobs, engine: r}
}

func (e *testEnv) do(t *testing.T, method, target string, body any, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	rr := httptest.NewRecorder()
	e.engine.ServeHTTP(rr, req)
	return rr
}

func (e *testEnv) login(t *testing.T) []*http.Cookie {
	t.Helper()
	rr := e.do(t, http.MethodPost, "/admin/login", gin.H{"username": "admin", "password": "secret-pass"}, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("login failed with %d: %s", rr.Code, rr.Body.String())
	}
	cookies := rr.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected session cookie")
	}
	return cookies
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), dst); err != nil {
		t.Fatalf("failed to decode response %q: %v", rr.Body.String(), err)
	}
}

func TestSubmitLeadValidation(t *testing.T) {
	env := setupTestEnv(t)

	rr := env.do(t, http.MethodPost, "/api/leads", gin.H{"name": "Ann", "email": "nope", "message": "hi"}, nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}

	var resp struct {
		Error  string            `json:"error"`
		Errors []errs.FieldError `json:"errors"`
	}
	decode(t, rr, &resp)
	if !strings.HasPrefix(resp.Error, "Validation failed") {
		t.Fatalf("unexpected error message %q", resp.Error)
	}
	if len(resp.Errors) != 1 || resp.Errors[0].Field != "email" {
		t.Fatalf("expected email field error, got %+v", resp.Errors)
	}
	if len(env.jobs.leads) != 0 {
		t.Fatal("expected no notification for rejected lead")
	}
}

func TestSubmitLeadDispatchesNotification(t *testing.T) {
	env := setupTestEnv(t)

	rr := env.do(t, http.MethodPost, "/api/leads", gin.H{"name": "Ann", "email": "ann@example.com", "message": "Need a site"}, nil)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	if len(env.jobs.leads) != 1 || env.jobs.leads[0].Email != "ann@example.com" {
		t.Fatalf("expected one dispatched lead, got %+v", env.jobs.leads)
	}
}

func TestAdminRequiresSession(t *testing.T) {
	env := setupTestEnv(t)

	rr := env.do(t, http.MethodGet, "/admin/api/services", nil, nil)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}

	rr = env.do(t, http.MethodPost, "/admin/login", gin.H{"username": "admin", "password": "wrong"}, nil)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad password, got %d", rr.Code)
	}
}

func TestAdminCreateServiceReturnsFreshList(t *testing.T) {
	env := setupTestEnv(t)
	cookies := env.login(t)

	rr := env.do(t, http.MethodPost, "/admin/api/services", gin.H{"slug": "web-design", "title": "Web Design"}, cookies)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Item  model.Service   `json:"item"`
		Items []model.Service `json:"items"`
	}
	decode(t, rr, &resp)
	if resp.Item.Slug != "web-design" {
		t.Fatalf("unexpected item %+v", resp.Item)
	}
	if len(resp.Items) != 1 || resp.Items[0].Slug != "web-design" {
		t.Fatalf("expected refetched list to contain the new service, got %+v", resp.Items)
	}
	if resp.Item.CreatedBy == "" {
		t.Fatal("expected created_by to be stamped from the session")
	}

	rr = env.do(t, http.MethodPost, "/admin/api/services", gin.H{"slug": "web-design", "title": "Again"}, cookies)
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate slug, got %d", rr.Code)
	}

	rr = env.do(t, http.MethodPut, "/admin/api/services/missing", gin.H{"title": "x"}, cookies)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing service, got %d", rr.Code)
	}

	rr = env.do(t, http.MethodDelete, "/admin/api/services/"+resp.Item.ID, nil, cookies)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 on delete, got %d", rr.Code)
	}
	var afterDelete struct {
		Items []model.Service `json:"items"`
	}
	decode(t, rr, &afterDelete)
	if len(afterDelete.Items) != 0 {
		t.Fatalf("expected empty list after delete, got %+v", afterDelete.Items)
	}
}

func TestDashboardCounts(t *testing.T) {
	env := setupTestEnv(t)
	cookies := env.login(t)

	env.do(t, http.MethodPost, "/api/leads", gin.H{"name": "Ann", "email": "ann@example.com", "message": "hi"}, nil)

	rr := env.do(t, http.MethodGet, "/admin/api/dashboard", nil, cookies)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var resp struct {
		Username string           `json:"username"`
		Counts   map[string]int64 `json:"counts"`
	}
	decode(t, rr, &resp)
	if resp.Username != "admin" || resp.Counts["leads"] != 1 || resp.Counts["new_leads"] != 1 {
		t.Fatalf("unexpected dashboard %+v", resp)
	}
}

func TestPublicServiceHidesDrafts(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	if _, err := env.api.reg.Services().Create(ctx, model.CreateServiceInput{Slug: "draft-one", Title: "Draft"}); err != nil {
		t.Fatalf("failed to seed service: %v", err)
	}

	rr := env.do(t, http.MethodGet, "/api/services/draft-one", nil, nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for draft, got %d", rr.Code)
	}
	rr = env.do(t, http.MethodGet, "/api/services/unknown", nil, nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown slug, got %d", rr.Code)
	}
}

func TestGetBlogPostRendersMarkdownAndCountsViews(t *testing.T) {
	env := setupTestEnv(t)
	cookies := env.login(t)

	rr := env.do(t, http.MethodPost, "/admin/api/blog", gin.H{
		"slug":   "hello",
		"title":  "Hello",
		"body":   "# Title\n\n**bold**\n\n<script>alert(1)</script>",
		"status": "published",
	}, cookies)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}

	for i := 1; i <= 2; i++ {
		rr = env.do(t, http.MethodGet, "/api/blog/hello", nil, nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rr.Code)
		}
		var resp struct {
			Item struct {
				Views    int64  `json:"views"`
				BodyHTML string `json:"body_html"`
			} `json:"item"`
		}
		decode(t, rr, &resp)
		if resp.Item.Views != int64(i) {
			t.Fatalf("expected %d views, got %d", i, resp.Item.Views)
		}
		if !strings.Contains(resp.Item.BodyHTML, "<strong>bold</strong>") {
			t.Fatalf("expected rendered markdown, got %q", resp.Item.BodyHTML)
		}
		if strings.Contains(resp.Item.BodyHTML, "<script>") {
			t.Fatalf("expected script to be stripped, got %q", resp.Item.BodyHTML)
		}
	}
}

func TestExportLeadsCSV(t *testing.T) {
	env := setupTestEnv(t)
	cookies := env.login(t)

	env.do(t, http.MethodPost, "/api/leads", gin.H{"name": "Doe, Jane", "email": "jane@example.com", "message": "hi"}, nil)

	rr := env.do(t, http.MethodGet, "/admin/api/leads/export", nil, cookies)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	disposition := rr.Header().Get("Content-Disposition")
	if disposition != `attachment; filename="devmart-leads-2024-03-01.csv"` {
		t.Fatalf("unexpected disposition %q", disposition)
	}
	body := rr.Body.String()
	if !strings.HasPrefix(body, "Name,Email,Phone,Subject,Message,Source,Status,Date\n") {
		t.Fatalf("unexpected csv header in %q", body)
	}
	if !strings.Contains(body, `"Doe, Jane",jane@example.com`) {
		t.Fatalf("expected quoted name in %q", body)
	}
}

func TestUpdateLeadStatus(t *testing.T) {
	env := setupTestEnv(t)
	cookies := env.login(t)

	lead, err := env.api.reg.Leads().Create(context.Background(), model.CreateLeadInput{Name: "Ann", Email: "ann@example.com", Message: "hi"})
	if err != nil {
		t.Fatalf("failed to seed lead: %v", err)
	}

	rr := env.do(t, http.MethodPatch, "/admin/api/leads/"+lead.ID+"/status", gin.H{"status": "contacted"}, cookies)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	rr = env.do(t, http.MethodPatch, "/admin/api/leads/"+lead.ID+"/status", gin.H{"status": "archived"}, cookies)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown status, got %d", rr.Code)
	}
}

func TestSettingsDefaultsAndUpdate(t *testing.T) {
	env := setupTestEnv(t)
	cookies := env.login(t)

	rr := env.do(t, http.MethodGet, "/api/settings", nil, nil)
	var resp struct {
		Item model.Settings `json:"item"`
	}
	decode(t, rr, &resp)
	if resp.Item.SiteName != "Devmart" {
		t.Fatalf("expected default settings, got %+v", resp.Item)
	}

	rr = env.do(t, http.MethodPut, "/admin/api/settings", gin.H{"theme": "dark"}, cookies)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	decode(t, rr, &resp)
	if resp.Item.Theme != "dark" || resp.Item.ID == "" {
		t.Fatalf("unexpected settings %+v", resp.Item)
	}
}

func TestUploadMediaReadsDimensions(t *testing.T) {
	env := setupTestEnv(t)
	cookies := env.login(t)

	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	img.Set(0, 0, color.White)
	var pngBytes bytes.Buffer
	if err := png.Encode(&pngBytes, img); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="Logo.PNG"`)
	header.Set("Content-Type", "image/png")
	part, err := mw.CreatePart(header)
	if err != nil {
		t.Fatalf("failed to create part: %v", err)
	}
	part.Write(pngBytes.Bytes())
	mw.WriteField("alt", "Logo")
	mw.WriteField("folder", "brand")
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/admin/api/media/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	rr := httptest.NewRecorder()
	env.engine.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	var resp struct {
		Item  model.Media   `json:"item"`
		Items []model.Media `json:"items"`
	}
	decode(t, rr, &resp)
	if resp.Item.Width != 3 || resp.Item.Height != 2 {
		t.Fatalf("expected 3x2, got %dx%d", resp.Item.Width, resp.Item.Height)
	}
	if !strings.HasPrefix(resp.Item.URL, "/static/uploads/20240301-") || !strings.HasSuffix(resp.Item.URL, ".png") {
		t.Fatalf("unexpected url %q", resp.Item.URL)
	}
	if resp.Item.Folder != "brand" || len(resp.Items) != 1 {
		t.Fatalf("unexpected media response %+v", resp)
	}
	if _, err := os.Stat(filepath.Join(env.api.uploadDir, filepath.Base(resp.Item.URL))); err != nil {
		t.Fatalf("expected uploaded file on disk: %v", err)
	}
}

func TestSitemapRoute(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	if _, err := env.api.reg.Services().Create(ctx, model.CreateServiceInput{Slug: "web-design", Title: "Web", Status: "published"}); err != nil {
		t.Fatalf("failed to seed service: %v", err)
	}

	rr := env.do(t, http.MethodGet, "/sitemap.xml", nil, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "<loc>https://devmart.sr/services/web-design</loc>") {
		t.Fatalf("expected service url in sitemap, got %s", rr.Body.String())
	}
}

func TestRespondErrMapsTimeout(t *testing.T) {
	gin.SetMode(gin.TestMode)
	a := &API{log: zerolog.Nop()}

	rr := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rr)
	a.respondErr(c, fmt.Errorf("read: %w", errs.ErrTimeout))
	if rr.Code != http.StatusGatewayTimeout {
		t.Fatalf("expected 504, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(rr)
	a.respondErr(c, errs.Wrap("fetch", "service", fmt.Errorf("disk I/O error")))
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Failed to fetch service: disk I/O error") {
		t.Fatalf("unexpected body %s", rr.Body.String())
	}
}

func TestRenderMarkdownSanitizes(t *testing.T) {
	out := renderMarkdown("[x](javascript:alert(1)) <img src=x onerror=alert(1)>")
	if strings.Contains(out, "javascript:") || strings.Contains(out, "onerror") {
		t.Fatalf("expected unsafe markup to be removed, got %q", out)
	}
	if renderMarkdown("   ") != "" {
		t.Fatal("expected empty output for blank input")
	}
}
