package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/devmart/internal/auth"
	"github.com/devmart/internal/config"
	"github.com/devmart/internal/db"
	"github.com/devmart/internal/handler"
	"github.com/devmart/internal/job"
	"github.com/devmart/internal/model"
	"github.com/devmart/internal/notify"
	"github.com/devmart/internal/repository"
	"github.com/devmart/internal/router"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type e2eSuite struct {
	handler   http.Handler
	public    httpClient
	admin     httpClient
	baseURL   string
	adminPass string
	jobs      *job.InlineDispatcher
	outbox    *outbox
	published *model.Service
	draft     *model.Service
}

type httpClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type localClient struct {
	handler http.Handler
	jar     http.CookieJar
}

func newLocalClient(handler http.Handler, withJar bool) *localClient {
	var jar http.CookieJar
	if withJar {
		if j, err := cookiejar.New(nil); err == nil {
			jar = j
		}
	}
	return &localClient{handler: handler, jar: jar}
}

func (c *localClient) Do(req *http.Request) (*http.Response, error) {
	if c.jar != nil {
		for _, cookie := range c.jar.Cookies(req.URL) {
			req.AddCookie(cookie)
		}
	}
	w := httptest.NewRecorder()
	c.handler.ServeHTTP(w, req)
	resp := w.Result()
	if c.jar != nil {
		c.jar.SetCookies(req.URL, resp.Cookies())
	}
	return resp, nil
}

// outbox 记录发出的通知邮件
type outbox struct {
	mu       sync.Mutex
	subjects []string
}

func (o *outbox) Send(_ context.Context, _, subject, _ string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.subjects = append(o.subjects, subject)
	return nil
}

func (o *outbox) sent() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.subjects...)
}

func TestE2E_AllInterfaces(t *testing.T) {
	suite := newE2ESuite(t)

	t.Run("public endpoints", suite.testPublicEndpoints)
	t.Run("lead submission", suite.testLeadSubmission)
	suite.login(t)
	t.Run("admin content apis", suite.testAdminContentAPIs)
	t.Run("admin lead apis", suite.testAdminLeadAPIs)
	t.Run("admin settings", suite.testAdminSettings)
	t.Run("media upload", suite.testMediaUpload)
	t.Run("logout", suite.testLogout)
}

func newE2ESuite(t *testing.T) *e2eSuite {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb, err := gorm.Open(sqlite.Open("file:devmart-e2e?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}
	if err := db.EnsureUser(gdb, "admin", "e2e-secret"); err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	reg := repository.NewRegistry(gdb, auth.ContextSession{}, zerolog.Nop())
	ctx := context.Background()

	published, err := reg.Services().Create(ctx, model.CreateServiceInput{
		Slug: "web-design", Title: "Web Design", Summary: "Sites that sell", Status: model.StatusPublished,
	})
	if err != nil {
		t.Fatalf("failed to seed published service: %v", err)
	}
	draft, err := reg.Services().Create(ctx, model.CreateServiceInput{Slug: "seo", Title: "SEO"})
	if err != nil {
		t.Fatalf("failed to seed draft service: %v", err)
	}
	if _, err := reg.BlogPosts().Create(ctx, model.CreateBlogPostInput{
		Slug: "hello-world", Title: "Hello world", Body: "## Welcome\n\nFirst post.", Status: model.StatusPublished,
	}); err != nil {
		t.Fatalf("failed to seed blog post: %v", err)
	}
	if _, err := reg.FAQs().Create(ctx, model.CreateFAQInput{Category: "General", Question: "Where?", Answer: "Paramaribo"}); err != nil {
		t.Fatalf("failed to seed faq: %v", err)
	}

	cfg := config.AppConfig{
		Env:           "test",
		SessionSecret: "test-session-secret",
		UploadDir:     t.TempDir(),
		UploadURLPath: "/uploads",
		SiteBaseURL:   "http://example.test",
	}

	box := &outbox{}
	mailer := notify.NewMailer(box, "sales@example.test", zerolog.Nop())
	jobs := job.NewInlineDispatcher(mailer, zerolog.Nop())
	t.Cleanup(func() {
		jobs.Wait()
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})

	api := handler.NewAPI(gdb, reg, jobs, cfg, zerolog.Nop())
	engine := router.SetupRouter(api, cfg, zerolog.Nop())

	return &e2eSuite{
		handler:   engine,
		public:    newLocalClient(engine, false),
		admin:     newLocalClient(engine, true),
		baseURL:   "http://example.test",
		adminPass: "e2e-secret",
		jobs:      jobs,
		outbox:    box,
		published: published,
		draft:     draft,
	}
}

func (s *e2eSuite) login(t *testing.T) {
	t.Helper()
	form := url.Values{
		"username": {"admin"},
		"password": {s.adminPass},
	}

	resp := s.mustRequest(t, s.admin, http.MethodPost, "/admin/login", strings.NewReader(form.Encode()), map[string]string{
		"Content-Type": "application/x-www-form-urlencoded",
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login failed, status %d", resp.StatusCode)
	}
}

func (s *e2eSuite) testPublicEndpoints(t *testing.T) {
	check := func(name, path, expect string, code int) {
		t.Helper()
		resp := s.mustRequest(t, s.public, http.MethodGet, path, nil, nil)
		defer resp.Body.Close()
		if resp.StatusCode != code {
			t.Fatalf("%s: expected status %d, got %d", name, code, resp.StatusCode)
		}
		body := readBody(t, resp)
		if expect != "" && !strings.Contains(body, expect) {
			t.Fatalf("%s: response does not contain %q", name, expect)
		}
	}

	check("ping", "/ping", "pong", http.StatusOK)
	check("services", "/api/services", `"slug":"web-design"`, http.StatusOK)
	check("service detail", "/api/services/"+s.published.Slug, "Sites that sell", http.StatusOK)
	check("draft service", "/api/services/"+s.draft.Slug, "", http.StatusNotFound)
	check("blog detail", "/api/blog/hello-world", `\u003ch2\u003eWelcome\u003c/h2\u003e`, http.StatusOK)
	check("faqs", "/api/faqs", `"category":"General"`, http.StatusOK)
	check("settings", "/api/settings", `"site_name":"Devmart"`, http.StatusOK)
	check("team", "/api/team", `"items":[]`, http.StatusOK)
	check("projects", "/api/projects", `"items":[]`, http.StatusOK)
	check("robots", "/robots.txt", "User-agent", http.StatusOK)
	check("sitemap", "/sitemap.xml", "<urlset", http.StatusOK)

	resp := s.mustRequest(t, s.public, http.MethodGet, "/api/services", nil, nil)
	defer resp.Body.Close()
	if body := readBody(t, resp); strings.Contains(body, `"slug":"seo"`) {
		t.Fatalf("public services must not list drafts: %s", body)
	}

	resp = s.mustRequest(t, s.public, http.MethodGet, "/admin/api/dashboard", nil, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("dashboard without session expected 401, got %d", resp.StatusCode)
	}
}

func (s *e2eSuite) testLeadSubmission(t *testing.T) {
	resp := s.mustRequestJSON(t, s.public, http.MethodPost, "/api/leads", map[string]interface{}{
		"name":  "Ann",
		"email": "not-an-email",
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("invalid lead expected 400, got %d", resp.StatusCode)
	}

	resp = s.mustRequestJSON(t, s.public, http.MethodPost, "/api/leads", map[string]interface{}{
		"name":    "Ann",
		"email":   "ann@example.com",
		"subject": "New website",
		"message": "We need a new website.",
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("submit lead expected 201, got %d", resp.StatusCode)
	}

	s.jobs.Wait()
	sent := s.outbox.sent()
	if len(sent) != 1 || !strings.Contains(sent[0], "New website") {
		t.Fatalf("expected one notification about the lead, got %v", sent)
	}
}

func (s *e2eSuite) testAdminContentAPIs(t *testing.T) {
	resp := s.mustRequest(t, s.admin, http.MethodGet, "/admin/api/dashboard", nil, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("dashboard expected 200, got %d", resp.StatusCode)
	}
	var dashboard struct {
		Counts map[string]int64 `json:"counts"`
	}
	decodeJSON(t, resp, &dashboard)
	if dashboard.Counts["services"] != 2 || dashboard.Counts["blog_posts"] != 1 {
		t.Fatalf("unexpected dashboard counts %v", dashboard.Counts)
	}

	resp = s.mustRequest(t, s.admin, http.MethodGet, "/admin/api/services?status=draft", nil, nil)
	defer resp.Body.Close()
	var drafts struct {
		Items []model.Service `json:"items"`
		Total int64           `json:"total"`
	}
	decodeJSON(t, resp, &drafts)
	if drafts.Total != 1 || len(drafts.Items) != 1 || drafts.Items[0].ID != s.draft.ID {
		t.Fatalf("unexpected draft listing %+v", drafts)
	}

	resp = s.mustRequestJSON(t, s.admin, http.MethodPut, "/admin/api/services/"+s.draft.ID, map[string]interface{}{
		"status": "published",
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("publish service expected 200, got %d", resp.StatusCode)
	}
	var updated struct {
		Item model.Service `json:"item"`
	}
	decodeJSON(t, resp, &updated)
	if updated.Item.Status != model.StatusPublished || updated.Item.UpdatedBy == "" {
		t.Fatalf("unexpected updated service %+v", updated.Item)
	}

	resp = s.mustRequestJSON(t, s.admin, http.MethodPost, "/admin/api/projects", map[string]interface{}{
		"slug":     "bank-portal",
		"title":    "Bank portal",
		"tech":     []string{"Go"},
		"featured": true,
		"status":   "published",
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create project expected 201, got %d", resp.StatusCode)
	}

	resp = s.mustRequestJSON(t, s.admin, http.MethodPost, "/admin/api/team", map[string]interface{}{
		"slug": "ravi",
		"name": "Ravi",
		"role": "Founder",
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create team member expected 201, got %d", resp.StatusCode)
	}

	resp = s.mustRequestJSON(t, s.admin, http.MethodPost, "/admin/api/faqs", map[string]interface{}{
		"category": "Pricing",
		"question": "Fixed quotes?",
		"answer":   "Yes.",
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create faq expected 201, got %d", resp.StatusCode)
	}

	resp = s.mustRequest(t, s.admin, http.MethodGet, "/admin/api/faqs/categories", nil, nil)
	defer resp.Body.Close()
	var categories struct {
		Items []string `json:"items"`
	}
	decodeJSON(t, resp, &categories)
	if strings.Join(categories.Items, ",") != "General,Pricing" {
		t.Fatalf("unexpected categories %v", categories.Items)
	}

	resp = s.mustRequestJSON(t, s.admin, http.MethodPost, "/admin/api/blog", map[string]interface{}{
		"slug":  "hello-world",
		"title": "Duplicate",
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate blog slug expected 409, got %d", resp.StatusCode)
	}

	resp = s.mustRequest(t, s.public, http.MethodGet, "/sitemap.xml", nil, nil)
	defer resp.Body.Close()
	body := readBody(t, resp)
	for _, loc := range []string{"/services/seo", "/projects/bank-portal", "/team/ravi", "/blog/hello-world"} {
		if !strings.Contains(body, "<loc>"+s.baseURL+loc+"</loc>") {
			t.Fatalf("sitemap missing %s:\n%s", loc, body)
		}
	}
}

func (s *e2eSuite) testAdminLeadAPIs(t *testing.T) {
	resp := s.mustRequest(t, s.admin, http.MethodGet, "/admin/api/leads?status=new", nil, nil)
	defer resp.Body.Close()
	var leads struct {
		Items []model.Lead `json:"items"`
		Total int64        `json:"total"`
	}
	decodeJSON(t, resp, &leads)
	if leads.Total != 1 || len(leads.Items) != 1 {
		t.Fatalf("expected one new lead, got %+v", leads)
	}
	leadID := leads.Items[0].ID

	resp = s.mustRequestJSON(t, s.admin, http.MethodPatch, "/admin/api/leads/"+leadID+"/status?status=new", map[string]interface{}{
		"status": "contacted",
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update lead status expected 200, got %d", resp.StatusCode)
	}
	var changed struct {
		Item  model.Lead   `json:"item"`
		Items []model.Lead `json:"items"`
	}
	decodeJSON(t, resp, &changed)
	if changed.Item.Status != model.LeadStatusContacted {
		t.Fatalf("unexpected lead status %q", changed.Item.Status)
	}
	// 每个请求按自身的查询条件刷新列表：status=new 下已无线索
	if len(changed.Items) != 0 {
		t.Fatalf("expected refreshed new-lead list to be empty, got %d", len(changed.Items))
	}

	resp = s.mustRequest(t, s.admin, http.MethodGet, "/admin/api/leads/export", nil, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("export expected 200, got %d", resp.StatusCode)
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, "devmart-leads-") {
		t.Fatalf("unexpected content disposition %q", cd)
	}
	body := readBody(t, resp)
	lines := strings.Split(strings.TrimSpace(body), "\n")
	if len(lines) != 2 || !strings.Contains(lines[1], "ann@example.com") || !strings.Contains(lines[1], "contacted") {
		t.Fatalf("unexpected csv export:\n%s", body)
	}
}

func (s *e2eSuite) testAdminSettings(t *testing.T) {
	resp := s.mustRequestJSON(t, s.admin, http.MethodPut, "/admin/api/settings", map[string]interface{}{
		"site_name":     "Devmart Suriname",
		"primary_color": "#ff6600",
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update settings expected 200, got %d", resp.StatusCode)
	}

	resp = s.mustRequestJSON(t, s.admin, http.MethodPut, "/admin/api/settings", map[string]interface{}{
		"primary_color": "orange",
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("invalid color expected 400, got %d", resp.StatusCode)
	}

	resp = s.mustRequest(t, s.public, http.MethodGet, "/api/settings", nil, nil)
	defer resp.Body.Close()
	var settings struct {
		Item model.Settings `json:"item"`
	}
	decodeJSON(t, resp, &settings)
	if settings.Item.SiteName != "Devmart Suriname" || settings.Item.PrimaryColor != "#ff6600" {
		t.Fatalf("unexpected public settings %+v", settings.Item)
	}
}

func (s *e2eSuite) testMediaUpload(t *testing.T) {
	resp := s.uploadTestImage(t)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("upload expected 201, got %d: %s", resp.StatusCode, readBody(t, resp))
	}
	var uploaded struct {
		Item model.Media `json:"item"`
	}
	decodeJSON(t, resp, &uploaded)
	if uploaded.Item.Width != 4 || uploaded.Item.Height != 4 || uploaded.Item.Type != "image/png" {
		t.Fatalf("unexpected media %+v", uploaded.Item)
	}

	resp = s.mustRequest(t, s.public, http.MethodGet, uploaded.Item.URL, nil, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("uploaded file expected 200, got %d", resp.StatusCode)
	}

	resp = s.mustRequest(t, s.admin, http.MethodGet, "/admin/api/media/folders", nil, nil)
	defer resp.Body.Close()
	var folders struct {
		Items []string `json:"items"`
	}
	decodeJSON(t, resp, &folders)
	if len(folders.Items) != 1 || folders.Items[0] != "general" {
		t.Fatalf("unexpected folders %v", folders.Items)
	}

	resp = s.mustRequest(t, s.admin, http.MethodDelete, "/admin/api/media/"+uploaded.Item.ID, nil, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete media expected 200, got %d", resp.StatusCode)
	}
}

func (s *e2eSuite) testLogout(t *testing.T) {
	resp := s.mustRequest(t, s.admin, http.MethodGet, "/admin/logout", nil, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("logout expected 200, got %d", resp.StatusCode)
	}

	resp = s.mustRequest(t, s.admin, http.MethodGet, "/admin/api/dashboard", nil, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("dashboard after logout expected 401, got %d", resp.StatusCode)
	}
}

func (s *e2eSuite) uploadTestImage(t *testing.T) *http.Response {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.RGBA{R: 10, G: 20, B: 200, A: 255})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	partHeader := textproto.MIMEHeader{}
	partHeader.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, "file", "test.png"))
	partHeader.Set("Content-Type", "image/png")
	part, err := writer.CreatePart(partHeader)
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write(buf.Bytes()); err != nil {
		t.Fatalf("failed to write image: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}

	headers := map[string]string{
		"Content-Type": writer.FormDataContentType(),
	}
	return s.mustRequest(t, s.admin, http.MethodPost, "/admin/api/media/upload", body, headers)
}

func (s *e2eSuite) mustRequest(t *testing.T, client httpClient, method, path string, body io.Reader, headers map[string]string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, s.baseURL+path, body)
	if err != nil {
		t.Fatalf("failed to build request %s %s: %v", method, path, err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request %s %s failed: %v", method, path, err)
	}
	return resp
}

func (s *e2eSuite) mustRequestJSON(t *testing.T, client httpClient, method, path string, payload map[string]interface{}) *http.Response {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}
	headers := map[string]string{"Content-Type": "application/json"}
	return s.mustRequest(t, client, method, path, bytes.NewReader(data), headers)
}

func decodeJSON(t *testing.T, resp *http.Response, dst interface{}) {
	t.Helper()
	body := readBody(t, resp)
	if err := json.Unmarshal([]byte(body), dst); err != nil {
		t.Fatalf("failed to decode json: %v\nbody=%s", err, body)
	}
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	return string(data)
}
