package handler

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/devmart/internal/hook"
	"github.com/devmart/internal/model"
	"github.com/devmart/internal/sitemap"
	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify, extension.Table),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)
	sanitizer = bluemonday.UGCPolicy()
)

// renderMarkdown 将 Markdown 渲染为经过清洗的 HTML
func renderMarkdown(source string) string {
	if strings.TrimSpace(source) == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(source), &buf); err != nil {
		return sanitizer.Sanitize(source)
	}
	return sanitizer.Sanitize(buf.String())
}

// publicFilter 公开接口只返回已发布内容，忽略调用方传入的状态
func publicFilter(f model.ListFilter) model.ListFilter {
	f.Status = model.StatusPublished
	return f
}

func (a *API) ListServices(c *gin.Context) {
	var filter model.ServiceFilter
	if !bindFilter(c, &filter) {
		return
	}
	filter.ListFilter = publicFilter(filter.ListFilter)

	items, err := hook.NewServices(a.reg, a.log).Apply(c.Request.Context(), filter)
	if err != nil {
		a.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (a *API) GetService(c *gin.Context) {
	item, err := a.reg.Services().FindBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		a.respondErr(c, err)
		return
	}
	if item == nil || item.Status != model.StatusPublished {
		respondNotFound(c, "service")
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item})
}

func (a *API) ListProjects(c *gin.Context) {
	var filter model.ProjectFilter
	if !bindFilter(c, &filter) {
		return
	}
	filter.ListFilter = publicFilter(filter.ListFilter)

	items, err := hook.NewProjects(a.reg, a.log).Apply(c.Request.Context(), filter)
	if err != nil {
		a.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (a *API) GetProject(c *gin.Context) {
	item, err := a.reg.Projects().FindBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		a.respondErr(c, err)
		return
	}
	if item == nil || item.Status != model.StatusPublished {
		respondNotFound(c, "project")
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item})
}

func (a *API) ListBlogPosts(c *gin.Context) {
	var filter model.BlogPostFilter
	if !bindFilter(c, &filter) {
		return
	}
	filter.ListFilter = publicFilter(filter.ListFilter)

	items, err := hook.NewBlogPosts(a.reg, a.log).Apply(c.Request.Context(), filter)
	if err != nil {
		a.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

type blogPostView struct {
	model.BlogPost
	BodyHTML string `json:"body_html"`
}

// GetBlogPost returns a published post with its rendered body and counts the view.
func (a *API) GetBlogPost(c *gin.Context) {
	ctx := c.Request.Context()
	post, err := a.reg.BlogPosts().FindBySlug(ctx, c.Param("slug"))
	if err != nil {
		a.respondErr(c, err)
		return
	}
	if post == nil || post.Status != model.StatusPublished {
		respondNotFound(c, "blog post")
		return
	}

	if err := a.reg.BlogPosts().IncrementViews(ctx, post.ID); err != nil {
		c.Error(err)
	} else {
		post.Views++
	}

	c.JSON(http.StatusOK, gin.H{"item": blogPostView{BlogPost: *post, BodyHTML: renderMarkdown(post.Body)}})
}

func (a *API) ListTeam(c *gin.Context) {
	var filter model.TeamFilter
	if !bindFilter(c, &filter) {
		return
	}
	filter.ListFilter = publicFilter(filter.ListFilter)

	items, err := hook.NewTeam(a.reg, a.log).Apply(c.Request.Context(), filter)
	if err != nil {
		a.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (a *API) GetTeamMember(c *gin.Context) {
	item, err := a.reg.Team().FindBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		a.respondErr(c, err)
		return
	}
	if item == nil || item.Status != model.StatusPublished {
		respondNotFound(c, "team member")
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item})
}

// ListFAQs returns published entries grouped by category.
func (a *API) ListFAQs(c *gin.Context) {
	var filter model.FAQFilter
	if !bindFilter(c, &filter) {
		return
	}
	filter.ListFilter = publicFilter(filter.ListFilter)
	if filter.Limit == 0 {
		filter.Limit = model.MaxLimit
	}

	h := hook.NewFAQs(a.reg, a.log)
	if _, err := h.Apply(c.Request.Context(), filter); err != nil {
		a.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"groups": h.Grouped()})
}

func (a *API) GetSettings(c *gin.Context) {
	current, err := hook.NewSettings(a.reg, a.log).Refresh(c.Request.Context())
	if err != nil {
		a.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": current})
}

// SubmitLead stores a contact form submission and triggers the admin
// notification. Delivery problems never fail the request.
func (a *API) SubmitLead(c *gin.Context) {
	var in model.CreateLeadInput
	if !bindJSON(c, &in, "invalid request body") {
		return
	}

	lead, err := a.reg.Leads().Create(c.Request.Context(), in)
	if err != nil {
		a.respondErr(c, err)
		return
	}

	a.jobs.DispatchLead(c.Request.Context(), *lead)
	c.JSON(http.StatusCreated, gin.H{"id": lead.ID, "message": "Thank you, we will get back to you soon."})
}

func (a *API) Sitemap(c *gin.Context) {
	body, err := sitemap.Build(c.Request.Context(), a.reg, a.baseURL, a.now())
	if err != nil {
		a.respondErr(c, err)
		return
	}
	c.Data(http.StatusOK, "application/xml; charset=utf-8", body)
}

func (a *API) Robots(c *gin.Context) {
	c.String(http.StatusOK, sitemap.Robots(a.baseURL))
}
