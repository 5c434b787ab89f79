package handler

import (
	"net/http"

	"github.com/devmart/internal/export"
	"github.com/devmart/internal/hook"
	"github.com/devmart/internal/model"
	"github.com/gin-gonic/gin"
)

// 后台内容接口：每个请求构造自己的 hook，写操作返回 {item, items}，
// items 为按当前查询条件重新读取的列表。

func (a *API) servicesHook(c *gin.Context) (*hook.Services, model.ServiceFilter, bool) {
	var filter model.ServiceFilter
	if !bindFilter(c, &filter) {
		return nil, filter, false
	}
	h := hook.NewServices(a.reg, a.log)
	h.SetFilter(filter)
	return h, filter, true
}

func (a *API) AdminListServices(c *gin.Context) {
	if h, filter, ok := a.servicesHook(c); ok {
		handleList(a, c, h.Apply, filter, a.reg.Services().Count)
	}
}

func (a *API) AdminGetService(c *gin.Context) {
	handleGet(a, c, "service", a.reg.Services().FindByID)
}

func (a *API) AdminCreateService(c *gin.Context) {
	if h, _, ok := a.servicesHook(c); ok {
		handleCreate(a, c, h.CreateService)
	}
}

func (a *API) AdminUpdateService(c *gin.Context) {
	if h, _, ok := a.servicesHook(c); ok {
		handleUpdate(a, c, h.UpdateService)
	}
}

func (a *API) AdminDeleteService(c *gin.Context) {
	if h, _, ok := a.servicesHook(c); ok {
		handleDelete(a, c, h.DeleteService)
	}
}

func (a *API) projectsHook(c *gin.Context) (*hook.Projects, model.ProjectFilter, bool) {
	var filter model.ProjectFilter
	if !bindFilter(c, &filter) {
		return nil, filter, false
	}
	h := hook.NewProjects(a.reg, a.log)
	h.SetFilter(filter)
	return h, filter, true
}

func (a *API) AdminListProjects(c *gin.Context) {
	if h, filter, ok := a.projectsHook(c); ok {
		handleList(a, c, h.Apply, filter, a.reg.Projects().Count)
	}
}

func (a *API) AdminGetProject(c *gin.Context) {
	handleGet(a, c, "project", a.reg.Projects().FindByID)
}

func (a *API) AdminCreateProject(c *gin.Context) {
	if h, _, ok := a.projectsHook(c); ok {
		handleCreate(a, c, h.CreateProject)
	}
}

func (a *API) AdminUpdateProject(c *gin.Context) {
	if h, _, ok := a.projectsHook(c); ok {
		handleUpdate(a, c, h.UpdateProject)
	}
}

func (a *API) AdminDeleteProject(c *gin.Context) {
	if h, _, ok := a.projectsHook(c); ok {
		handleDelete(a, c, h.DeleteProject)
	}
}

func (a *API) blogPostsHook(c *gin.Context) (*hook.BlogPosts, model.BlogPostFilter, bool) {
	var filter model.BlogPostFilter
	if !bindFilter(c, &filter) {
		return nil, filter, false
	}
	h := hook.NewBlogPosts(a.reg, a.log)
	h.SetFilter(filter)
	return h, filter, true
}

func (a *API) AdminListBlogPosts(c *gin.Context) {
	if h, filter, ok := a.blogPostsHook(c); ok {
		handleList(a, c, h.Apply, filter, a.reg.BlogPosts().Count)
	}
}

func (a *API) AdminGetBlogPost(c *gin.Context) {
	handleGet(a, c, "blog post", a.reg.BlogPosts().FindByID)
}

func (a *API) AdminCreateBlogPost(c *gin.Context) {
	if h, _, ok := a.blogPostsHook(c); ok {
		handleCreate(a, c, h.CreateBlogPost)
	}
}

func (a *API) AdminUpdateBlogPost(c *gin.Context) {
	if h, _, ok := a.blogPostsHook(c); ok {
		handleUpdate(a, c, h.UpdateBlogPost)
	}
}

func (a *API) AdminDeleteBlogPost(c *gin.Context) {
	if h, _, ok := a.blogPostsHook(c); ok {
		handleDelete(a, c, h.DeleteBlogPost)
	}
}

func (a *API) teamHook(c *gin.Context) (*hook.Team, model.TeamFilter, bool) {
	var filter model.TeamFilter
	if !bindFilter(c, &filter) {
		return nil, filter, false
	}
	h := hook.NewTeam(a.reg, a.log)
	h.SetFilter(filter)
	return h, filter, true
}

func (a *API) AdminListTeam(c *gin.Context) {
	if h, filter, ok := a.teamHook(c); ok {
		handleList(a, c, h.Apply, filter, a.reg.Team().Count)
	}
}

func (a *API) AdminGetTeamMember(c *gin.Context) {
	handleGet(a, c, "team member", a.reg.Team().FindByID)
}

func (a *API) AdminCreateTeamMember(c *gin.Context) {
	if h, _, ok := a.teamHook(c); ok {
		handleCreate(a, c, h.CreateTeamMember)
	}
}

func (a *API) AdminUpdateTeamMember(c *gin.Context) {
	if h, _, ok := a.teamHook(c); ok {
		handleUpdate(a, c, h.UpdateTeamMember)
	}
}

func (a *API) AdminDeleteTeamMember(c *gin.Context) {
	if h, _, ok := a.teamHook(c); ok {
		handleDelete(a, c, h.DeleteTeamMember)
	}
}

func (a *API) faqsHook(c *gin.Context) (*hook.FAQs, model.FAQFilter, bool) {
	var filter model.FAQFilter
	if !bindFilter(c, &filter) {
		return nil, filter, false
	}
	h := hook.NewFAQs(a.reg, a.log)
	h.SetFilter(filter)
	return h, filter, true
}

func (a *API) AdminListFAQs(c *gin.Context) {
	if h, filter, ok := a.faqsHook(c); ok {
		handleList(a, c, h.Apply, filter, a.reg.FAQs().Count)
	}
}

func (a *API) AdminGetFAQ(c *gin.Context) {
	handleGet(a, c, "faq", a.reg.FAQs().FindByID)
}

func (a *API) AdminCreateFAQ(c *gin.Context) {
	if h, _, ok := a.faqsHook(c); ok {
		handleCreate(a, c, h.CreateFAQ)
	}
}

func (a *API) AdminUpdateFAQ(c *gin.Context) {
	if h, _, ok := a.faqsHook(c); ok {
		handleUpdate(a, c, h.UpdateFAQ)
	}
}

func (a *API) AdminDeleteFAQ(c *gin.Context) {
	if h, _, ok := a.faqsHook(c); ok {
		handleDelete(a, c, h.DeleteFAQ)
	}
}

// AdminFAQCategories lists every category in use.
func (a *API) AdminFAQCategories(c *gin.Context) {
	categories, err := a.reg.FAQs().Categories(c.Request.Context(), "")
	if err != nil {
		a.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": categories})
}

func (a *API) mediaHook(c *gin.Context) (*hook.Media, model.MediaFilter, bool) {
	var filter model.MediaFilter
	if !bindFilter(c, &filter) {
		return nil, filter, false
	}
	h := hook.NewMedia(a.reg, a.log)
	h.SetFilter(filter)
	return h, filter, true
}

func (a *API) AdminListMedia(c *gin.Context) {
	if h, filter, ok := a.mediaHook(c); ok {
		handleList(a, c, h.Apply, filter, a.reg.Media().Count)
	}
}

func (a *API) AdminGetMedia(c *gin.Context) {
	handleGet(a, c, "media", a.reg.Media().FindByID)
}

func (a *API) AdminCreateMedia(c *gin.Context) {
	if h, _, ok := a.mediaHook(c); ok {
		handleCreate(a, c, h.CreateMedia)
	}
}

func (a *API) AdminUpdateMedia(c *gin.Context) {
	if h, _, ok := a.mediaHook(c); ok {
		handleUpdate(a, c, h.UpdateMedia)
	}
}

func (a *API) AdminDeleteMedia(c *gin.Context) {
	if h, _, ok := a.mediaHook(c); ok {
		handleDelete(a, c, h.DeleteMedia)
	}
}

// AdminMediaFolders lists the folders in use.
func (a *API) AdminMediaFolders(c *gin.Context) {
	folders, err := a.reg.Media().Folders(c.Request.Context())
	if err != nil {
		a.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": folders})
}

func (a *API) leadsHook(c *gin.Context) (*hook.Leads, model.LeadFilter, bool) {
	var filter model.LeadFilter
	if !bindFilter(c, &filter) {
		return nil, filter, false
	}
	h := hook.NewLeads(a.reg, a.log)
	h.SetFilter(filter)
	return h, filter, true
}

func (a *API) AdminListLeads(c *gin.Context) {
	if h, filter, ok := a.leadsHook(c); ok {
		handleList(a, c, h.Apply, filter, a.reg.Leads().Count)
	}
}

func (a *API) AdminGetLead(c *gin.Context) {
	handleGet(a, c, "lead", a.reg.Leads().FindByID)
}

func (a *API) AdminUpdateLead(c *gin.Context) {
	if h, _, ok := a.leadsHook(c); ok {
		handleUpdate(a, c, h.UpdateLead)
	}
}

type leadStatusPayload struct {
	Status string `json:"status"`
}

// AdminUpdateLeadStatus changes only the pipeline status.
func (a *API) AdminUpdateLeadStatus(c *gin.Context) {
	h, _, ok := a.leadsHook(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	var payload leadStatusPayload
	if !bindJSON(c, &payload, "invalid request body") {
		return
	}
	item, items, err := h.UpdateLeadStatus(c.Request.Context(), id, payload.Status)
	if err != nil {
		a.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item, "items": items})
}

// AdminExportLeads downloads every lead matching the query as CSV.
func (a *API) AdminExportLeads(c *gin.Context) {
	var filter model.LeadFilter
	if !bindFilter(c, &filter) {
		return
	}

	ctx := c.Request.Context()
	var leads []model.Lead
	filter.Limit = model.MaxLimit
	for offset := 0; ; offset += model.MaxLimit {
		filter.Offset = offset
		page, err := a.reg.Leads().FindAll(ctx, filter)
		if err != nil {
			a.respondErr(c, err)
			return
		}
		leads = append(leads, page...)
		if len(page) < model.MaxLimit {
			break
		}
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="`+export.LeadsFilename(a.now())+`"`)
	c.Status(http.StatusOK)
	if err := export.LeadsCSV(c.Writer, leads); err != nil {
		a.log.Error().Err(err).Msg("failed to write leads csv")
	}
}

func (a *API) AdminGetSettings(c *gin.Context) {
	current, err := hook.NewSettings(a.reg, a.log).Refresh(c.Request.Context())
	if err != nil {
		a.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": current})
}

func (a *API) AdminUpdateSettings(c *gin.Context) {
	var in model.UpdateSettingsInput
	if !bindJSON(c, &in, "invalid request body") {
		return
	}
	updated, err := hook.NewSettings(a.reg, a.log).UpdateSettings(c.Request.Context(), in)
	if err != nil {
		a.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": updated})
}
