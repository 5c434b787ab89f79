package hook

import (
	"context"

	"github.com/devmart/internal/model"
	"github.com/devmart/internal/repository"
	"github.com/rs/zerolog"
)

type Services struct {
	*List[model.Service, model.ServiceFilter]
	repo repository.ServiceRepository
}

func NewServices(reg *repository.Registry, log zerolog.Logger) *Services {
	repo := reg.Services()
	return &Services{List: newList("services", log, repo.FindAll), repo: repo}
}

func (h *Services) CreateService(ctx context.Context, in model.CreateServiceInput) (*model.Service, []model.Service, error) {
	return create(ctx, h.List, h.repo.Create, in)
}

func (h *Services) UpdateService(ctx context.Context, id string, in model.UpdateServiceInput) (*model.Service, []model.Service, error) {
	return update(ctx, h.List, h.repo.Update, id, in)
}

func (h *Services) DeleteService(ctx context.Context, id string) ([]model.Service, error) {
	return remove(ctx, h.List, h.repo.Delete, id)
}

type Projects struct {
	*List[model.Project, model.ProjectFilter]
	repo repository.ProjectRepository
}

func NewProjects(reg *repository.Registry, log zerolog.Logger) *Projects {
	repo := reg.Projects()
	return &Projects{List: newList("projects", log, repo.FindAll), repo: repo}
}

func (h *Projects) CreateProject(ctx context.Context, in model.CreateProjectInput) (*model.Project, []model.Project, error) {
	return create(ctx, h.List, h.repo.Create, in)
}

func (h *Projects) UpdateProject(ctx context.Context, id string, in model.UpdateProjectInput) (*model.Project, []model.Project, error) {
	return update(ctx, h.List, h.repo.Update, id, in)
}

func (h *Projects) DeleteProject(ctx context.Context, id string) ([]model.Project, error) {
	return remove(ctx, h.List, h.repo.Delete, id)
}

type BlogPosts struct {
	*List[model.BlogPost, model.BlogPostFilter]
	repo repository.BlogPostRepository
}

func NewBlogPosts(reg *repository.Registry, log zerolog.Logger) *BlogPosts {
	repo := reg.BlogPosts()
	return &BlogPosts{List: newList("blog_posts", log, repo.FindAll), repo: repo}
}

func (h *BlogPosts) CreateBlogPost(ctx context.Context, in model.CreateBlogPostInput) (*model.BlogPost, []model.BlogPost, error) {
	return create(ctx, h.List, h.repo.Create, in)
}

func (h *BlogPosts) UpdateBlogPost(ctx context.Context, id string, in model.UpdateBlogPostInput) (*model.BlogPost, []model.BlogPost, error) {
	return update(ctx, h.List, h.repo.Update, id, in)
}

func (h *BlogPosts) DeleteBlogPost(ctx context.Context, id string) ([]model.BlogPost, error) {
	return remove(ctx, h.List, h.repo.Delete, id)
}

type Team struct {
	*List[model.TeamMember, model.TeamFilter]
	repo repository.TeamRepository
}

func NewTeam(reg *repository.Registry, log zerolog.Logger) *Team {
	repo := reg.Team()
	return &Team{List: newList("team", log, repo.FindAll), repo: repo}
}

func (h *Team) CreateTeamMember(ctx context.Context, in model.CreateTeamMemberInput) (*model.TeamMember, []model.TeamMember, error) {
	return create(ctx, h.List, h.repo.Create, in)
}

func (h *Team) UpdateTeamMember(ctx context.Context, id string, in model.UpdateTeamMemberInput) (*model.TeamMember, []model.TeamMember, error) {
	return update(ctx, h.List, h.repo.Update, id, in)
}

func (h *Team) DeleteTeamMember(ctx context.Context, id string) ([]model.TeamMember, error) {
	return remove(ctx, h.List, h.repo.Delete, id)
}

type FAQs struct {
	*List[model.FAQ, model.FAQFilter]
	repo repository.FAQRepository
}

func NewFAQs(reg *repository.Registry, log zerolog.Logger) *FAQs {
	repo := reg.FAQs()
	return &FAQs{List: newList("faqs", log, repo.FindAll), repo: repo}
}

func (h *FAQs) CreateFAQ(ctx context.Context, in model.CreateFAQInput) (*model.FAQ, []model.FAQ, error) {
	return create(ctx, h.List, h.repo.Create, in)
}

func (h *FAQs) UpdateFAQ(ctx context.Context, id string, in model.UpdateFAQInput) (*model.FAQ, []model.FAQ, error) {
	return update(ctx, h.List, h.repo.Update, id, in)
}

func (h *FAQs) DeleteFAQ(ctx context.Context, id string) ([]model.FAQ, error) {
	return remove(ctx, h.List, h.repo.Delete, id)
}

// Grouped returns the current entries grouped by category.
func (h *FAQs) Grouped() []model.FAQGroup {
	return model.GroupFAQs(h.State().Data)
}

type Media struct {
	*List[model.Media, model.MediaFilter]
	repo repository.MediaRepository
}

func NewMedia(reg *repository.Registry, log zerolog.Logger) *Media {
	repo := reg.Media()
	return &Media{List: newList("media", log, repo.FindAll), repo: repo}
}

func (h *Media) CreateMedia(ctx context.Context, in model.CreateMediaInput) (*model.Media, []model.Media, error) {
	return create(ctx, h.List, h.repo.Create, in)
}

func (h *Media) UpdateMedia(ctx context.Context, id string, in model.UpdateMediaInput) (*model.Media, []model.Media, error) {
	return update(ctx, h.List, h.repo.Update, id, in)
}

func (h *Media) DeleteMedia(ctx context.Context, id string) ([]model.Media, error) {
	return remove(ctx, h.List, h.repo.Delete, id)
}

// Leads 没有删除操作。
type Leads struct {
	*List[model.Lead, model.LeadFilter]
	repo repository.LeadRepository
}

func NewLeads(reg *repository.Registry, log zerolog.Logger) *Leads {
	repo := reg.Leads()
	return &Leads{List: newList("leads", log, repo.FindAll), repo: repo}
}

func (h *Leads) CreateLead(ctx context.Context, in model.CreateLeadInput) (*model.Lead, []model.Lead, error) {
	return create(ctx, h.List, h.repo.Create, in)
}

func (h *Leads) UpdateLead(ctx context.Context, id string, in model.UpdateLeadInput) (*model.Lead, []model.Lead, error) {
	return update(ctx, h.List, h.repo.Update, id, in)
}

func (h *Leads) UpdateLeadStatus(ctx context.Context, id, status string) (*model.Lead, []model.Lead, error) {
	return h.UpdateLead(ctx, id, model.UpdateLeadInput{Status: &status})
}

// Settings exposes the singleton. Before the first write it reports the
// defaults.
type Settings struct {
	*Single[model.Settings]
	repo repository.SettingsRepository
}

func NewSettings(reg *repository.Registry, log zerolog.Logger) *Settings {
	repo := reg.Settings()
	fetch := func(ctx context.Context) (*model.Settings, error) {
		current, err := repo.Get(ctx)
		if err != nil || current != nil {
			return current, err
		}
		defaults := model.DefaultSettings()
		return &defaults, nil
	}
	return &Settings{Single: newSingle("settings", log, fetch), repo: repo}
}

func (h *Settings) UpdateSettings(ctx context.Context, in model.UpdateSettingsInput) (*model.Settings, error) {
	return h.mutate(ctx, func(ctx context.Context) error {
		_, err := h.repo.Update(ctx, in)
		return err
	})
}
