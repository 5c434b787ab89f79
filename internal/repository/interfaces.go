package repository

import (
	"context"

	"github.com/devmart/internal/model"
)

// Single-entity lookups (FindByID, FindBySlug, ...) return (nil, nil) when no
// row matches. Every backend failure comes back as *errs.OperationError.

// ServiceRepository manages services, ordered by order_num.
type ServiceRepository interface {
	Create(ctx context.Context, in model.CreateServiceInput) (*model.Service, error)
	FindByID(ctx context.Context, id string) (*model.Service, error)
	FindBySlug(ctx context.Context, slug string) (*model.Service, error)
	FindAll(ctx context.Context, filter model.ServiceFilter) ([]model.Service, error)
	FindPublished(ctx context.Context) ([]model.Service, error)
	Count(ctx context.Context, filter model.ServiceFilter) (int64, error)
	Update(ctx context.Context, id string, in model.UpdateServiceInput) (*model.Service, error)
	Delete(ctx context.Context, id string) error
}

// ProjectRepository manages portfolio projects, newest first.
type ProjectRepository interface {
	Create(ctx context.Context, in model.CreateProjectInput) (*model.Project, error)
	FindByID(ctx context.Context, id string) (*model.Project, error)
	FindBySlug(ctx context.Context, slug string) (*model.Project, error)
	FindAll(ctx context.Context, filter model.ProjectFilter) ([]model.Project, error)
	FindFeatured(ctx context.Context, limit int) ([]model.Project, error)
	Count(ctx context.Context, filter model.ProjectFilter) (int64, error)
	Update(ctx context.Context, id string, in model.UpdateProjectInput) (*model.Project, error)
	Delete(ctx context.Context, id string) error
}

// BlogPostRepository manages blog posts, newest first.
type BlogPostRepository interface {
	Create(ctx context.Context, in model.CreateBlogPostInput) (*model.BlogPost, error)
	FindByID(ctx context.Context, id string) (*model.BlogPost, error)
	FindBySlug(ctx context.Context, slug string) (*model.BlogPost, error)
	FindAll(ctx context.Context, filter model.BlogPostFilter) ([]model.BlogPost, error)
	FindFeatured(ctx context.Context, limit int) ([]model.BlogPost, error)
	Count(ctx context.Context, filter model.BlogPostFilter) (int64, error)
	Update(ctx context.Context, id string, in model.UpdateBlogPostInput) (*model.BlogPost, error)
	IncrementViews(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

// TeamRepository manages team members, ordered by order_num.
type TeamRepository interface {
	Create(ctx context.Context, in model.CreateTeamMemberInput) (*model.TeamMember, error)
	FindByID(ctx context.Context, id string) (*model.TeamMember, error)
	FindBySlug(ctx context.Context, slug string) (*model.TeamMember, error)
	FindAll(ctx context.Context, filter model.TeamFilter) ([]model.TeamMember, error)
	Count(ctx context.Context, filter model.TeamFilter) (int64, error)
	Update(ctx context.Context, id string, in model.UpdateTeamMemberInput) (*model.TeamMember, error)
	Delete(ctx context.Context, id string) error
}

// FAQRepository manages FAQ entries, ordered by category then order_num.
type FAQRepository interface {
	Create(ctx context.Context, in model.CreateFAQInput) (*model.FAQ, error)
	FindByID(ctx context.Context, id string) (*model.FAQ, error)
	FindByCategory(ctx context.Context, category string) ([]model.FAQ, error)
	FindAll(ctx context.Context, filter model.FAQFilter) ([]model.FAQ, error)
	Categories(ctx context.Context, status string) ([]string, error)
	Count(ctx context.Context, filter model.FAQFilter) (int64, error)
	Update(ctx context.Context, id string, in model.UpdateFAQInput) (*model.FAQ, error)
	Delete(ctx context.Context, id string) error
}

// MediaRepository manages the media library, newest first.
type MediaRepository interface {
	Create(ctx context.Context, in model.CreateMediaInput) (*model.Media, error)
	FindByID(ctx context.Context, id string) (*model.Media, error)
	FindByFolder(ctx context.Context, folder string) ([]model.Media, error)
	FindAll(ctx context.Context, filter model.MediaFilter) ([]model.Media, error)
	Folders(ctx context.Context) ([]string, error)
	Count(ctx context.Context, filter model.MediaFilter) (int64, error)
	Update(ctx context.Context, id string, in model.UpdateMediaInput) (*model.Media, error)
	Delete(ctx context.Context, id string) error
}

// LeadRepository manages contact leads. There is no Delete: leads are an audit trail.
type LeadRepository interface {
	Create(ctx context.Context, in model.CreateLeadInput) (*model.Lead, error)
	FindByID(ctx context.Context, id string) (*model.Lead, error)
	FindAll(ctx context.Context, filter model.LeadFilter) ([]model.Lead, error)
	Count(ctx context.Context, filter model.LeadFilter) (int64, error)
	Update(ctx context.Context, id string, in model.UpdateLeadInput) (*model.Lead, error)
	UpdateStatus(ctx context.Context, id, status string) (*model.Lead, error)
}

// SettingsRepository manages the settings singleton. Get returns nil before
// the first Update.
type SettingsRepository interface {
	Get(ctx context.Context) (*model.Settings, error)
	Update(ctx context.Context, in model.UpdateSettingsInput) (*model.Settings, error)
}
