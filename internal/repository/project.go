package repository

import (
	"context"

	"github.com/devmart/internal/db"
	"github.com/devmart/internal/model"
	"gorm.io/gorm"
)

const projectDefaultLimit = 20

type projectRepo struct {
	base
}

func (r *projectRepo) Create(ctx context.Context, in model.CreateProjectInput) (*model.Project, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	actor, err := r.actor(ctx)
	if err != nil {
		return nil, r.fail("create", err)
	}
	if err := r.ensureSlugFree(ctx, &db.Project{}, in.Slug, ""); err != nil {
		return nil, r.fail("create", err)
	}

	row := db.Project{
		Slug:      in.Slug,
		Title:     in.Title,
		Client:    in.Client,
		Summary:   in.Summary,
		Body:      in.Body,
		CoverURL:  in.CoverURL,
		Gallery:   orEmpty(in.Gallery),
		Tech:      orEmpty(in.Tech),
		Featured:  in.Featured,
		Status:    in.Status,
		CreatedBy: actor,
		UpdatedBy: actor,
	}
	if err := r.conn(ctx).Create(&row).Error; err != nil {
		return nil, r.fail("create", err)
	}

	out := toProject(row)
	return &out, nil
}

func (r *projectRepo) FindByID(ctx context.Context, id string) (*model.Project, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *projectRepo) FindBySlug(ctx context.Context, slug string) (*model.Project, error) {
	return r.findOne(ctx, "slug = ?", slug)
}

func (r *projectRepo) findOne(ctx context.Context, query string, arg any) (*model.Project, error) {
	row, err := first[db.Project](ctx, r.db, query, arg)
	if err != nil {
		return nil, r.fail("fetch", err)
	}
	if row == nil {
		return nil, nil
	}
	out := toProject(*row)
	return &out, nil
}

func (r *projectRepo) FindAll(ctx context.Context, filter model.ProjectFilter) ([]model.Project, error) {
	limit, offset := filter.Window(projectDefaultLimit)

	var rows []db.Project
	if err := r.filtered(ctx, filter).
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error; err != nil {
		return nil, r.fail("fetch", err)
	}
	return mapRows(rows, toProject), nil
}

// FindFeatured returns published featured projects.
func (r *projectRepo) FindFeatured(ctx context.Context, limit int) ([]model.Project, error) {
	featured := true
	return r.FindAll(ctx, model.ProjectFilter{
		ListFilter: model.ListFilter{Status: model.StatusPublished, Limit: limit},
		Featured:   &featured,
	})
}

func (r *projectRepo) Count(ctx context.Context, filter model.ProjectFilter) (int64, error) {
	var n int64
	if err := r.filtered(ctx, filter).Count(&n).Error; err != nil {
		return 0, r.fail("count", err)
	}
	return n, nil
}

func (r *projectRepo) filtered(ctx context.Context, filter model.ProjectFilter) *gorm.DB {
	f := filter.ListFilter.Normalized()
	q := r.conn(ctx).Model(&db.Project{})
	q = applyEq(q, "status", f.Status)
	if filter.Featured != nil {
		q = q.Where("featured = ?", *filter.Featured)
	}
	return applySearch(q, f.Search, "title", "client", "summary")
}

func (r *projectRepo) Update(ctx context.Context, id string, in model.UpdateProjectInput) (*model.Project, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	actor, err := r.actor(ctx)
	if err != nil {
		return nil, r.fail("update", err)
	}

	row, err := mustFirst[db.Project](ctx, r.db, id)
	if err != nil {
		return nil, r.fail("update", err)
	}

	if in.Slug != nil && *in.Slug != row.Slug {
		if err := r.ensureSlugFree(ctx, &db.Project{}, *in.Slug, row.ID); err != nil {
			return nil, r.fail("update", err)
		}
		row.Slug = *in.Slug
	}
	if in.Title != nil {
		row.Title = *in.Title
	}
	if in.Client != nil {
		row.Client = *in.Client
	}
	if in.Summary != nil {
		row.Summary = *in.Summary
	}
	if in.Body != nil {
		row.Body = *in.Body
	}
	if in.CoverURL != nil {
		row.CoverURL = *in.CoverURL
	}
	if in.Gallery != nil {
		row.Gallery = orEmpty(*in.Gallery)
	}
	if in.Tech != nil {
		row.Tech = orEmpty(*in.Tech)
	}
	if in.Featured != nil {
		row.Featured = *in.Featured
	}
	if in.Status != nil {
		row.Status = *in.Status
	}
	row.UpdatedBy = actor

	if err := r.conn(ctx).Save(row).Error; err != nil {
		return nil, r.fail("update", err)
	}

	out := toProject(*row)
	return &out, nil
}

func (r *projectRepo) Delete(ctx context.Context, id string) error {
	if err := r.conn(ctx).Where("id = ?", id).Delete(&db.Project{}).Error; err != nil {
		return r.fail("delete", err)
	}
	return nil
}

func toProject(row db.Project) model.Project {
	return model.Project{
		ID:       row.ID,
		Slug:     row.Slug,
		Title:    row.Title,
		Client:   row.Client,
		Summary:  row.Summary,
		Body:     row.Body,
		CoverURL: row.CoverURL,
		Gallery:  orEmpty(row.Gallery),
		Tech:     orEmpty(row.Tech),
		Featured: row.Featured,
		Status:   row.Status,
		Audit: model.Audit{
			CreatedBy: row.CreatedBy,
			UpdatedBy: row.UpdatedBy,
			CreatedAt: row.CreatedAt,
			UpdatedAt: row.UpdatedAt,
		},
	}
}
