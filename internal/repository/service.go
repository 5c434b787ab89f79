package repository

import (
	"context"

	"github.com/devmart/internal/db"
	"github.com/devmart/internal/model"
	"gorm.io/gorm"
)

const serviceDefaultLimit = 50

type serviceRepo struct {
	base
}

func (r *serviceRepo) Create(ctx context.Context, in model.CreateServiceInput) (*model.Service, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	actor, err := r.actor(ctx)
	if err != nil {
		return nil, r.fail("create", err)
	}
	if err := r.ensureSlugFree(ctx, &db.Service{}, in.Slug, ""); err != nil {
		return nil, r.fail("create", err)
	}

	row := db.Service{
		Slug:      in.Slug,
		Title:     in.Title,
		Summary:   in.Summary,
		Body:      in.Body,
		Icon:      in.Icon,
		OrderNum:  in.OrderNum,
		Status:    in.Status,
		CreatedBy: actor,
		UpdatedBy: actor,
	}
	if err := r.conn(ctx).Create(&row).Error; err != nil {
		return nil, r.fail("create", err)
	}

	out := toService(row)
	return &out, nil
}

func (r *serviceRepo) FindByID(ctx context.Context, id string) (*model.Service, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *serviceRepo) FindBySlug(ctx context.Context, slug string) (*model.Service, error) {
	return r.findOne(ctx, "slug = ?", slug)
}

func (r *serviceRepo) findOne(ctx context.Context, query string, arg any) (*model.Service, error) {
	row, err := first[db.Service](ctx, r.db, query, arg)
	if err != nil {
		return nil, r.fail("fetch", err)
	}
	if row == nil {
		return nil, nil
	}
	out := toService(*row)
	return &out, nil
}

func (r *serviceRepo) FindAll(ctx context.Context, filter model.ServiceFilter) ([]model.Service, error) {
	limit, offset := filter.Window(serviceDefaultLimit)

	var rows []db.Service
	if err := r.filtered(ctx, filter).
		Order("order_num asc").
		Order("created_at asc").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error; err != nil {
		return nil, r.fail("fetch", err)
	}
	return mapRows(rows, toService), nil
}

func (r *serviceRepo) FindPublished(ctx context.Context) ([]model.Service, error) {
	return r.FindAll(ctx, model.ServiceFilter{ListFilter: model.ListFilter{
		Status: model.StatusPublished,
		Limit:  model.MaxLimit,
	}})
}

func (r *serviceRepo) Count(ctx context.Context, filter model.ServiceFilter) (int64, error) {
	var n int64
	if err := r.filtered(ctx, filter).Count(&n).Error; err != nil {
		return 0, r.fail("count", err)
	}
	return n, nil
}

func (r *serviceRepo) filtered(ctx context.Context, filter model.ServiceFilter) *gorm.DB {
	f := filter.ListFilter.Normalized()
	q := r.conn(ctx).Model(&db.Service{})
	q = applyEq(q, "status", f.Status)
	return applySearch(q, f.Search, "title", "summary", "slug")
}

func (r *serviceRepo) Update(ctx context.Context, id string, in model.UpdateServiceInput) (*model.Service, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	actor, err := r.actor(ctx)
	if err != nil {
		return nil, r.fail("update", err)
	}

	row, err := mustFirst[db.Service](ctx, r.db, id)
	if err != nil {
		return nil, r.fail("update", err)
	}

	if in.Slug != nil && *in.Slug != row.Slug {
		if err := r.ensureSlugFree(ctx, &db.Service{}, *in.Slug, row.ID); err != nil {
			return nil, r.fail("update", err)
		}
		row.Slug = *in.Slug
	}
	if in.Title != nil {
		row.Title = *in.Title
	}
	if in.Summary != nil {
		row.Summary = *in.Summary
	}
	if in.Body != nil {
		row.Body = *in.Body
	}
	if in.Icon != nil {
		row.Icon = *in.Icon
	}
	if in.OrderNum != nil {
		row.OrderNum = *in.OrderNum
	}
	if in.Status != nil {
		row.Status = *in.Status
	}
	row.UpdatedBy = actor

	if err := r.conn(ctx).Save(row).Error; err != nil {
		return nil, r.fail("update", err)
	}

	out := toService(*row)
	return &out, nil
}

func (r *serviceRepo) Delete(ctx context.Context, id string) error {
	if err := r.conn(ctx).Where("id = ?", id).Delete(&db.Service{}).Error; err != nil {
		return r.fail("delete", err)
	}
	return nil
}

func toService(row db.Service) model.Service {
	return model.Service{
		ID:       row.ID,
		Slug:     row.Slug,
		Title:    row.Title,
		Summary:  row.Summary,
		Body:     row.Body,
		Icon:     row.Icon,
		OrderNum: row.OrderNum,
		Status:   row.Status,
		Audit: model.Audit{
			CreatedBy: row.CreatedBy,
			UpdatedBy: row.UpdatedBy,
			CreatedAt: row.CreatedAt,
			UpdatedAt: row.UpdatedAt,
		},
	}
}
