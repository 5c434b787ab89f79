package repository

import (
	"context"

	"github.com/devmart/internal/db"
	"github.com/devmart/internal/model"
	"gorm.io/gorm"
)

const teamDefaultLimit = 50

type teamRepo struct {
	base
}

func (r *teamRepo) Create(ctx context.Context, in model.CreateTeamMemberInput) (*model.TeamMember, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	actor, err := r.actor(ctx)
	if err != nil {
		return nil, r.fail("create", err)
	}
	if err := r.ensureSlugFree(ctx, &db.TeamMember{}, in.Slug, ""); err != nil {
		return nil, r.fail("create", err)
	}

	row := db.TeamMember{
		Slug:      in.Slug,
		Name:      in.Name,
		Role:      in.Role,
		Bio:       in.Bio,
		PhotoURL:  in.PhotoURL,
		Socials:   mapOrEmpty(in.Socials),
		OrderNum:  in.OrderNum,
		Status:    in.Status,
		CreatedBy: actor,
		UpdatedBy: actor,
	}
	if err := r.conn(ctx).Create(&row).Error; err != nil {
		return nil, r.fail("create", err)
	}

	out := toTeamMember(row)
	return &out, nil
}

func (r *teamRepo) FindByID(ctx context.Context, id string) (*model.TeamMember, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *teamRepo) FindBySlug(ctx context.Context, slug string) (*model.TeamMember, error) {
	return r.findOne(ctx, "slug = ?", slug)
}

func (r *teamRepo) findOne(ctx context.Context, query string, arg any) (*model.TeamMember, error) {
	row, err := first[db.TeamMember](ctx, r.db, query, arg)
	if err != nil {
		return nil, r.fail("fetch", err)
	}
	if row == nil {
		return nil, nil
	}
	out := toTeamMember(*row)
	return &out, nil
}

func (r *teamRepo) FindAll(ctx context.Context, filter model.TeamFilter) ([]model.TeamMember, error) {
	limit, offset := filter.Window(teamDefaultLimit)

	var rows []db.TeamMember
	if err := r.filtered(ctx, filter).
		Order("order_num asc").
		Order("created_at asc").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error; err != nil {
		return nil, r.fail("fetch", err)
	}
	return mapRows(rows, toTeamMember), nil
}

func (r *teamRepo) Count(ctx context.Context, filter model.TeamFilter) (int64, error) {
	var n int64
	if err := r.filtered(ctx, filter).Count(&n).Error; err != nil {
		return 0, r.fail("count", err)
	}
	return n, nil
}

func (r *teamRepo) filtered(ctx context.Context, filter model.TeamFilter) *gorm.DB {
	f := filter.ListFilter.Normalized()
	q := r.conn(ctx).Model(&db.TeamMember{})
	q = applyEq(q, "status", f.Status)
	return applySearch(q, f.Search, "name", "role", "bio")
}

func (r *teamRepo) Update(ctx context.Context, id string, in model.UpdateTeamMemberInput) (*model.TeamMember, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	actor, err := r.actor(ctx)
	if err != nil {
		return nil, r.fail("update", err)
	}

	row, err := mustFirst[db.TeamMember](ctx, r.db, id)
	if err != nil {
		return nil, r.fail("update", err)
	}

	if in.Slug != nil && *in.Slug != row.Slug {
		if err := r.ensureSlugFree(ctx, &db.TeamMember{}, *in.Slug, row.ID); err != nil {
			return nil, r.fail("update", err)
		}
		row.Slug = *in.Slug
	}
	if in.Name != nil {
		row.Name = *in.Name
	}
	if in.Role != nil {
		row.Role = *in.Role
	}
	if in.Bio != nil {
		row.Bio = *in.Bio
	}
	if in.PhotoURL != nil {
		row.PhotoURL = *in.PhotoURL
	}
	if in.Socials != nil {
		row.Socials = mapOrEmpty(*in.Socials)
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

	out := toTeamMember(*row)
	return &out, nil
}

func (r *teamRepo) Delete(ctx context.Context, id string) error {
	if err := r.conn(ctx).Where("id = ?", id).Delete(&db.TeamMember{}).Error; err != nil {
		return r.fail("delete", err)
	}
	return nil
}

func toTeamMember(row db.TeamMember) model.TeamMember {
	return model.TeamMember{
		ID:       row.ID,
		Slug:     row.Slug,
		Name:     row.Name,
		Role:     row.Role,
		Bio:      row.Bio,
		PhotoURL: row.PhotoURL,
		Socials:  mapOrEmpty(row.Socials),
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
