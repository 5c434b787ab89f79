package repository

import (
	"context"

	"github.com/devmart/internal/db"
	"github.com/devmart/internal/model"
	"gorm.io/gorm"
)

const leadDefaultLimit = 25

// leadRepo 不提供删除：线索作为审计记录永久保留
type leadRepo struct {
	base
}

func (r *leadRepo) Create(ctx context.Context, in model.CreateLeadInput) (*model.Lead, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	row := db.Lead{
		Name:    in.Name,
		Email:   in.Email,
		Phone:   in.Phone,
		Subject: in.Subject,
		Message: in.Message,
		Source:  in.Source,
		Status:  model.LeadStatusNew,
	}
	if err := r.conn(ctx).Create(&row).Error; err != nil {
		return nil, r.fail("create", err)
	}

	out := toLead(row)
	return &out, nil
}

func (r *leadRepo) FindByID(ctx context.Context, id string) (*model.Lead, error) {
	row, err := first[db.Lead](ctx, r.db, "id = ?", id)
	if err != nil {
		return nil, r.fail("fetch", err)
	}
	if row == nil {
		return nil, nil
	}
	out := toLead(*row)
	return &out, nil
}

func (r *leadRepo) FindAll(ctx context.Context, filter model.LeadFilter) ([]model.Lead, error) {
	limit, offset := filter.Window(leadDefaultLimit)

	var rows []db.Lead
	if err := r.filtered(ctx, filter).
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error; err != nil {
		return nil, r.fail("fetch", err)
	}
	return mapRows(rows, toLead), nil
}

func (r *leadRepo) Count(ctx context.Context, filter model.LeadFilter) (int64, error) {
	var n int64
	if err := r.filtered(ctx, filter).Count(&n).Error; err != nil {
		return 0, r.fail("count", err)
	}
	return n, nil
}

func (r *leadRepo) filtered(ctx context.Context, filter model.LeadFilter) *gorm.DB {
	f := filter.ListFilter.Normalized()
	q := r.conn(ctx).Model(&db.Lead{})
	q = applyEq(q, "status", f.Status)
	return applySearch(q, f.Search, "name", "email", "message")
}

func (r *leadRepo) Update(ctx context.Context, id string, in model.UpdateLeadInput) (*model.Lead, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	actor, err := r.actor(ctx)
	if err != nil {
		return nil, r.fail("update", err)
	}

	row, err := mustFirst[db.Lead](ctx, r.db, id)
	if err != nil {
		return nil, r.fail("update", err)
	}

	if in.Status != nil {
		row.Status = *in.Status
	}
	if in.Subject != nil {
		row.Subject = *in.Subject
	}
	if in.Phone != nil {
		row.Phone = *in.Phone
	}
	row.UpdatedBy = actor

	if err := r.conn(ctx).Save(row).Error; err != nil {
		return nil, r.fail("update", err)
	}

	out := toLead(*row)
	return &out, nil
}

func (r *leadRepo) UpdateStatus(ctx context.Context, id, status string) (*model.Lead, error) {
	return r.Update(ctx, id, model.UpdateLeadInput{Status: &status})
}

func toLead(row db.Lead) model.Lead {
	return model.Lead{
		ID:        row.ID,
		Name:      row.Name,
		Email:     row.Email,
		Phone:     row.Phone,
		Subject:   row.Subject,
		Message:   row.Message,
		Source:    row.Source,
		Status:    row.Status,
		UpdatedBy: row.UpdatedBy,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}
