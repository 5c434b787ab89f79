package repository

import (
	"context"

	"github.com/devmart/internal/db"
	"github.com/devmart/internal/model"
	"gorm.io/gorm"
)

const faqDefaultLimit = 50

type faqRepo struct {
	base
}

func (r *faqRepo) Create(ctx context.Context, in model.CreateFAQInput) (*model.FAQ, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	actor, err := r.actor(ctx)
	if err != nil {
		return nil, r.fail("create", err)
	}

	row := db.FAQ{
		Category:  in.Category,
		Question:  in.Question,
		Answer:    in.Answer,
		OrderNum:  in.OrderNum,
		Status:    in.Status,
		CreatedBy: actor,
		UpdatedBy: actor,
	}
	if err := r.conn(ctx).Create(&row).Error; err != nil {
		return nil, r.fail("create", err)
	}

	out := toFAQ(row)
	return &out, nil
}

func (r *faqRepo) FindByID(ctx context.Context, id string) (*model.FAQ, error) {
	row, err := first[db.FAQ](ctx, r.db, "id = ?", id)
	if err != nil {
		return nil, r.fail("fetch", err)
	}
	if row == nil {
		return nil, nil
	}
	out := toFAQ(*row)
	return &out, nil
}

// FindByCategory returns the published entries of one category.
func (r *faqRepo) FindByCategory(ctx context.Context, category string) ([]model.FAQ, error) {
	return r.FindAll(ctx, model.FAQFilter{
		ListFilter: model.ListFilter{Status: model.StatusPublished, Limit: model.MaxLimit},
		Category:   category,
	})
}

func (r *faqRepo) FindAll(ctx context.Context, filter model.FAQFilter) ([]model.FAQ, error) {
	limit, offset := filter.Window(faqDefaultLimit)

	var rows []db.FAQ
	if err := r.filtered(ctx, filter).
		Order("category asc").
		Order("order_num asc").
		Order("created_at asc").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error; err != nil {
		return nil, r.fail("fetch", err)
	}
	return mapRows(rows, toFAQ), nil
}

// Categories lists distinct categories, optionally limited to one status.
func (r *faqRepo) Categories(ctx context.Context, status string) ([]string, error) {
	q := applyEq(r.conn(ctx).Model(&db.FAQ{}), "status", status)

	var categories []string
	if err := q.Distinct().Order("category asc").Pluck("category", &categories).Error; err != nil {
		return nil, r.fail("fetch categories of", err)
	}
	return orEmpty(categories), nil
}

func (r *faqRepo) Count(ctx context.Context, filter model.FAQFilter) (int64, error) {
	var n int64
	if err := r.filtered(ctx, filter).Count(&n).Error; err != nil {
		return 0, r.fail("count", err)
	}
	return n, nil
}

func (r *faqRepo) filtered(ctx context.Context, filter model.FAQFilter) *gorm.DB {
	f := filter.ListFilter.Normalized()
	q := r.conn(ctx).Model(&db.FAQ{})
	q = applyEq(q, "status", f.Status)
	q = applyEq(q, "category", filter.Category)
	return applySearch(q, f.Search, "question", "answer")
}

func (r *faqRepo) Update(ctx context.Context, id string, in model.UpdateFAQInput) (*model.FAQ, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	actor, err := r.actor(ctx)
	if err != nil {
		return nil, r.fail("update", err)
	}

	row, err := mustFirst[db.FAQ](ctx, r.db, id)
	if err != nil {
		return nil, r.fail("update", err)
	}

	if in.Category != nil {
		row.Category = *in.Category
	}
	if in.Question != nil {
		row.Question = *in.Question
	}
	if in.Answer != nil {
		row.Answer = *in.Answer
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

	out := toFAQ(*row)
	return &out, nil
}

func (r *faqRepo) Delete(ctx context.Context, id string) error {
	if err := r.conn(ctx).Where("id = ?", id).Delete(&db.FAQ{}).Error; err != nil {
		return r.fail("delete", err)
	}
	return nil
}

func toFAQ(row db.FAQ) model.FAQ {
	return model.FAQ{
		ID:       row.ID,
		Category: row.Category,
		Question: row.Question,
		Answer:   row.Answer,
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
