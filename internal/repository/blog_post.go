package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/devmart/internal/db"
	"github.com/devmart/internal/model"
	"gorm.io/gorm"
)

const blogPostDefaultLimit = 20

type blogPostRepo struct {
	base
	now func() time.Time
}

func (r *blogPostRepo) Create(ctx context.Context, in model.CreateBlogPostInput) (*model.BlogPost, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	actor, err := r.actor(ctx)
	if err != nil {
		return nil, r.fail("create", err)
	}
	if err := r.ensureSlugFree(ctx, &db.BlogPost{}, in.Slug, ""); err != nil {
		return nil, r.fail("create", err)
	}

	authorID := in.AuthorID
	if authorID == "" {
		authorID = actor
	}

	row := db.BlogPost{
		Slug:      in.Slug,
		Title:     in.Title,
		Excerpt:   in.Excerpt,
		Body:      in.Body,
		CoverURL:  in.CoverURL,
		AuthorID:  authorID,
		Tags:      orEmpty(in.Tags),
		Featured:  in.Featured,
		Status:    in.Status,
		CreatedBy: actor,
		UpdatedBy: actor,
	}
	if row.Status == model.StatusPublished {
		now := r.now().UTC()
		row.PublishedAt = &now
	}
	if err := r.conn(ctx).Create(&row).Error; err != nil {
		return nil, r.fail("create", err)
	}

	out := toBlogPost(row)
	return &out, nil
}

func (r *blogPostRepo) FindByID(ctx context.Context, id string) (*model.BlogPost, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *blogPostRepo) FindBySlug(ctx context.Context, slug string) (*model.BlogPost, error) {
	return r.findOne(ctx, "slug = ?", slug)
}

func (r *blogPostRepo) findOne(ctx context.Context, query string, arg any) (*model.BlogPost, error) {
	row, err := first[db.BlogPost](ctx, r.db, query, arg)
	if err != nil {
		return nil, r.fail("fetch", err)
	}
	if row == nil {
		return nil, nil
	}
	out := toBlogPost(*row)
	return &out, nil
}

func (r *blogPostRepo) FindAll(ctx context.Context, filter model.BlogPostFilter) ([]model.BlogPost, error) {
	limit, offset := filter.Window(blogPostDefaultLimit)

	var rows []db.BlogPost
	if err := r.filtered(ctx, filter).
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error; err != nil {
		return nil, r.fail("fetch", err)
	}
	return mapRows(rows, toBlogPost), nil
}

// FindFeatured returns published featured posts.
func (r *blogPostRepo) FindFeatured(ctx context.Context, limit int) ([]model.BlogPost, error) {
	featured := true
	return r.FindAll(ctx, model.BlogPostFilter{
		ListFilter: model.ListFilter{Status: model.StatusPublished, Limit: limit},
		Featured:   &featured,
	})
}

func (r *blogPostRepo) Count(ctx context.Context, filter model.BlogPostFilter) (int64, error) {
	var n int64
	if err := r.filtered(ctx, filter).Count(&n).Error; err != nil {
		return 0, r.fail("count", err)
	}
	return n, nil
}

func (r *blogPostRepo) filtered(ctx context.Context, filter model.BlogPostFilter) *gorm.DB {
	f := filter.ListFilter.Normalized()
	q := r.conn(ctx).Model(&db.BlogPost{})
	q = applyEq(q, "status", f.Status)
	if filter.Featured != nil {
		q = q.Where("featured = ?", *filter.Featured)
	}
	if filter.Tag != "" {
		q = applyTag(q, filter.Tag)
	}
	return applySearch(q, f.Search, "title", "excerpt", "body")
}

func (r *blogPostRepo) Update(ctx context.Context, id string, in model.UpdateBlogPostInput) (*model.BlogPost, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	actor, err := r.actor(ctx)
	if err != nil {
		return nil, r.fail("update", err)
	}

	row, err := mustFirst[db.BlogPost](ctx, r.db, id)
	if err != nil {
		return nil, r.fail("update", err)
	}

	if in.Slug != nil && *in.Slug != row.Slug {
		if err := r.ensureSlugFree(ctx, &db.BlogPost{}, *in.Slug, row.ID); err != nil {
			return nil, r.fail("update", err)
		}
		row.Slug = *in.Slug
	}
	if in.Title != nil {
		row.Title = *in.Title
	}
	if in.Excerpt != nil {
		row.Excerpt = *in.Excerpt
	}
	if in.Body != nil {
		row.Body = *in.Body
	}
	if in.CoverURL != nil {
		row.CoverURL = *in.CoverURL
	}
	if in.AuthorID != nil {
		row.AuthorID = *in.AuthorID
	}
	if in.Tags != nil {
		row.Tags = orEmpty(*in.Tags)
	}
	if in.Featured != nil {
		row.Featured = *in.Featured
	}
	if in.Status != nil {
		row.Status = *in.Status
	}
	if row.Status == model.StatusPublished && row.PublishedAt == nil {
		now := r.now().UTC()
		row.PublishedAt = &now
	}
	row.UpdatedBy = actor

	if err := r.conn(ctx).Save(row).Error; err != nil {
		return nil, r.fail("update", err)
	}

	out := toBlogPost(*row)
	return &out, nil
}

// IncrementViews bumps the counter in place without touching updated_at.
func (r *blogPostRepo) IncrementViews(ctx context.Context, id string) error {
	if err := r.conn(ctx).Model(&db.BlogPost{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).Error; err != nil {
		return r.fail("update views of", err)
	}
	return nil
}

func (r *blogPostRepo) Delete(ctx context.Context, id string) error {
	if err := r.conn(ctx).Where("id = ?", id).Delete(&db.BlogPost{}).Error; err != nil {
		return r.fail("delete", err)
	}
	return nil
}

func toBlogPost(row db.BlogPost) model.BlogPost {
	return model.BlogPost{
		ID:          row.ID,
		Slug:        row.Slug,
		Title:       row.Title,
		Excerpt:     row.Excerpt,
		Body:        row.Body,
		CoverURL:    row.CoverURL,
		AuthorID:    row.AuthorID,
		Tags:        orEmpty(row.Tags),
		Featured:    row.Featured,
		Status:      row.Status,
		Views:       row.Views,
		PublishedAt: row.PublishedAt,
		Audit: model.Audit{
			CreatedBy: row.CreatedBy,
			UpdatedBy: row.UpdatedBy,
			CreatedAt: row.CreatedAt,
			UpdatedAt: row.UpdatedAt,
		},
	}
}

// applyTag 匹配 JSON 数组中的完整元素；元素按存储时的 JSON 编码比较，通配符被转义
func applyTag(q *gorm.DB, tag string) *gorm.DB {
	encoded, err := json.Marshal(tag)
	if err != nil {
		return q.Where("1 = 0")
	}
	return q.Where(`tags LIKE ? ESCAPE '\'`, "%"+likeEscaper.Replace(string(encoded))+"%")
}
