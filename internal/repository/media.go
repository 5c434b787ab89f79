package repository

import (
	"context"

	"github.com/devmart/internal/db"
	"github.com/devmart/internal/model"
	"gorm.io/gorm"
)

const mediaDefaultLimit = 30

type mediaRepo struct {
	base
}

func (r *mediaRepo) Create(ctx context.Context, in model.CreateMediaInput) (*model.Media, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	actor, err := r.actor(ctx)
	if err != nil {
		return nil, r.fail("create", err)
	}

	row := db.Media{
		URL:       in.URL,
		Alt:       in.Alt,
		Width:     in.Width,
		Height:    in.Height,
		Type:      in.Type,
		Folder:    in.Folder,
		SizeBytes: in.SizeBytes,
		CreatedBy: actor,
	}
	if err := r.conn(ctx).Create(&row).Error; err != nil {
		return nil, r.fail("create", err)
	}

	out := toMedia(row)
	return &out, nil
}

func (r *mediaRepo) FindByID(ctx context.Context, id string) (*model.Media, error) {
	row, err := first[db.Media](ctx, r.db, "id = ?", id)
	if err != nil {
		return nil, r.fail("fetch", err)
	}
	if row == nil {
		return nil, nil
	}
	out := toMedia(*row)
	return &out, nil
}

func (r *mediaRepo) FindByFolder(ctx context.Context, folder string) ([]model.Media, error) {
	return r.FindAll(ctx, model.MediaFilter{
		ListFilter: model.ListFilter{Limit: model.MaxLimit},
		Folder:     folder,
	})
}

func (r *mediaRepo) FindAll(ctx context.Context, filter model.MediaFilter) ([]model.Media, error) {
	limit, offset := filter.Window(mediaDefaultLimit)

	var rows []db.Media
	if err := r.filtered(ctx, filter).
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error; err != nil {
		return nil, r.fail("fetch", err)
	}
	return mapRows(rows, toMedia), nil
}

func (r *mediaRepo) Folders(ctx context.Context) ([]string, error) {
	var folders []string
	if err := r.conn(ctx).Model(&db.Media{}).
		Distinct().
		Order("folder asc").
		Pluck("folder", &folders).Error; err != nil {
		return nil, r.fail("fetch folders of", err)
	}
	return orEmpty(folders), nil
}

func (r *mediaRepo) Count(ctx context.Context, filter model.MediaFilter) (int64, error) {
	var n int64
	if err := r.filtered(ctx, filter).Count(&n).Error; err != nil {
		return 0, r.fail("count", err)
	}
	return n, nil
}

// media 没有状态字段，Status 条件被忽略
func (r *mediaRepo) filtered(ctx context.Context, filter model.MediaFilter) *gorm.DB {
	f := filter.ListFilter.Normalized()
	q := r.conn(ctx).Model(&db.Media{})
	q = applyEq(q, "folder", filter.Folder)
	q = applyEq(q, "type", filter.Type)
	return applySearch(q, f.Search, "alt", "url")
}

func (r *mediaRepo) Update(ctx context.Context, id string, in model.UpdateMediaInput) (*model.Media, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	row, err := mustFirst[db.Media](ctx, r.db, id)
	if err != nil {
		return nil, r.fail("update", err)
	}

	if in.Alt != nil {
		row.Alt = *in.Alt
	}
	if in.Folder != nil {
		row.Folder = *in.Folder
	}

	if err := r.conn(ctx).Save(row).Error; err != nil {
		return nil, r.fail("update", err)
	}

	out := toMedia(*row)
	return &out, nil
}

func (r *mediaRepo) Delete(ctx context.Context, id string) error {
	if err := r.conn(ctx).Where("id = ?", id).Delete(&db.Media{}).Error; err != nil {
		return r.fail("delete", err)
	}
	return nil
}

func toMedia(row db.Media) model.Media {
	return model.Media{
		ID:        row.ID,
		URL:       row.URL,
		Alt:       row.Alt,
		Width:     row.Width,
		Height:    row.Height,
		Type:      row.Type,
		Folder:    row.Folder,
		SizeBytes: row.SizeBytes,
		CreatedBy: row.CreatedBy,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}
