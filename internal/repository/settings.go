package repository

import (
	"context"

	"github.com/devmart/internal/db"
	"github.com/devmart/internal/model"
)

type settingsRepo struct {
	base
}

// Get returns the singleton, or nil when it has not been written yet. If a
// concurrent first write produced duplicates, the oldest row wins.
func (r *settingsRepo) Get(ctx context.Context) (*model.Settings, error) {
	row, err := r.current(ctx)
	if err != nil {
		return nil, r.fail("fetch", err)
	}
	if row == nil {
		return nil, nil
	}
	out := toSettings(*row)
	return &out, nil
}

func (r *settingsRepo) current(ctx context.Context) (*db.Settings, error) {
	var rows []db.Settings
	if err := r.conn(ctx).Order("created_at asc").Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// Update inserts the singleton on first use and updates it by id afterwards.
// The check and the write are separate statements: two concurrent first
// writers can both insert.
func (r *settingsRepo) Update(ctx context.Context, in model.UpdateSettingsInput) (*model.Settings, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	actor, err := r.actor(ctx)
	if err != nil {
		return nil, r.fail("update", err)
	}

	row, err := r.current(ctx)
	if err != nil {
		return nil, r.fail("update", err)
	}

	if row == nil {
		defaults := model.DefaultSettings()
		fresh := db.Settings{
			SiteName:     defaults.SiteName,
			Theme:        defaults.Theme,
			PrimaryColor: defaults.PrimaryColor,
			Social:       defaults.Social,
			Analytics:    defaults.Analytics,
		}
		applySettings(&fresh, in)
		fresh.UpdatedBy = actor
		if err := r.conn(ctx).Create(&fresh).Error; err != nil {
			return nil, r.fail("create", err)
		}
		out := toSettings(fresh)
		return &out, nil
	}

	applySettings(row, in)
	row.UpdatedBy = actor
	if err := r.conn(ctx).Save(row).Error; err != nil {
		return nil, r.fail("update", err)
	}

	out := toSettings(*row)
	return &out, nil
}

func applySettings(row *db.Settings, in model.UpdateSettingsInput) {
	if in.SiteName != nil {
		row.SiteName = *in.SiteName
	}
	if in.Theme != nil {
		row.Theme = *in.Theme
	}
	if in.PrimaryColor != nil {
		row.PrimaryColor = *in.PrimaryColor
	}
	if in.Social != nil {
		row.Social = mapOrEmpty(*in.Social)
	}
	if in.Analytics != nil {
		row.Analytics = mapOrEmpty(*in.Analytics)
	}
}

func toSettings(row db.Settings) model.Settings {
	return model.Settings{
		ID:           row.ID,
		SiteName:     row.SiteName,
		Theme:        row.Theme,
		PrimaryColor: row.PrimaryColor,
		Social:       mapOrEmpty(row.Social),
		Analytics:    mapOrEmpty(row.Analytics),
		UpdatedBy:    row.UpdatedBy,
		UpdatedAt:    row.UpdatedAt,
	}
}
