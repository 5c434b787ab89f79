package model

import "time"

// Settings is the site-wide singleton. At most one row exists; it is created
// lazily by the first update.
type Settings struct {
	ID           string            `json:"id"`
	SiteName     string            `json:"site_name"`
	Theme        string            `json:"theme"`
	PrimaryColor string            `json:"primary_color"`
	Social       map[string]string `json:"social"`
	Analytics    map[string]string `json:"analytics"`
	UpdatedBy    string            `json:"updated_by,omitempty"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// DefaultSettings is served before any settings row exists.
func DefaultSettings() Settings {
	return Settings{
		SiteName:     "Devmart",
		Theme:        "system",
		PrimaryColor: "#2563eb",
		Social:       map[string]string{},
		Analytics:    map[string]string{},
	}
}

type UpdateSettingsInput struct {
	SiteName     *string            `json:"site_name" validate:"omitempty,min=1,max=120"`
	Theme        *string            `json:"theme" validate:"omitempty,oneof=light dark system"`
	PrimaryColor *string            `json:"primary_color" validate:"omitempty,hexcolor"`
	Social       *map[string]string `json:"social" validate:"omitempty,max=12,dive,keys,min=1,max=40,endkeys,urlorpath"`
	Analytics    *map[string]string `json:"analytics" validate:"omitempty,max=12,dive,keys,min=1,max=40,endkeys,max=200"`
}

func (in UpdateSettingsInput) Normalize() UpdateSettingsInput {
	in.SiteName = trimPtr(in.SiteName)
	in.Theme = trimPtr(in.Theme)
	in.PrimaryColor = trimPtr(in.PrimaryColor)
	return in
}

func (in UpdateSettingsInput) Validate() error { return validate(in) }
