package handler

import (
	"time"

	"github.com/devmart/internal/config"
	"github.com/devmart/internal/job"
	"github.com/devmart/internal/repository"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db        *gorm.DB
	reg       *repository.Registry
	jobs      job.Dispatcher
	log       zerolog.Logger
	baseURL   string
	uploadDir string
	uploadURL string
	now       func() time.Time
}

// NewAPI constructs a handler set. gdb is only used for admin authentication;
// content goes through the registry.
func NewAPI(gdb *gorm.DB, reg *repository.Registry, jobs job.Dispatcher, cfg config.AppConfig, log zerolog.Logger) *API {
	return &API{
		db:        gdb,
		reg:       reg,
		jobs:      jobs,
		log:       log.With().Str("component", "http").Logger(),
		baseURL:   cfg.SiteBaseURL,
		uploadDir: cfg.UploadDir,
		uploadURL: cfg.UploadURLPath,
		now:       time.Now,
	}
}

// Registry exposes the repository container.
func (a *API) Registry() *repository.Registry {
	return a.reg
}
