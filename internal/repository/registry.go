package repository

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Registry keys, accepted by ClearRepository.
const (
	KeyServices  = "services"
	KeyProjects  = "projects"
	KeyBlogPosts = "blog_posts"
	KeyTeam      = "team"
	KeyFAQs      = "faqs"
	KeyMedia     = "media"
	KeyLeads     = "leads"
	KeySettings  = "settings"
)

var registryKeys = map[string]string{
	KeyServices:  "service",
	KeyProjects:  "project",
	KeyBlogPosts: "blog post",
	KeyTeam:      "team member",
	KeyFAQs:      "faq",
	KeyMedia:     "media",
	KeyLeads:     "lead",
	KeySettings:  "settings",
}

// Registry hands out one adapter per entity, created on first use. It is safe
// for concurrent use.
type Registry struct {
	db      *gorm.DB
	session Session
	log     zerolog.Logger

	mu    sync.Mutex
	repos map[string]any
}

// NewRegistry 创建仓储容器。session 为空时所有写入视为匿名。
func NewRegistry(gdb *gorm.DB, session Session, log zerolog.Logger) *Registry {
	if session == nil {
		session = anonymousSession{}
	}
	return &Registry{
		db:      gdb,
		session: session,
		log:     log.With().Str("component", "repository").Logger(),
		repos:   make(map[string]any),
	}
}

func (r *Registry) base(key string) base {
	return base{db: r.db, session: r.session, log: r.log, entity: registryKeys[key]}
}

func get[T any](r *Registry, key string, build func(base) T) T {
	r.mu.Lock()
	defer r.mu.Unlock()

	if repo, ok := r.repos[key]; ok {
		return repo.(T)
	}
	repo := build(r.base(key))
	r.repos[key] = repo
	return repo
}

func (r *Registry) Services() ServiceRepository {
	return get(r, KeyServices, func(b base) ServiceRepository { return &serviceRepo{base: b} })
}

func (r *Registry) Projects() ProjectRepository {
	return get(r, KeyProjects, func(b base) ProjectRepository { return &projectRepo{base: b} })
}

func (r *Registry) BlogPosts() BlogPostRepository {
	return get(r, KeyBlogPosts, func(b base) BlogPostRepository {
		return &blogPostRepo{base: b, now: time.Now}
	})
}

func (r *Registry) Team() TeamRepository {
	return get(r, KeyTeam, func(b base) TeamRepository { return &teamRepo{base: b} })
}

func (r *Registry) FAQs() FAQRepository {
	return get(r, KeyFAQs, func(b base) FAQRepository { return &faqRepo{base: b} })
}

func (r *Registry) Media() MediaRepository {
	return get(r, KeyMedia, func(b base) MediaRepository { return &mediaRepo{base: b} })
}

func (r *Registry) Leads() LeadRepository {
	return get(r, KeyLeads, func(b base) LeadRepository { return &leadRepo{base: b} })
}

func (r *Registry) Settings() SettingsRepository {
	return get(r, KeySettings, func(b base) SettingsRepository { return &settingsRepo{base: b} })
}

// Clear drops every cached adapter; the next accessor call builds a new one.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.repos = make(map[string]any)
}

// ClearRepository drops the adapter cached under key.
func (r *Registry) ClearRepository(key string) error {
	if _, ok := registryKeys[key]; !ok {
		return fmt.Errorf("unknown repository key %q", key)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.repos, key)
	return nil
}
