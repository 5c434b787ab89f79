// Package sitemap builds sitemaps.org 0.9 documents from published content.
package sitemap

import (
	"context"
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/devmart/internal/model"
	"github.com/devmart/internal/repository"
)

const xmlns = "http://www.sitemaps.org/schemas/sitemap/0.9"

// StaticRoutes are always listed.
var StaticRoutes = []string{"/", "/about", "/services", "/projects", "/blog", "/team", "/faq", "/contact"}

// Source is the part of the repository registry the sitemap reads.
type Source interface {
	Services() repository.ServiceRepository
	Projects() repository.ProjectRepository
	BlogPosts() repository.BlogPostRepository
	Team() repository.TeamRepository
}

type URL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

type URLSet struct {
	XMLName xml.Name `xml:"urlset"`
	Xmlns   string   `xml:"xmlns,attr"`
	URLs    []URL    `xml:"url"`
}

// Build collects every URL and returns the encoded document.
func Build(ctx context.Context, src Source, baseURL string, now time.Time) ([]byte, error) {
	set, err := Collect(ctx, src, baseURL, now)
	if err != nil {
		return nil, err
	}
	body, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode sitemap: %w", err)
	}
	return append([]byte(xml.Header), body...), nil
}

// Collect lists static routes, published services, projects and posts, and
// every team member.
func Collect(ctx context.Context, src Source, baseURL string, now time.Time) (URLSet, error) {
	base := strings.TrimRight(baseURL, "/")
	set := URLSet{Xmlns: xmlns}

	add := func(path string, modified time.Time, freq, priority string) {
		set.URLs = append(set.URLs, URL{
			Loc:        base + path,
			LastMod:    modified.UTC().Format(time.DateOnly),
			ChangeFreq: freq,
			Priority:   priority,
		})
	}

	for _, route := range StaticRoutes {
		priority := "0.8"
		if route == "/" {
			priority = "1.0"
		}
		add(route, now, "weekly", priority)
	}

	published := model.ListFilter{Status: model.StatusPublished, Limit: model.MaxLimit}

	services, err := collectAll(func(offset int) ([]model.Service, error) {
		f := published
		f.Offset = offset
		return src.Services().FindAll(ctx, model.ServiceFilter{ListFilter: f})
	})
	if err != nil {
		return URLSet{}, err
	}
	for _, s := range services {
		add("/services/"+s.Slug, s.UpdatedAt, "monthly", "0.8")
	}

	projects, err := collectAll(func(offset int) ([]model.Project, error) {
		f := published
		f.Offset = offset
		return src.Projects().FindAll(ctx, model.ProjectFilter{ListFilter: f})
	})
	if err != nil {
		return URLSet{}, err
	}
	for _, p := range projects {
		add("/projects/"+p.Slug, p.UpdatedAt, "monthly", "0.7")
	}

	posts, err := collectAll(func(offset int) ([]model.BlogPost, error) {
		f := published
		f.Offset = offset
		return src.BlogPosts().FindAll(ctx, model.BlogPostFilter{ListFilter: f})
	})
	if err != nil {
		return URLSet{}, err
	}
	for _, p := range posts {
		add("/blog/"+p.Slug, p.UpdatedAt, "weekly", "0.7")
	}

	// 团队成员不区分状态
	members, err := collectAll(func(offset int) ([]model.TeamMember, error) {
		return src.Team().FindAll(ctx, model.TeamFilter{ListFilter: model.ListFilter{Limit: model.MaxLimit, Offset: offset}})
	})
	if err != nil {
		return URLSet{}, err
	}
	for _, m := range members {
		add("/team/"+m.Slug, m.UpdatedAt, "monthly", "0.5")
	}

	return set, nil
}

func collectAll[T any](page func(offset int) ([]T, error)) ([]T, error) {
	var all []T
	for {
		items, err := page(len(all))
		if err != nil {
			return nil, err
		}
		all = append(all, items...)
		if len(items) < model.MaxLimit {
			return all, nil
		}
	}
}

// Robots returns robots.txt pointing crawlers at the sitemap.
func Robots(baseURL string) string {
	base := strings.TrimRight(baseURL, "/")
	return "User-agent: *\nAllow: /\nDisallow: /admin/\n\nSitemap: " + base + "/sitemap.xml\n"
}
