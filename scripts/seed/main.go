package main

import (
	"context"
	"fmt"

	"github.com/devmart/internal/config"
	"github.com/devmart/internal/db"
	"github.com/devmart/internal/logger"
	"github.com/devmart/internal/model"
	"github.com/devmart/internal/repository"
	"github.com/rs/zerolog"
)

// 演示数据生成器
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log := logger.New(cfg.Env)

	gdb, err := db.Open(cfg.DatabasePath, log)
	if err != nil {
		log.Fatal().Err(err).Msg("数据库初始化失败")
	}

	fmt.Println("开始生成演示数据...")

	reg := repository.NewRegistry(gdb, nil, log)
	report, err := seed(context.Background(), reg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("生成演示数据失败")
	}

	fmt.Println("演示数据生成完成！")
	fmt.Printf("服务: %d, 项目: %d, 文章: %d, 团队: %d, FAQ: %d\n",
		report.services, report.projects, report.posts, report.team, report.faqs)
}

type seedReport struct {
	services int
	projects int
	posts    int
	team     int
	faqs     int
}

// seed 写入演示内容，已存在的 slug 会被跳过，可以重复执行
func seed(ctx context.Context, reg *repository.Registry, log zerolog.Logger) (seedReport, error) {
	var report seedReport

	services := []model.CreateServiceInput{
		{Slug: "web-design", Title: "Web Design", Summary: "Responsive sites built around your brand.", Icon: "layout", OrderNum: 1, Status: model.StatusPublished},
		{Slug: "web-development", Title: "Web Development", Summary: "Custom applications and integrations.", Icon: "code", OrderNum: 2, Status: model.StatusPublished},
		{Slug: "hosting", Title: "Hosting & Maintenance", Summary: "Managed hosting with monitoring and backups.", Icon: "server", OrderNum: 3, Status: model.StatusPublished},
		{Slug: "seo", Title: "SEO", Summary: "Technical audits and content strategy.", Icon: "search", OrderNum: 4, Status: model.StatusDraft},
	}
	for _, in := range services {
		existing, err := reg.Services().FindBySlug(ctx, in.Slug)
		if err != nil {
			return report, err
		}
		if existing != nil {
			continue
		}
		if _, err := reg.Services().Create(ctx, in); err != nil {
			return report, err
		}
		report.services++
	}

	projects := []model.CreateProjectInput{
		{
			Slug: "surinaamse-bank-portal", Title: "Bank customer portal", Client: "Surinaamse Bank",
			Summary: "Self-service portal for retail customers.", Tech: []string{"Go", "React", "PostgreSQL"},
			CoverURL: "https://images.unsplash.com/photo-1563986768609-322da13575f3?auto=format&fit=crop&w=1600&q=80",
			Featured: true, Status: model.StatusPublished,
		},
		{
			Slug: "tourism-booking", Title: "Tourism booking platform", Client: "Visit Suriname",
			Summary: "Tour booking with online payments.", Tech: []string{"Go", "Vue"},
			Status: model.StatusPublished,
		},
		{
			Slug: "internal-crm", Title: "Internal CRM", Client: "Devmart",
			Summary: "Lead pipeline and reporting.", Tech: []string{"Go", "SQLite"},
			Status: model.StatusDraft,
		},
	}
	for _, in := range projects {
		existing, err := reg.Projects().FindBySlug(ctx, in.Slug)
		if err != nil {
			return report, err
		}
		if existing != nil {
			continue
		}
		if _, err := reg.Projects().Create(ctx, in); err != nil {
			return report, err
		}
		report.projects++
	}

	posts := []model.CreateBlogPostInput{
		{
			Slug: "choosing-a-tech-stack", Title: "Choosing a tech stack in 2024",
			Excerpt: "What we weigh when starting a new client project.",
			Body:    "## Start from the team\n\nThe best stack is the one your team can maintain.\n\n- Go for services\n- SQLite until it hurts",
			Tags:    []string{"engineering", "go"}, Featured: true, Status: model.StatusPublished,
		},
		{
			Slug: "why-site-speed-matters", Title: "Why site speed matters",
			Excerpt: "Faster pages convert better.",
			Body:    "Every 100ms counts. Measure first, then optimise images and caching.",
			Tags:    []string{"performance"}, Status: model.StatusPublished,
		},
		{
			Slug: "our-design-process", Title: "Our design process",
			Body: "Draft notes on discovery workshops.",
			Tags: []string{"design"}, Status: model.StatusDraft,
		},
	}
	for _, in := range posts {
		existing, err := reg.BlogPosts().FindBySlug(ctx, in.Slug)
		if err != nil {
			return report, err
		}
		if existing != nil {
			continue
		}
		if _, err := reg.BlogPosts().Create(ctx, in); err != nil {
			return report, err
		}
		report.posts++
	}

	team := []model.CreateTeamMemberInput{
		{Slug: "ravi", Name: "Ravi Ramdin", Role: "Founder", Bio: "Builds web products since 2010.", OrderNum: 1,
			Socials: map[string]string{"linkedin": "https://www.linkedin.com/in/example"}},
		{Slug: "anisha", Name: "Anisha Jagroep", Role: "Lead Designer", OrderNum: 2},
		{Slug: "marco", Name: "Marco Pinas", Role: "Backend Engineer", OrderNum: 3},
	}
	for _, in := range team {
		existing, err := reg.Team().FindBySlug(ctx, in.Slug)
		if err != nil {
			return report, err
		}
		if existing != nil {
			continue
		}
		if _, err := reg.Team().Create(ctx, in); err != nil {
			return report, err
		}
		report.team++
	}

	// FAQ 没有 slug，表里已有数据就整体跳过
	count, err := reg.FAQs().Count(ctx, model.FAQFilter{})
	if err != nil {
		return report, err
	}
	if count == 0 {
		faqs := []model.CreateFAQInput{
			{Category: "General", Question: "Where are you based?", Answer: "Paramaribo, Suriname. We work with clients worldwide.", OrderNum: 1},
			{Category: "General", Question: "How long does a website take?", Answer: "Most sites launch within four to eight weeks.", OrderNum: 2},
			{Category: "Pricing", Question: "Do you offer fixed quotes?", Answer: "Yes, after a short discovery call.", OrderNum: 1},
			{Category: "Support", Question: "Do you maintain sites after launch?", Answer: "Our hosting plans include updates and monitoring.", OrderNum: 1},
		}
		for _, in := range faqs {
			if _, err := reg.FAQs().Create(ctx, in); err != nil {
				return report, err
			}
			report.faqs++
		}
	}

	current, err := reg.Settings().Get(ctx)
	if err != nil {
		return report, err
	}
	if current == nil {
		name := "Devmart"
		social := map[string]string{"facebook": "https://www.facebook.com/devmart"}
		if _, err := reg.Settings().Update(ctx, model.UpdateSettingsInput{SiteName: &name, Social: &social}); err != nil {
			return report, err
		}
	}

	log.Info().
		Int("services", report.services).
		Int("projects", report.projects).
		Int("posts", report.posts).
		Int("team", report.team).
		Int("faqs", report.faqs).
		Msg("seed finished")
	return report, nil
}
