package router

import (
	"net/http"

	"github.com/devmart/internal/config"
	"github.com/devmart/internal/handler"
	"github.com/devmart/internal/logger"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const sessionName = "devmart_session"

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(api *handler.API, cfg config.AppConfig, log zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(logger.GinMiddleware(log), gin.Recovery())

	// 配置会话中间件
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   7 * 24 * 60 * 60,
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(sessionName, store))

	// 上传文件
	r.Static(cfg.UploadURLPath, cfg.UploadDir)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})
	r.GET("/sitemap.xml", api.Sitemap)
	r.GET("/robots.txt", api.Robots)

	// 公开接口
	public := r.Group("/api")
	{
		public.GET("/services", api.ListServices)
		public.GET("/services/:slug", api.GetService)
		public.GET("/projects", api.ListProjects)
		public.GET("/projects/:slug", api.GetProject)
		public.GET("/blog", api.ListBlogPosts)
		public.GET("/blog/:slug", api.GetBlogPost)
		public.GET("/team", api.ListTeam)
		public.GET("/team/:slug", api.GetTeamMember)
		public.GET("/faqs", api.ListFAQs)
		public.GET("/settings", api.GetSettings)
		public.POST("/leads", api.SubmitLead)
	}

	// 后台管理路由
	admin := r.Group("/admin")
	{
		admin.POST("/login", api.Login)
		admin.GET("/logout", api.Logout)

		// 需要认证的后台接口
		auth := admin.Group("/api")
		auth.Use(handler.AuthRequired())
		{
			auth.GET("/dashboard", api.Dashboard)

			auth.GET("/services", api.AdminListServices)
			auth.GET("/services/:id", api.AdminGetService)
			auth.POST("/services", api.AdminCreateService)
			auth.PUT("/services/:id", api.AdminUpdateService)
			auth.DELETE("/services/:id", api.AdminDeleteService)

			auth.GET("/projects", api.AdminListProjects)
			auth.GET("/projects/:id", api.AdminGetProject)
			auth.POST("/projects", api.AdminCreateProject)
			auth.PUT("/projects/:id", api.AdminUpdateProject)
			auth.DELETE("/projects/:id", api.AdminDeleteProject)

			auth.GET("/blog", api.AdminListBlogPosts)
			auth.GET("/blog/:id", api.AdminGetBlogPost)
			auth.POST("/blog", api.AdminCreateBlogPost)
			auth.PUT("/blog/:id", api.AdminUpdateBlogPost)
			auth.DELETE("/blog/:id", api.AdminDeleteBlogPost)

			auth.GET("/team", api.AdminListTeam)
			auth.GET("/team/:id", api.AdminGetTeamMember)
			auth.POST("/team", api.AdminCreateTeamMember)
			auth.PUT("/team/:id", api.AdminUpdateTeamMember)
			auth.DELETE("/team/:id", api.AdminDeleteTeamMember)

			auth.GET("/faqs", api.AdminListFAQs)
			auth.GET("/faqs/categories", api.AdminFAQCategories)
			auth.GET("/faqs/:id", api.AdminGetFAQ)
			auth.POST("/faqs", api.AdminCreateFAQ)
			auth.PUT("/faqs/:id", api.AdminUpdateFAQ)
			auth.DELETE("/faqs/:id", api.AdminDeleteFAQ)

			auth.GET("/media", api.AdminListMedia)
			auth.GET("/media/folders", api.AdminMediaFolders)
			auth.GET("/media/:id", api.AdminGetMedia)
			auth.POST("/media", api.AdminCreateMedia)
			auth.POST("/media/upload", api.UploadMedia)
			auth.PUT("/media/:id", api.AdminUpdateMedia)
			auth.DELETE("/media/:id", api.AdminDeleteMedia)

			// 线索不提供删除
			auth.GET("/leads", api.AdminListLeads)
			auth.GET("/leads/export", api.AdminExportLeads)
			auth.GET("/leads/:id", api.AdminGetLead)
			auth.PUT("/leads/:id", api.AdminUpdateLead)
			auth.PATCH("/leads/:id/status", api.AdminUpdateLeadStatus)

			auth.GET("/settings", api.AdminGetSettings)
			auth.PUT("/settings", api.AdminUpdateSettings)
		}
	}

	return r
}
