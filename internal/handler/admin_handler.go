package handler

import (
	"net/http"
	"strings"

	"github.com/devmart/internal/auth"
	"github.com/devmart/internal/db"
	"github.com/devmart/internal/model"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	sessionUserID   = "user_id"
	sessionUsername = "username"
)

type loginPayload struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// Login 校验管理员账号并写入会话，支持 JSON 与表单提交
func (a *API) Login(c *gin.Context) {
	var payload loginPayload
	if err := c.ShouldBind(&payload); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := db.Authenticate(a.db, payload.Username, payload.Password)
	if err != nil {
		a.log.Error().Err(err).Msg("authentication lookup failed")
		respondError(c, http.StatusInternalServerError, "login failed")
		return
	}
	if user == nil {
		respondError(c, http.StatusUnauthorized, "invalid username or password")
		return
	}

	session := sessions.Default(c)
	session.Set(sessionUserID, user.ID)
	session.Set(sessionUsername, user.Username)
	if err := session.Save(); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to save session")
		return
	}

	c.JSON(http.StatusOK, gin.H{"username": user.Username})
}

// Logout 清空会话
func (a *API) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		a.log.Warn().Err(err).Msg("failed to clear session")
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// AuthRequired rejects requests without an admin session and stores the
// actor in the request context for audit fields.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID, ok := session.Get(sessionUserID).(uint)
		if !ok || userID == 0 {
			respondError(c, http.StatusUnauthorized, "authentication required")
			c.Abort()
			return
		}
		username, _ := session.Get(sessionUsername).(string)

		ctx := auth.WithActor(c.Request.Context(), auth.Actor{UserID: userID, Username: username})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// Dashboard returns per-entity counts.
func (a *API) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()
	counts := gin.H{}

	type counter struct {
		key   string
		count func() (int64, error)
	}
	counters := []counter{
		{"services", func() (int64, error) { return a.reg.Services().Count(ctx, model.ServiceFilter{}) }},
		{"projects", func() (int64, error) { return a.reg.Projects().Count(ctx, model.ProjectFilter{}) }},
		{"blog_posts", func() (int64, error) { return a.reg.BlogPosts().Count(ctx, model.BlogPostFilter{}) }},
		{"team", func() (int64, error) { return a.reg.Team().Count(ctx, model.TeamFilter{}) }},
		{"faqs", func() (int64, error) { return a.reg.FAQs().Count(ctx, model.FAQFilter{}) }},
		{"media", func() (int64, error) { return a.reg.Media().Count(ctx, model.MediaFilter{}) }},
		{"leads", func() (int64, error) { return a.reg.Leads().Count(ctx, model.LeadFilter{}) }},
		{"new_leads", func() (int64, error) {
			return a.reg.Leads().Count(ctx, model.LeadFilter{ListFilter: model.ListFilter{Status: model.LeadStatusNew}})
		}},
	}
	for _, ct := range counters {
		n, err := ct.count()
		if err != nil {
			a.respondErr(c, err)
			return
		}
		counts[ct.key] = n
	}

	username, _ := sessions.Default(c).Get(sessionUsername).(string)
	c.JSON(http.StatusOK, gin.H{"username": strings.TrimSpace(username), "counts": counts})
}
