package feed

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/mddapi/auth/authctx"
	apperrors "github.com/kbukum/mddapi/errors"
	"github.com/kbukum/mddapi/server"
	"github.com/kbukum/mddapi/server/middleware"
)

// Handler exposes the feed under /api/themes, /api/articles and /api/comments.
// Every route requires an authenticated principal.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Register mounts the feed routes on r.
func (h *Handler) Register(r gin.IRouter) {
	api := r.Group("/api", middleware.RequireAuth())

	themes := api.Group("/themes")
	themes.POST("", h.createTheme)
	themes.GET("", h.listThemes)
	themes.GET("/subscriptions", h.subscriptions)
	themes.GET("/:id", h.getTheme)
	themes.PUT("/:id", h.updateTheme)
	themes.DELETE("/:id", h.deleteTheme)
	themes.POST("/:id/subscribe", h.subscribe)
	themes.DELETE("/:id/subscribe", h.unsubscribe)

	articles := api.Group("/articles")
	articles.POST("", h.createArticle)
	articles.GET("", h.listArticles)
	articles.GET("/my-articles", h.myArticles)
	articles.GET("/search", h.searchArticles)
	articles.GET("/by-theme/:themeId", h.articlesByTheme)
	articles.GET("/:id", h.getArticle)
	articles.PUT("/:id", h.updateArticle)
	articles.DELETE("/:id", h.deleteArticle)

	comments := api.Group("/comments")
	comments.POST("", h.createComment)
	comments.GET("/my-comments", h.myComments)
	comments.GET("/article/:articleId", h.commentsByArticle)
	comments.GET("/:id", h.getComment)
	comments.DELETE("/:id", h.deleteComment)
}

// --- Themes ---

func (h *Handler) createTheme(c *gin.Context) {
	var req ThemeRequest
	if !bind(c, &req) {
		return
	}
	resp, err := h.svc.CreateTheme(c.Request.Context(), req)
	reply(c, server.RespondCreated, resp, err)
}

func (h *Handler) listThemes(c *gin.Context) {
	resp, err := h.svc.ListThemes(c.Request.Context())
	reply(c, server.RespondOK, resp, err)
}

func (h *Handler) getTheme(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.GetTheme(c.Request.Context(), id)
	reply(c, server.RespondOK, resp, err)
}

func (h *Handler) updateTheme(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req ThemeRequest
	if !bind(c, &req) {
		return
	}
	resp, err := h.svc.UpdateTheme(c.Request.Context(), id, req)
	reply(c, server.RespondOK, resp, err)
}

func (h *Handler) deleteTheme(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	noContent(c, h.svc.DeleteTheme(c.Request.Context(), id))
}

func (h *Handler) subscribe(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Subscribe(c.Request.Context(), p, id); err != nil {
		server.RespondWithError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (h *Handler) unsubscribe(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Unsubscribe(c.Request.Context(), p, id); err != nil {
		server.RespondWithError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (h *Handler) subscriptions(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	resp, err := h.svc.Subscriptions(c.Request.Context(), p)
	reply(c, server.RespondOK, resp, err)
}

// --- Articles ---

func (h *Handler) createArticle(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req ArticleRequest
	if !bind(c, &req) {
		return
	}
	resp, err := h.svc.CreateArticle(c.Request.Context(), p, req)
	reply(c, server.RespondCreated, resp, err)
}

func (h *Handler) listArticles(c *gin.Context) {
	resp, err := h.svc.ListArticles(c.Request.Context(), ArticleFilter{})
	reply(c, server.RespondOK, resp, err)
}

func (h *Handler) myArticles(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	resp, err := h.svc.ListArticles(c.Request.Context(), ArticleFilter{AuthorID: p.ID})
	reply(c, server.RespondOK, resp, err)
}

func (h *Handler) searchArticles(c *gin.Context) {
	keyword := strings.TrimSpace(c.Query("keyword"))
	if keyword == "" {
		server.RespondWithError(c, apperrors.BadRequest("Keyword is required"))
		return
	}
	resp, err := h.svc.ListArticles(c.Request.Context(), ArticleFilter{Keyword: keyword})
	reply(c, server.RespondOK, resp, err)
}

func (h *Handler) articlesByTheme(c *gin.Context) {
	themeID, ok := pathID(c, "themeId")
	if !ok {
		return
	}
	resp, err := h.svc.ListArticles(c.Request.Context(), ArticleFilter{ThemeID: themeID})
	reply(c, server.RespondOK, resp, err)
}

func (h *Handler) getArticle(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.GetArticle(c.Request.Context(), id)
	reply(c, server.RespondOK, resp, err)
}

func (h *Handler) updateArticle(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req ArticleRequest
	if !bind(c, &req) {
		return
	}
	resp, err := h.svc.UpdateArticle(c.Request.Context(), p, id, req)
	reply(c, server.RespondOK, resp, err)
}

func (h *Handler) deleteArticle(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	noContent(c, h.svc.DeleteArticle(c.Request.Context(), p, id))
}

// --- Comments ---

func (h *Handler) createComment(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req CommentRequest
	if !bind(c, &req) {
		return
	}
	resp, err := h.svc.CreateComment(c.Request.Context(), p, req)
	reply(c, server.RespondCreated, resp, err)
}

func (h *Handler) commentsByArticle(c *gin.Context) {
	articleID, ok := pathID(c, "articleId")
	if !ok {
		return
	}
	resp, err := h.svc.CommentsByArticle(c.Request.Context(), articleID)
	reply(c, server.RespondOK, resp, err)
}

func (h *Handler) myComments(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	resp, err := h.svc.CommentsByAuthor(c.Request.Context(), p)
	reply(c, server.RespondOK, resp, err)
}

func (h *Handler) getComment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.GetComment(c.Request.Context(), id)
	reply(c, server.RespondOK, resp, err)
}

func (h *Handler) deleteComment(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	noContent(c, h.svc.DeleteComment(c.Request.Context(), p, id))
}

// --- helpers ---

type validatable interface {
	Validate() error
}

// bind decodes and validates the body, writing the error response on failure.
func bind(c *gin.Context, req validatable) bool {
	if err := server.BindJSON(c, req); err != nil {
		server.RespondWithError(c, err)
		return false
	}
	if err := req.Validate(); err != nil {
		server.RespondWithError(c, err)
		return false
	}
	return true
}

func reply(c *gin.Context, ok func(*gin.Context, any), v any, err error) {
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	ok(c, v)
}

func noContent(c *gin.Context, err error) {
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondNoContent(c)
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		server.RespondWithError(c, apperrors.BadRequest("Invalid "+name+": "+c.Param(name)))
		return 0, false
	}
	return id, true
}

func principal(c *gin.Context) (authctx.Principal, bool) {
	p, err := authctx.RequirePrincipal(c.Request.Context())
	if err != nil {
		server.RespondWithError(c, apperrors.InvalidToken(middleware.MsgAccessDenied))
		return authctx.Principal{}, false
	}
	return p, true
}
