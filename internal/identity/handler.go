package identity

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/mddapi/auth/authctx"
	apperrors "github.com/kbukum/mddapi/errors"
	"github.com/kbukum/mddapi/server"
	"github.com/kbukum/mddapi/server/middleware"
)

// HealthMessage is the plain-text body of GET /api/auth/health.
const HealthMessage = "Authentication service is running"

// Handler exposes the Service under /api/auth.
type Handler struct {
	svc *Service
}

// NewHandler creates the auth HTTP handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Register mounts the auth routes on r. The gate must already be installed on
// the engine; me and update-profile additionally require a principal.
func (h *Handler) Register(r gin.IRouter) {
	g := r.Group("/api/auth")
	g.POST("/register", h.register)
	g.POST("/login", h.login)
	g.POST("/logout", h.logout)
	g.GET("/health", h.health)

	protected := g.Group("", middleware.RequireAuth())
	protected.GET("/me", h.me)
	protected.PUT("/update-profile", h.updateProfile)
}

func (h *Handler) register(c *gin.Context) {
	var req RegisterRequest
	if err := server.BindJSON(c, &req); err != nil {
		server.RespondWithError(c, err)
		return
	}
	if err := req.Validate(); err != nil {
		server.RespondWithError(c, err)
		return
	}
	resp, err := h.svc.Register(c.Request.Context(), req)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondCreated(c, resp)
}

func (h *Handler) login(c *gin.Context) {
	var req LoginRequest
	if err := server.BindJSON(c, &req); err != nil {
		server.RespondWithError(c, err)
		return
	}
	if err := req.Validate(); err != nil {
		server.RespondWithError(c, err)
		return
	}
	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, resp)
}

func (h *Handler) me(c *gin.Context) {
	p, err := authctx.RequirePrincipal(c.Request.Context())
	if err != nil {
		server.RespondWithError(c, apperrors.InvalidToken(middleware.MsgAccessDenied))
		return
	}
	resp, err := h.svc.CurrentUser(c.Request.Context(), p.Email)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, resp)
}

func (h *Handler) updateProfile(c *gin.Context) {
	p, err := authctx.RequirePrincipal(c.Request.Context())
	if err != nil {
		server.RespondWithError(c, apperrors.InvalidToken(middleware.MsgAccessDenied))
		return
	}
	var req UpdateProfileRequest
	if err := server.BindJSON(c, &req); err != nil {
		server.RespondWithError(c, err)
		return
	}
	if err := req.Validate(); err != nil {
		server.RespondWithError(c, err)
		return
	}
	resp, err := h.svc.UpdateProfile(c.Request.Context(), p.Email, req)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, resp)
}

func (h *Handler) logout(c *gin.Context) {
	if err := h.svc.LogoutFromRequest(c.Request.Context(), c.GetHeader("Authorization")); err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondMessage(c, "Logout successful")
}

func (h *Handler) health(c *gin.Context) {
	c.String(http.StatusOK, HealthMessage)
}
