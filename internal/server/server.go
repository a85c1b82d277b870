package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/unusco/unus/internal/auth"
	authdomain "github.com/unusco/unus/internal/auth/domain"
	"github.com/unusco/unus/internal/config"
	"github.com/unusco/unus/internal/group"
	groupdomain "github.com/unusco/unus/internal/group/domain"
	"github.com/unusco/unus/internal/invitation"
	invitationdomain "github.com/unusco/unus/internal/invitation/domain"
	obslogger "github.com/unusco/unus/internal/observability/logger"
	obsmetrics "github.com/unusco/unus/internal/observability/metrics"
	obstracing "github.com/unusco/unus/internal/observability/tracing"
	"github.com/unusco/unus/internal/space"
	spacedomain "github.com/unusco/unus/internal/space/domain"
	"github.com/unusco/unus/internal/user"
	userdomain "github.com/unusco/unus/internal/user/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	auth.Module,
	user.Module,
	space.Module,
	group.Module,
	invitation.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(log))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(log *zap.Logger, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(log, httpMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine        *gin.Engine
	authSvc       authdomain.Service
	userSvc       userdomain.Service
	spaceSvc      spacedomain.Service
	groupSvc      groupdomain.Service
	invitationSvc invitationdomain.Service
}

type ServerParams struct {
	fx.In

	Engine        *gin.Engine
	AuthSvc       authdomain.Service
	UserSvc       userdomain.Service
	SpaceSvc      spacedomain.Service
	GroupSvc      groupdomain.Service
	InvitationSvc invitationdomain.Service
}

func NewServer(p ServerParams) *Server {
	s := &Server{
		engine:        p.Engine,
		authSvc:       p.AuthSvc,
		userSvc:       p.UserSvc,
		spaceSvc:      p.SpaceSvc,
		groupSvc:      p.GroupSvc,
		invitationSvc: p.InvitationSvc,
	}

	api := s.engine.Group("/api")
	api.POST("/signup", s.Signup)
	api.POST("/login", s.Login)

	authed := api.Group("/auth")
	authed.Use(s.AuthMiddleware())
	s.registerAccountRoutes(authed)
	s.registerSpaceRoutes(authed)
	s.registerGroupRoutes(authed)
	s.registerInvitationRoutes(authed)

	return s
}

func (s *Server) registerAccountRoutes(g *gin.RouterGroup) {
	g.DELETE("/account", s.RemoveAccount)
}

func (s *Server) registerSpaceRoutes(g *gin.RouterGroup) {
	g.POST("/spaces", s.CreateSpace)
	g.GET("/spaces/:code", s.GetSpaceByCode)
	g.DELETE("/spaces/:code", s.RemoveSpace)
	g.POST("/spaces/:code/join", s.JoinSpace)
	g.DELETE("/spaces/:code/leave", s.LeaveSpace)
	g.GET("/spaces/:code/members", s.GetSpaceMembers)
}

func (s *Server) registerGroupRoutes(g *gin.RouterGroup) {
	g.POST("/groups", s.CreateGroup)
	g.DELETE("/groups/:id", s.RemoveGroup)
}

func (s *Server) registerInvitationRoutes(g *gin.RouterGroup) {
	g.POST("/invitations", s.CreateInvitation)
	g.DELETE("/invitations/:id", s.RemoveInvitation)
	g.POST("/invitations/:id/accept", s.AcceptInvitation)
}
