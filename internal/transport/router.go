package transport

import (
	"github.com/gin-gonic/gin"

	agentsvc "github.com/alanyang/leadroute/internal/service/agent"
	authsvc "github.com/alanyang/leadroute/internal/service/auth"
	distsvc "github.com/alanyang/leadroute/internal/service/distributor"

	agenthandler "github.com/alanyang/leadroute/internal/transport/agent"
	authhandler "github.com/alanyang/leadroute/internal/transport/auth"
	disthandler "github.com/alanyang/leadroute/internal/transport/distribution"
	uploadhandler "github.com/alanyang/leadroute/internal/transport/upload"
	"github.com/alanyang/leadroute/internal/transport/ws"
)

func NewRouter(
	authSvc *authsvc.Service,
	agentSvc *agentsvc.Service,
	distSvc *distsvc.Service,
	hub *ws.Hub,
	uploadDir string,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(RequestLogger())
	r.Use(CORSMiddleware())

	api := r.Group("/api")

	authhandler.Register(api.Group("/auth"), authSvc)

	// Everything below is owner-scoped.
	authed := api.Group("", authhandler.Required(authSvc))
	agenthandler.Register(authed.Group("/agents"), agentSvc)
	disthandler.Register(authed.Group("/distributions"), distSvc)
	uploadhandler.NewHandler(distSvc, uploadDir).Register(authed.Group("/uploads"))
	hub.Register(authed.Group("/ws"))

	return r
}
