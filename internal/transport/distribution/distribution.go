package distribution

import (
	"net/http"

	"github.com/gin-gonic/gin"

	distsvc "github.com/alanyang/leadroute/internal/service/distributor"
	transportauth "github.com/alanyang/leadroute/internal/transport/auth"
)

func Register(rg *gin.RouterGroup, svc *distsvc.Service) {
	rg.GET("/", listDistributions(svc))
}

func listDistributions(svc *distsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		groups, err := svc.ListByOwner(c.Request.Context(), transportauth.OwnerID(c))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if groups == nil {
			groups = []distsvc.ScopeGroup{}
		}
		c.JSON(http.StatusOK, gin.H{"data": groups})
	}
}
