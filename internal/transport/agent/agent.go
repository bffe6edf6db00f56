package agent

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainagent "github.com/alanyang/leadroute/internal/domain/agent"
	portagent "github.com/alanyang/leadroute/internal/port/agent"
	agentsvc "github.com/alanyang/leadroute/internal/service/agent"
	transportauth "github.com/alanyang/leadroute/internal/transport/auth"
)

func Register(rg *gin.RouterGroup, svc *agentsvc.Service) {
	rg.POST("/", createAgent(svc))
	rg.GET("/", listAgents(svc))
	rg.GET("/:id", getAgent(svc))
	rg.PUT("/:id", updateAgent(svc))
	rg.DELETE("/:id", deleteAgent(svc))
}

type createReq struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required"`
	Status   string `json:"status"`
}

func createAgent(svc *agentsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		a, err := svc.Create(c.Request.Context(), transportauth.OwnerID(c), agentsvc.CreateParams{
			Name:     req.Name,
			Email:    req.Email,
			Phone:    req.Phone,
			Password: req.Password,
			Status:   domainagent.Status(req.Status),
		})
		if err != nil {
			switch {
			case errors.Is(err, agentsvc.ErrEmailTaken),
				errors.Is(err, agentsvc.ErrInvalidPhone),
				errors.Is(err, agentsvc.ErrWeakPassword):
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			}
			return
		}
		c.JSON(http.StatusCreated, a)
	}
}

func listAgents(svc *agentsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		agents, err := svc.List(c.Request.Context(), transportauth.OwnerID(c))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if agents == nil {
			agents = []domainagent.Agent{}
		}
		c.JSON(http.StatusOK, agents)
	}
}

func getAgent(svc *agentsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		a, err := svc.GetByID(c.Request.Context(), transportauth.OwnerID(c), id)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, a)
	}
}

type updateReq struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Status   *string `json:"status"`
	Password *string `json:"password"`
}

func updateAgent(svc *agentsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		var req updateReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		params := agentsvc.UpdateParams{
			Name:     req.Name,
			Email:    req.Email,
			Phone:    req.Phone,
			Password: req.Password,
		}
		if req.Status != nil {
			s := domainagent.Status(*req.Status)
			if s != domainagent.StatusActive && s != domainagent.StatusInactive {
				c.JSON(http.StatusBadRequest, gin.H{"error": "status must be active or inactive"})
				return
			}
			params.Status = &s
		}

		a, err := svc.Update(c.Request.Context(), transportauth.OwnerID(c), id, params)
		if err != nil {
			switch {
			case errors.Is(err, portagent.ErrNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			case errors.Is(err, agentsvc.ErrInvalidPhone), errors.Is(err, agentsvc.ErrWeakPassword):
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			}
			return
		}
		c.JSON(http.StatusOK, a)
	}
}

func deleteAgent(svc *agentsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		if err := svc.Delete(c.Request.Context(), transportauth.OwnerID(c), id); err != nil {
			if errors.Is(err, portagent.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "deleted"})
	}
}
