package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authsvc "github.com/alanyang/leadroute/internal/service/auth"
)

// ownerIDKey is the gin context key Required stores the authenticated
// owner's ID under.
const ownerIDKey = "ownerID"

func Register(rg *gin.RouterGroup, svc *authsvc.Service) {
	rg.POST("/register", registerUser(svc))
	rg.POST("/login", login(svc))
	rg.GET("/me", Required(svc), me(svc))
}

// Required validates the bearer token and stashes the owner ID for handlers.
// Everything behind it is owner-scoped.
func Required(svc *authsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		ownerID, err := svc.VerifyToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(ownerIDKey, ownerID)
		c.Next()
	}
}

// OwnerID returns the authenticated owner's ID set by Required.
func OwnerID(c *gin.Context) uuid.UUID {
	id, _ := c.Get(ownerIDKey)
	ownerID, _ := id.(uuid.UUID)
	return ownerID
}

type registerReq struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func registerUser(svc *authsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req registerReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		u, err := svc.Register(c.Request.Context(), req.Name, req.Email, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, authsvc.ErrWeakPassword), errors.Is(err, authsvc.ErrEmailTaken):
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			}
			return
		}
		c.JSON(http.StatusCreated, u)
	}
}

type loginReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func login(svc *authsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		token, u, err := svc.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			if errors.Is(err, authsvc.ErrInvalidCredentials) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"token": token, "user": u})
	}
}

func me(svc *authsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := svc.GetByID(c.Request.Context(), OwnerID(c))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, u)
	}
}
