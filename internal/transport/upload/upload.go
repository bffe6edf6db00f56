package upload

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/alanyang/leadroute/internal/domain/distribution"
	"github.com/alanyang/leadroute/internal/parse"
	distsvc "github.com/alanyang/leadroute/internal/service/distributor"
	transportauth "github.com/alanyang/leadroute/internal/transport/auth"
)

// Handler owns the upload boundary: it lands the multipart file in a temp
// directory, parses it, hands the records to the distributor, and removes the
// temp file on every exit path.
type Handler struct {
	dist      *distsvc.Service
	uploadDir string
}

func NewHandler(dist *distsvc.Service, uploadDir string) *Handler {
	return &Handler{dist: dist, uploadDir: uploadDir}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/", h.uploadAndDistribute)
}

// excelize reads OOXML workbooks only, so legacy BIFF .xls is not accepted.
var allowedExts = map[string]bool{
	".csv":  true,
	".xlsx": true,
}

func (h *Handler) uploadAndDistribute(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "please upload a file"})
		return
	}

	originalName := filepath.Base(fileHeader.Filename)
	ext := strings.ToLower(filepath.Ext(originalName))
	if !allowedExts[ext] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file format: only csv and xlsx are supported"})
		return
	}

	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not store upload"})
		return
	}
	tmp, err := os.CreateTemp(h.uploadDir, "upload-*"+ext)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not store upload"})
		return
	}
	tmpPath := tmp.Name()
	tmp.Close()
	// The parsed records outlive the file; nothing downstream reads it again.
	defer func() {
		if err := os.Remove(tmpPath); err != nil && !os.IsNotExist(err) {
			slog.Warn("failed to remove uploaded temp file", "path", tmpPath, "error", err)
		}
	}()

	if err := c.SaveUploadedFile(fileHeader, tmpPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not store upload"})
		return
	}

	records, err := parse.File(tmpPath)
	if err != nil {
		switch {
		case errors.Is(err, parse.ErrUnsupportedFormat),
			errors.Is(err, parse.ErrEmptyFile),
			errors.Is(err, parse.ErrMissingRequiredFields):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("could not parse file: %v", err)})
		}
		return
	}

	// The original file name is the distribution scope: re-uploading the same
	// name replaces that scope's batches.
	result, err := h.dist.Distribute(c.Request.Context(), transportauth.OwnerID(c), originalName, records)
	if err != nil {
		switch {
		case errors.Is(err, distribution.ErrNoRecords),
			errors.Is(err, distribution.ErrNoEligibleAgents):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "file uploaded and distributed successfully",
		"data":    result,
	})
}
