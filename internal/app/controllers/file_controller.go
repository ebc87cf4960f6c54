package controllers

import (
	"os"

	"github.com/gin-gonic/gin"

	"github.com/emre/lmsphere/internal/middleware"
	"github.com/emre/lmsphere/internal/pkg/apperrors"
	"github.com/emre/lmsphere/internal/pkg/filestorage"
)

// FileController serves stored lesson files. Access requires authentication
// only; there is no per-course gate on downloads.
type FileController struct {
	storage filestorage.FileStorage
}

// NewFileController creates a new FileController
func NewFileController(storage filestorage.FileStorage) *FileController {
	return &FileController{storage: storage}
}

// DownloadFile godoc
// @Summary Download a stored file
// @Description Fetch stored bytes by stored name; any authenticated user
// @Tags files
// @Produce octet-stream
// @Security BearerAuth
// @Param name path string true "Stored file name"
// @Success 200 {file} binary
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /files/{name} [get]
func (c *FileController) DownloadFile(ctx *gin.Context) {
	name := ctx.Param("name")

	fullPath := c.storage.GetFullPath(name)
	if fullPath == "" {
		middleware.HandleAPIError(ctx, apperrors.ErrFileNotFound)
		return
	}

	// Bytes may be gone even when metadata survived a partial cleanup; that
	// is a NotFound, never a crash
	if _, err := os.Stat(fullPath); err != nil {
		middleware.HandleAPIError(ctx, apperrors.ErrFileNotFound)
		return
	}

	ctx.File(fullPath)
}
