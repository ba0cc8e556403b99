package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/document-manager/internal/logger"
	"github.com/jonesrussell/document-manager/internal/repository"
)

// DocumentHandler serves the read side of the ingested document corpus.
type DocumentHandler struct {
	repo   *repository.DocumentRepository
	logger logger.Logger
}

func NewDocumentHandler(repo *repository.DocumentRepository, log logger.Logger) *DocumentHandler {
	return &DocumentHandler{
		repo:   repo,
		logger: log,
	}
}

func (h *DocumentHandler) List(c *gin.Context) {
	documents, err := h.repo.List(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list documents",
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list documents"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"documents": documents,
		"count":     len(documents),
	})
}

func (h *DocumentHandler) GetByID(c *gin.Context) {
	id := c.Param("id")

	document, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		h.logger.Debug("Document not found",
			logger.String("document_id", id),
			logger.Error(err),
		)
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
		return
	}

	c.JSON(http.StatusOK, document)
}
