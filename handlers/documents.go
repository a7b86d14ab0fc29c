// File: handlers/documents.go
package handlers

import (
	"net/http"

	"concierge/models"
	"concierge/services/documents"
	"concierge/services/rag"
	"concierge/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DocumentHandler ingests uploaded files into the retrieval index.
type DocumentHandler struct {
	retriever *rag.Retriever
	logger    *zap.Logger
}

func NewDocumentHandler(retriever *rag.Retriever, logger *zap.Logger) *DocumentHandler {
	return &DocumentHandler{retriever: retriever, logger: logger}
}

// HandleIngest accepts a multipart upload under the "files" field. A file
// that fails extraction is skipped and reported; the rest are ingested.
func (h *DocumentHandler) HandleIngest(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid upload", err.Error())
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		utils.JSONError(c, http.StatusBadRequest, "Invalid upload", "no files provided")
		return
	}

	var docs []models.Document
	var events []models.StatusEvent
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			h.logger.Warn("skipping unreadable upload", zap.String("file", fh.Filename), zap.Error(err))
			events = append(events, models.StatusEvent{Kind: "extract_failed", Message: fh.Filename + ": " + err.Error()})
			continue
		}
		doc, err := documents.Extract(fh.Filename, f)
		f.Close()
		if err != nil {
			h.logger.Warn("skipping document: extraction failed", zap.String("file", fh.Filename), zap.Error(err))
			events = append(events, models.StatusEvent{Kind: "extract_failed", Message: err.Error()})
			continue
		}
		docs = append(docs, doc)
	}

	indexed := 0
	if len(docs) > 0 {
		indexed, err = h.retriever.Ingest(c.Request.Context(), docs)
		if err != nil {
			h.logger.Error("ingestion failed", zap.Error(err))
			utils.JSONError(c, http.StatusInternalServerError, "Failed to ingest documents", err.Error())
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"documents": len(docs),
		"chunks":    indexed,
		"events":    events,
	})
}
