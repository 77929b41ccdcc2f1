package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sinc-lab/institute-service/internal/models"
	"github.com/sinc-lab/institute-service/internal/services"
	"github.com/sinc-lab/institute-service/internal/utils"
)

type ContentHandler struct {
	BaseHandler
	content services.ContentService
}

func NewContentHandler(content services.ContentService, logger utils.Logger) *ContentHandler {
	return &ContentHandler{
		BaseHandler: NewBaseHandler(logger),
		content:     content,
	}
}

// GetContent resolves localized site copy. Content serving degrades
// gracefully: a store failure still answers with the key as content so
// the page never renders blank.
// @Router /api/content [get]
func (h *ContentHandler) GetContent(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "bad_request",
			Message: "Query parameter 'key' is required",
		})
		return
	}

	language := models.DefaultLanguage
	if lang := c.Query("lang"); lang != "" {
		parsed, ok := models.ParseLanguage(lang)
		if !ok {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "validation_failed",
				Message: "Unsupported language code",
				Details: lang,
			})
			return
		}
		language = parsed
	}

	value, err := h.content.Resolve(c.Request.Context(), key, language)
	if err != nil {
		h.LogError(c, err, "Content resolution failed", "key", key)
		c.JSON(http.StatusInternalServerError, gin.H{"content": value})
		return
	}

	c.JSON(http.StatusOK, gin.H{"content": value})
}
