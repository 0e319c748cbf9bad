package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/foodgram-backend/internal/app/service"
	"github.com/ikkim/foodgram-backend/internal/middleware"
)

type TagController struct {
	tagService service.TagService
}

func NewTagController(tagService service.TagService) *TagController {
	return &TagController{tagService: tagService}
}

// ListTags GET /api/v1/tags
func (ctrl *TagController) ListTags(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	tags, err := ctrl.tagService.ListTags(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "list tags")
		return
	}

	log.Info("Tags listed", map[string]interface{}{
		"count": len(tags),
	})
	c.JSON(http.StatusOK, tags)
}

// GetTag GET /api/v1/tags/:id
func (ctrl *TagController) GetTag(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	tag, err := ctrl.tagService.GetTag(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "get tag")
		return
	}
	c.JSON(http.StatusOK, tag)
}
