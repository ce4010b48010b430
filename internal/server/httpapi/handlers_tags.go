package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/planwise/planwise/internal/common"
	"github.com/planwise/planwise/internal/server/services"
)

type createTagRequest struct {
	Name    string `json:"tag_name"`
	Color   string `json:"color"`
	ClassID *int64 `json:"class_id"`
}

func (s *Server) handleCreateTag(c *gin.Context) {
	var req createTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, common.ErrInvalidArgument)
		return
	}

	tag, err := s.tags.Create(c.Request.Context(), currentUserID(c), services.NewTag{
		Name:    req.Name,
		Color:   req.Color,
		ClassID: req.ClassID,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"created": tag})
}

func (s *Server) handleDeleteTag(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		writeError(c, common.ErrInvalidArgument)
		return
	}

	if err := s.tags.Delete(c.Request.Context(), currentUserID(c), id); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

// tagPatchRequest uses pointer fields so that only keys present in the body
// are applied; zero values like an empty color still count as present.
type tagPatchRequest struct {
	Name    *string `json:"tag_name"`
	Color   *string `json:"color"`
	ClassID *int64  `json:"class_id"`
	Order   *int    `json:"_order"`
}

func (s *Server) handleEditTag(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		writeError(c, common.ErrInvalidArgument)
		return
	}

	var req tagPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, common.ErrInvalidArgument)
		return
	}

	tag, err := s.tags.Edit(c.Request.Context(), currentUserID(c), id, services.TagPatch{
		Name:    req.Name,
		Color:   req.Color,
		ClassID: req.ClassID,
		Order:   req.Order,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tag": tag})
}

func pathID(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}
