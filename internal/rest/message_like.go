package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Guyuepp/likeboard/domain"
	"github.com/Guyuepp/likeboard/internal/rest/request"
	"github.com/Guyuepp/likeboard/internal/rest/response"
)

// LikeHandler represent the httphandler for message likes
type LikeHandler struct {
	Service domain.LikeUsecase
	Worker  domain.RecountWorker
}

func NewLikeHandler(svc domain.LikeUsecase, w domain.RecountWorker) *LikeHandler {
	return &LikeHandler{
		Service: svc,
		Worker:  w,
	}
}

// Like adds the caller's like to a message
func (h *LikeHandler) Like(c *gin.Context) {
	id, ok := messageID(c)
	if !ok {
		return
	}

	state, err := h.Service.Like(c.Request.Context(), id, currentUserID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewLikeStateFromDomain(state))
}

// Unlike removes the caller's like from a message
func (h *LikeHandler) Unlike(c *gin.Context) {
	id, ok := messageID(c)
	if !ok {
		return
	}

	state, err := h.Service.Unlike(c.Request.Context(), id, currentUserID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewLikeStateFromDomain(state))
}

// Status reports whether the caller likes a message; anonymous callers get false
func (h *LikeHandler) Status(c *gin.Context) {
	id, ok := messageID(c)
	if !ok {
		return
	}

	liked, err := h.Service.IsLiked(c.Request.Context(), id, currentUserID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.LikeStatus{Liked: liked})
}

func (h *LikeHandler) Count(c *gin.Context) {
	id, ok := messageID(c)
	if !ok {
		return
	}

	count, err := h.Service.LikeCount(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.LikeCount{Count: count})
}

// Recount queues a counter repair for a message
func (h *LikeHandler) Recount(c *gin.Context) {
	id, ok := messageID(c)
	if !ok {
		return
	}

	h.Worker.Send(id)
	c.JSON(http.StatusAccepted, response.Queued{Queued: true})
}

func messageID(c *gin.Context) (int64, bool) {
	var uri request.MessageURI
	if err := c.ShouldBindUri(&uri); err != nil {
		abortWithError(c, domain.ErrBadParamInput)
		return 0, false
	}
	if err := request.Validate(&uri); err != nil {
		abortWithError(c, domain.ErrBadParamInput)
		return 0, false
	}
	return uri.ID, true
}
