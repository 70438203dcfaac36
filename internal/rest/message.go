package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/likeboard/domain"
	"github.com/Guyuepp/likeboard/internal/repository"
	"github.com/Guyuepp/likeboard/internal/rest/request"
	"github.com/Guyuepp/likeboard/internal/rest/response"
)

// MessageHandler represent the httphandler for the message list views
type MessageHandler struct {
	Service domain.MessageUsecase
}

func NewMessageHandler(svc domain.MessageUsecase) *MessageHandler {
	return &MessageHandler{
		Service: svc,
	}
}

// FetchRecent will fetch one page of recent messages
func (h *MessageHandler) FetchRecent(c *gin.Context) {
	q := request.PageQuery{Size: repository.DefaultPageSize}
	if err := c.ShouldBindQuery(&q); err != nil {
		abortWithError(c, domain.ErrBadParamInput)
		return
	}
	if err := request.Validate(&q); err != nil {
		logrus.Debugf("invalid page query: %v", err)
		abortWithError(c, domain.ErrBadParamInput)
		return
	}

	list, err := h.Service.FetchRecent(c.Request.Context(), q.Page, q.Size)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewMessagesFromDomain(list))
}

// FetchHot will fetch the hot messages view
func (h *MessageHandler) FetchHot(c *gin.Context) {
	list, err := h.Service.FetchHot(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewMessagesFromDomain(list))
}
