package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/likeboard/domain"
	"github.com/Guyuepp/likeboard/internal/rest/middleware"
)

// ResponseError represent the response error struct
type ResponseError struct {
	Message string `json:"message"`
}

func abortWithError(c *gin.Context, err error) {
	status := getStatusCode(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = domain.ErrInternalServerError.Error()
	}
	c.AbortWithStatusJSON(status, ResponseError{Message: msg})
}

// getStatusCode maps domain errors onto HTTP status codes
func getStatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}

	switch {
	case errors.Is(err, domain.ErrAlreadyLiked),
		errors.Is(err, domain.ErrNotLiked),
		errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrMessageUnavailable),
		errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrBadParamInput):
		return http.StatusBadRequest
	default:
		logrus.Error(err)
		return http.StatusInternalServerError
	}
}

// currentUserID is AnonymousUserID when no auth middleware resolved a user
func currentUserID(c *gin.Context) int64 {
	if v, ok := c.Get(middleware.UserIDKey); ok {
		if uid, ok := v.(int64); ok {
			return uid
		}
	}
	return domain.AnonymousUserID
}
