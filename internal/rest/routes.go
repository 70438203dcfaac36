package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/Guyuepp/likeboard/domain"
	"github.com/Guyuepp/likeboard/internal/rest/middleware"
)

// RegisterRoutes mounts the like and message routes on r. Recount is limited
// to the users in adminIDs.
func RegisterRoutes(r gin.IRouter, likes *LikeHandler, messages *MessageHandler, resolver domain.IdentityResolver, adminIDs []int64) {
	r.GET("/messages", messages.FetchRecent)
	r.GET("/messages/hot", messages.FetchHot)
	r.GET("/messages/:id/like/count", likes.Count)
	r.GET("/messages/:id/like/status", middleware.OptionalAuthMiddleware(resolver), likes.Status)

	authorized := r.Group("/")
	authorized.Use(middleware.AuthMiddleware(resolver))
	{
		authorized.POST("/messages/:id/like", likes.Like)
		authorized.DELETE("/messages/:id/like", likes.Unlike)
	}

	admin := r.Group("/")
	admin.Use(middleware.AuthMiddleware(resolver), middleware.AdminOnly(adminIDs))
	{
		admin.POST("/messages/:id/like/recount", likes.Recount)
	}
}
