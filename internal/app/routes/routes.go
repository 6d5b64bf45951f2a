package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/communityadmin/internal/app/controllers"
	"github.com/yigit/communityadmin/internal/app/models/dto"
	"github.com/yigit/communityadmin/internal/middleware"
)

// Controllers groups every console controller
type Controllers struct {
	Auth         *controllers.AuthController
	Community    *controllers.CommunityController
	Modal        *controllers.ModalController
	Post         *controllers.PostController
	Event        *controllers.EventController
	Announcement *controllers.AnnouncementController
	Notification *controllers.NotificationController
}

// SetupRouter configures all console routes. workspace attaches the caller's
// workspace and must run before every /console handler.
func SetupRouter(router *gin.Engine, c Controllers, workspace gin.HandlerFunc, authMiddleware *middleware.AuthMiddleware) {
	console := router.Group("/console")
	console.Use(workspace)

	// --- Public routes ---
	auth := console.Group("/auth")
	{
		auth.POST("/login", c.Auth.Login)
		auth.POST("/logout", c.Auth.Logout)
		auth.POST("/signup", c.Auth.Signup)
	}
	console.GET("/me", c.Auth.Me)
	console.GET("/notifications", c.Notification.Drain)

	// --- Signed-in routes ---
	authenticated := console.Group("")
	authenticated.Use(authMiddleware.SessionRequired())
	{
		authenticated.PUT("/me", c.Auth.UpdateMe)
		authenticated.PUT("/me/photo", c.Auth.UploadPhoto)

		modals := authenticated.Group("/modals/:name")
		{
			modals.POST("/open", c.Modal.Open)
			modals.POST("/close", c.Modal.Close)
			modals.POST("/dismiss", c.Modal.Dismiss)
		}

		communities := authenticated.Group("/communities")
		{
			communities.GET("", c.Community.GetAllCommunities)
			communities.POST("", c.Community.CreateCommunity)
			communities.POST("/refresh", c.Community.RefreshCommunities)
			communities.POST("/modal/open", c.Modal.Open)
			communities.POST("/modal/dismiss", c.Modal.Dismiss)
			communities.PUT("/:id", c.Community.UpdateCommunity)
			communities.DELETE("/:id", c.Community.DeleteCommunity)

			communities.GET("/:id/invite", c.Community.GetInvite)
			communities.POST("/:id/invite/send", c.Community.SendInvite)

			communities.GET("/:id/posts", c.Post.GetCommunityPosts)
			communities.POST("/:id/posts", c.Post.CreatePost)
		}

		posts := authenticated.Group("/posts")
		{
			posts.DELETE("/:id", c.Post.DeletePost)
			posts.POST("/:id/like", c.Post.LikePost)
			posts.DELETE("/:id/like", c.Post.UnlikePost)
			posts.GET("/:id/comments", c.Post.GetComments)
			posts.POST("/:id/comments", c.Post.AddComment)
		}

		comments := authenticated.Group("/comments")
		{
			comments.POST("/:id/like", c.Post.LikeComment)
			comments.DELETE("/:id/like", c.Post.UnlikeComment)
		}

		events := authenticated.Group("/events")
		{
			events.GET("", c.Event.GetEvents)
			events.POST("", c.Event.CreateEvent)
			events.PUT("/:id", c.Event.UpdateEvent)
			events.DELETE("/:id", c.Event.DeleteEvent)
			events.POST("/:id/enroll", c.Event.Enroll)
			events.DELETE("/:id/enroll", c.Event.Unenroll)

			// Admin-only statistics
			events.GET("/stats", authMiddleware.AdminRequired(), c.Event.GetStats)
		}

		announcements := authenticated.Group("/announcements")
		{
			announcements.GET("", c.Announcement.GetAnnouncements)
			announcements.POST("", c.Announcement.CreateAnnouncement)
			announcements.DELETE("/:id", c.Announcement.DeleteAnnouncement)
		}
	}

	// Health check endpoint (public)
	router.GET("/ping", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, dto.NewStructuredResponse(gin.H{"status": "ok"}, "pong"))
	})
}
