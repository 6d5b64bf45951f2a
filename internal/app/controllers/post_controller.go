package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/communityadmin/internal/app/models"
	"github.com/yigit/communityadmin/internal/app/models/dto"
	"github.com/yigit/communityadmin/internal/app/pages"
	"github.com/yigit/communityadmin/internal/middleware"
	"github.com/yigit/communityadmin/internal/pkg/apperrors"
)

// PostController handles community posts and their comment threads
type PostController struct{}

// NewPostController creates a new PostController
func NewPostController() *PostController {
	return &PostController{}
}

// GetCommunityPosts loads the posts of a community
// @Router /console/communities/{id}/posts [get]
func (c *PostController) GetCommunityPosts(ctx *gin.Context) {
	ws, ok := workspaceOf(ctx)
	if !ok {
		return
	}
	page := ws.Posts(ctx.Param("id"))
	_ = page.Mount(ctx.Request.Context())
	respond(ctx, http.StatusOK, page.Store.Items(), "")
}

// CreatePost publishes a post in a community
// @Router /console/communities/{id}/posts [post]
func (c *PostController) CreatePost(ctx *gin.Context) {
	ws, ok := workspaceOf(ctx)
	if !ok {
		return
	}
	var req dto.CreatePostRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	post, err := ws.Posts(ctx.Param("id")).Publish(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, post, "Post published")
}

// DeletePost removes a post from the page showing it
// @Router /console/posts/{id} [delete]
func (c *PostController) DeletePost(ctx *gin.Context) {
	page, ok := c.postsShowing(ctx)
	if !ok {
		return
	}
	if err := page.Delete(ctx.Request.Context(), ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, nil, "Post deleted")
}

// LikePost likes a post
// @Router /console/posts/{id}/like [post]
func (c *PostController) LikePost(ctx *gin.Context) {
	c.setPostLiked(ctx, true)
}

// UnlikePost removes the like from a post
// @Router /console/posts/{id}/like [delete]
func (c *PostController) UnlikePost(ctx *gin.Context) {
	c.setPostLiked(ctx, false)
}

func (c *PostController) setPostLiked(ctx *gin.Context, liked bool) {
	page, ok := c.postsShowing(ctx)
	if !ok {
		return
	}
	id := ctx.Param("id")
	if err := page.SetLiked(ctx.Request.Context(), id, liked); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	post, _ := page.Store.Find(id)
	respond(ctx, http.StatusOK, post, "")
}

// GetComments loads the comments of a post
// @Router /console/posts/{id}/comments [get]
func (c *PostController) GetComments(ctx *gin.Context) {
	ws, ok := workspaceOf(ctx)
	if !ok {
		return
	}
	section := ws.Comments(ctx.Param("id"))
	_ = section.Mount(ctx.Request.Context())
	respond(ctx, http.StatusOK, section.Store.Items(), "")
}

// AddComment posts a comment and bumps the post's comment counter
// @Router /console/posts/{id}/comments [post]
func (c *PostController) AddComment(ctx *gin.Context) {
	ws, ok := workspaceOf(ctx)
	if !ok {
		return
	}
	var req dto.CreateCommentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	comment, err := ws.Comments(ctx.Param("id")).Add(ctx.Request.Context(), req.Content)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, comment, "")
}

// LikeComment likes a comment
// @Router /console/comments/{id}/like [post]
func (c *PostController) LikeComment(ctx *gin.Context) {
	c.setCommentLiked(ctx, true)
}

// UnlikeComment removes the like from a comment
// @Router /console/comments/{id}/like [delete]
func (c *PostController) UnlikeComment(ctx *gin.Context) {
	c.setCommentLiked(ctx, false)
}

func (c *PostController) setCommentLiked(ctx *gin.Context, liked bool) {
	ws, ok := workspaceOf(ctx)
	if !ok {
		return
	}
	id := ctx.Param("id")
	section, found := ws.CommentsShowing(id)
	if !found {
		middleware.HandleAPIError(ctx, notShown("comment", id))
		return
	}
	if err := section.SetLiked(ctx.Request.Context(), id, liked); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	comment, _ := section.Store.Find(id)
	respond(ctx, http.StatusOK, comment, "")
}

// postsShowing finds the loaded posts page holding the post in the path
func (c *PostController) postsShowing(ctx *gin.Context) (*pages.PostsPage, bool) {
	ws, ok := workspaceOf(ctx)
	if !ok {
		return nil, false
	}
	id := ctx.Param("id")
	page, found := ws.PostsShowing(id)
	if !found {
		middleware.HandleAPIError(ctx, notShown("post", id))
		return nil, false
	}
	return page, true
}

// notShown rejects acting on an entity no loaded page holds. Placeholder ids
// get the same message a delete on them would.
func notShown(resource, id string) error {
	if models.IsPlaceholderID(id) {
		return apperrors.NewPlaceholderError(resource)
	}
	return &apperrors.Error{
		Kind:    apperrors.KindValidation,
		Message: "Load the " + resource + " before changing it",
		Err:     apperrors.ErrNotFound,
	}
}
