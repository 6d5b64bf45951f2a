package client

import (
	"context"

	"github.com/yigit/communityadmin/internal/app/models"
	"github.com/yigit/communityadmin/internal/app/models/dto"
)

// CommentsAPI wraps post comments and comment likes
type CommentsAPI struct {
	c        *Client
	posts    *Resource[models.Comment]
	comments *Resource[models.Comment]
}

// NewCommentsAPI creates the comments client
func NewCommentsAPI(c *Client) *CommentsAPI {
	return &CommentsAPI{
		c:        c,
		posts:    NewResource[models.Comment](c, "/api/posts", "post"),
		comments: NewResource[models.Comment](c, "/api/comments", "comment"),
	}
}

// ListForPost fetches the comments of a post
func (a *CommentsAPI) ListForPost(ctx context.Context, postID string) ([]models.Comment, error) {
	var out []models.Comment
	if err := a.c.Get(ctx, a.posts.Path(postID, "comments"), nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.Comment{}
	}
	return out, nil
}

// Add posts a comment and returns it as stored
func (a *CommentsAPI) Add(ctx context.Context, postID, content string) (models.Comment, error) {
	var out models.Comment
	err := a.c.Post(ctx, a.posts.Path(postID, "comments"), dto.CreateCommentRequest{Content: content}, &out)
	return out, err
}

// Like likes a comment
func (a *CommentsAPI) Like(ctx context.Context, id string) error {
	return a.c.Post(ctx, a.comments.Path(id, "like"), nil, nil)
}

// Unlike removes the current user's like from a comment
func (a *CommentsAPI) Unlike(ctx context.Context, id string) error {
	return a.c.Delete(ctx, a.comments.Path(id, "like"), nil)
}
