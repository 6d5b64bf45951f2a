package client

import (
	"context"

	"github.com/yigit/communityadmin/internal/app/models"
	"github.com/yigit/communityadmin/internal/app/models/dto"
	"github.com/yigit/communityadmin/internal/pkg/apperrors"
)

// rawPost adapts RawPost to Entity for the generic resource
type rawPost struct{ models.RawPost }

func (p rawPost) GetID() string { return p.ID }

// PostsAPI wraps /api/posts and the community post listing
type PostsAPI struct {
	c           *Client
	posts       *Resource[rawPost]
	communities *Resource[models.Community]
}

// NewPostsAPI creates the posts client
func NewPostsAPI(c *Client) *PostsAPI {
	return &PostsAPI{
		c:           c,
		posts:       NewResource[rawPost](c, "/api/posts", "post"),
		communities: NewResource[models.Community](c, "/api/communities", "community"),
	}
}

// ListByCommunity fetches the posts of a community
func (a *PostsAPI) ListByCommunity(ctx context.Context, communityID string) ([]models.RawPost, error) {
	var raw []models.RawPost
	if err := a.c.Get(ctx, a.communities.Path(communityID, "posts"), nil, &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		raw = []models.RawPost{}
	}
	return raw, nil
}

// Create publishes a post
func (a *PostsAPI) Create(ctx context.Context, req dto.CreatePostRequest) (models.RawPost, error) {
	p, err := a.posts.Create(ctx, req)
	return p.RawPost, err
}

// Delete removes a post
func (a *PostsAPI) Delete(ctx context.Context, id string) error {
	return a.posts.Delete(ctx, id)
}

// Like likes a post as the current user
func (a *PostsAPI) Like(ctx context.Context, id string) error {
	if models.IsPlaceholderID(id) {
		return apperrors.NewPlaceholderActionError("like", "post")
	}
	return a.c.Post(ctx, a.posts.Path(id, "like"), nil, nil)
}

// Unlike removes the current user's like
func (a *PostsAPI) Unlike(ctx context.Context, id string) error {
	if models.IsPlaceholderID(id) {
		return apperrors.NewPlaceholderActionError("unlike", "post")
	}
	return a.c.Delete(ctx, a.posts.Path(id, "like"), nil)
}
