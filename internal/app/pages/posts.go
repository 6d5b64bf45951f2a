package pages

import (
	"context"
	"strings"

	"github.com/yigit/communityadmin/internal/app/models"
	"github.com/yigit/communityadmin/internal/app/models/dto"
	"github.com/yigit/communityadmin/internal/app/mutation"
	"github.com/yigit/communityadmin/internal/app/state"
	"github.com/yigit/communityadmin/internal/pkg/apperrors"
	"github.com/yigit/communityadmin/internal/pkg/validation"
)

// PostsPage shows the posts of one community. Deletes and likes patch the list locally.
type PostsPage struct {
	CommunityID string
	Store       *state.Store[models.Post]
	Ctrl        *mutation.Controller[models.Post]
	deps        Deps
}

// NewPostsPage wires the posts of communityID under life
func NewPostsPage(communityID string, life *state.Lifetime, deps Deps) *PostsPage {
	log := deps.Log.With().Str("page", "posts").Str("community", communityID).Logger()
	store := state.NewStore("posts", func(ctx context.Context) ([]models.Post, error) {
		raw, err := deps.API.Posts.ListByCommunity(ctx, communityID)
		if err != nil {
			return nil, err
		}
		return models.PostsForViewer(raw, deps.Session.ViewerID()), nil
	}, life, deps.Notifier, log)

	return &PostsPage{
		CommunityID: communityID,
		Store:       store,
		Ctrl:        mutation.NewController("post", store, deps.Notifier, mutation.Append, log),
		deps:        deps,
	}
}

// Mount loads the posts
func (p *PostsPage) Mount(ctx context.Context) error {
	return p.Store.Fetch(ctx)
}

// Publish creates a post in the community
func (p *PostsPage) Publish(ctx context.Context, req dto.CreatePostRequest) (models.Post, error) {
	req.Community = p.CommunityID
	req.Title = strings.TrimSpace(req.Title)
	req.Content = strings.TrimSpace(req.Content)
	if err := validation.Struct(req); err != nil {
		p.deps.Notifier.Error(err)
		return models.Post{}, err
	}
	return p.Ctrl.Create(ctx, func(ctx context.Context) (models.Post, error) {
		raw, err := p.deps.API.Posts.Create(ctx, req)
		if err != nil {
			return models.Post{}, err
		}
		return raw.ForViewer(p.deps.Session.ViewerID()), nil
	})
}

// Delete removes a post
func (p *PostsPage) Delete(ctx context.Context, id string) error {
	return p.Ctrl.Delete(ctx, id, p.deps.API.Posts.Delete)
}

// SetLiked likes or unlikes a post for the signed-in user. The counter changes
// at once and is restored if the server refuses.
func (p *PostsPage) SetLiked(ctx context.Context, id string, liked bool) error {
	if !p.Has(id) {
		return apperrors.NewValidationError("Post not found")
	}
	done := func(post models.Post) bool { return post.Liked == liked }
	if liked {
		return p.Ctrl.ToggleUnless(ctx, id, done, likePost, unlikePost, func(ctx context.Context) error {
			return p.deps.API.Posts.Like(ctx, id)
		})
	}
	return p.Ctrl.ToggleUnless(ctx, id, done, unlikePost, likePost, func(ctx context.Context) error {
		return p.deps.API.Posts.Unlike(ctx, id)
	})
}

// Has reports whether the page shows post id
func (p *PostsPage) Has(id string) bool {
	_, ok := p.Store.Find(id)
	return ok
}

func likePost(p *models.Post) {
	p.Likes++
	p.Liked = true
}

func unlikePost(p *models.Post) {
	if p.Likes > 0 {
		p.Likes--
	}
	p.Liked = false
}

// CommentSection is the comment thread under one post
type CommentSection struct {
	PostID string
	Store  *state.Store[models.Comment]
	Ctrl   *mutation.Controller[models.Comment]
	deps   Deps
	added  func(postID string)
}

// NewCommentSection wires the comments of postID. added runs after a comment is posted.
func NewCommentSection(postID string, life *state.Lifetime, deps Deps, added func(postID string)) *CommentSection {
	log := deps.Log.With().Str("page", "comments").Str("post", postID).Logger()
	store := state.NewStore("comments", func(ctx context.Context) ([]models.Comment, error) {
		comments, err := deps.API.Comments.ListForPost(ctx, postID)
		if err != nil {
			return nil, err
		}
		viewer := deps.Session.ViewerID()
		for i := range comments {
			comments[i] = comments[i].ForViewer(viewer)
		}
		return comments, nil
	}, life, deps.Notifier, log)

	return &CommentSection{
		PostID: postID,
		Store:  store,
		Ctrl:   mutation.NewController("comment", store, deps.Notifier, mutation.Append, log),
		deps:   deps,
		added:  added,
	}
}

// Mount loads the comments
func (s *CommentSection) Mount(ctx context.Context) error {
	return s.Store.Fetch(ctx)
}

// Add posts a comment and appends it to the thread
func (s *CommentSection) Add(ctx context.Context, content string) (models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		err := apperrors.NewValidationError("Comment cannot be empty")
		s.deps.Notifier.Error(err)
		return models.Comment{}, err
	}
	created, err := s.Ctrl.Create(ctx, func(ctx context.Context) (models.Comment, error) {
		c, err := s.deps.API.Comments.Add(ctx, s.PostID, content)
		if err != nil {
			return models.Comment{}, err
		}
		if c.Author.ID == "" {
			if u, ok := s.deps.Session.User(); ok {
				c.Author = u
			}
		}
		return c, nil
	})
	if err == nil && s.added != nil {
		s.added(s.PostID)
	}
	return created, err
}

// SetLiked likes or unlikes a comment, rolling back if the server refuses
func (s *CommentSection) SetLiked(ctx context.Context, id string, liked bool) error {
	if _, ok := s.Store.Find(id); !ok {
		return apperrors.NewValidationError("Comment not found")
	}
	done := func(c models.Comment) bool { return c.Liked == liked }
	if liked {
		return s.Ctrl.ToggleUnless(ctx, id, done, likeComment, unlikeComment, func(ctx context.Context) error {
			return s.deps.API.Comments.Like(ctx, id)
		})
	}
	return s.Ctrl.ToggleUnless(ctx, id, done, unlikeComment, likeComment, func(ctx context.Context) error {
		return s.deps.API.Comments.Unlike(ctx, id)
	})
}

func likeComment(c *models.Comment) {
	c.LikeCount++
	c.Liked = true
}

func unlikeComment(c *models.Comment) {
	if c.LikeCount > 0 {
		c.LikeCount--
	}
	c.Liked = false
}
