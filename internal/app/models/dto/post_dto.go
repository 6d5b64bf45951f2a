package dto

// CreatePostRequest creates a post in a community
type CreatePostRequest struct {
	Title     string `json:"title" validate:"notblank"`
	Content   string `json:"content" validate:"notblank"`
	Community string `json:"community"`
}

// CreateCommentRequest adds a comment to a post
type CreateCommentRequest struct {
	Content string `json:"content"`
}
