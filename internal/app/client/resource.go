package client

import (
	"context"
	"net/url"
	"strings"

	"github.com/yigit/communityadmin/internal/app/models"
	"github.com/yigit/communityadmin/internal/pkg/apperrors"
)

// Resource is the CRUD surface shared by every REST collection
type Resource[T models.Entity] struct {
	c    *Client
	base string
	name string
}

// NewResource binds a collection at base, e.g. "/api/events". name is used in messages.
func NewResource[T models.Entity](c *Client, base, name string) *Resource[T] {
	return &Resource[T]{c: c, base: strings.TrimRight(base, "/"), name: name}
}

// Path joins escaped segments under the collection
func (r *Resource[T]) Path(segments ...string) string {
	var b strings.Builder
	b.WriteString(r.base)
	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(s))
	}
	return b.String()
}

// List fetches the collection
func (r *Resource[T]) List(ctx context.Context, query url.Values) ([]T, error) {
	var items []T
	if err := r.c.Get(ctx, r.base, query, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Get fetches one record
func (r *Resource[T]) Get(ctx context.Context, id string) (T, error) {
	var item T
	err := r.c.Get(ctx, r.Path(id), nil, &item)
	return item, err
}

// Create posts body and returns the created record
func (r *Resource[T]) Create(ctx context.Context, body interface{}) (T, error) {
	var item T
	err := r.c.Post(ctx, r.base, body, &item)
	return item, err
}

// Update puts body to the record
func (r *Resource[T]) Update(ctx context.Context, id string, body interface{}) (T, error) {
	var item T
	err := r.c.Put(ctx, r.Path(id), body, &item)
	return item, err
}

// Delete removes the record. Ids the server never assigned are rejected without a request.
func (r *Resource[T]) Delete(ctx context.Context, id string) error {
	if models.IsPlaceholderID(id) {
		return apperrors.NewPlaceholderError(r.name)
	}
	return r.c.Delete(ctx, r.Path(id), nil)
}
