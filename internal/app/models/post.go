package models

import (
	"encoding/json"
	"time"
)

// Post is a community post as displayed to the current user
type Post struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Body           string    `json:"body"`
	Author         string    `json:"author"`
	AuthorPhoto    string    `json:"authorPhoto,omitempty"`
	Community      string    `json:"community"`
	CommunityPhoto string    `json:"communityPhoto,omitempty"`
	Likes          int       `json:"likes"`
	Liked          bool      `json:"liked"`
	Comments       int       `json:"comments"`
	CreatedAt      time.Time `json:"createdAt"`
}

// GetID implements Entity
func (p Post) GetID() string { return p.ID }

// RawPost is a post as the server returns it
type RawPost struct {
	ID        string       `json:"id"`
	Title     string       `json:"title"`
	Content   string       `json:"content"`
	Author    User         `json:"author"`
	Community CommunityRef `json:"community"`
	Likes     []string     `json:"likes"`
	Comments  []string     `json:"comments"`
	CreatedAt time.Time    `json:"createdAt"`
}

// UnmarshalJSON resolves id or _id and accepts "body" for the content
func (p *RawPost) UnmarshalJSON(data []byte) error {
	type alias RawPost
	aux := struct {
		*alias
		ID       json.RawMessage   `json:"id"`
		MongoID  json.RawMessage   `json:"_id"`
		Body     string            `json:"body"`
		Comments []json.RawMessage `json:"comments"`
	}{alias: (*alias)(p)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	p.ID = resolveID(aux.ID, aux.MongoID)
	if p.Content == "" {
		p.Content = aux.Body
	}
	// comments may be ids or embedded comment objects; only the count is used
	p.Comments = make([]string, 0, len(aux.Comments))
	for _, c := range aux.Comments {
		if isBareString(c) {
			p.Comments = append(p.Comments, rawID(c))
			continue
		}
		var ref struct {
			ID      json.RawMessage `json:"id"`
			MongoID json.RawMessage `json:"_id"`
		}
		if err := json.Unmarshal(c, &ref); err == nil {
			p.Comments = append(p.Comments, resolveID(ref.ID, ref.MongoID))
		}
	}
	return nil
}

// ForViewer projects a raw post for the user viewerID
func (p RawPost) ForViewer(viewerID string) Post {
	liked := false
	for _, id := range p.Likes {
		if viewerID != "" && id == viewerID {
			liked = true
			break
		}
	}
	return Post{
		ID:             p.ID,
		Title:          p.Title,
		Body:           p.Content,
		Author:         p.Author.DisplayName(),
		AuthorPhoto:    p.Author.ProfilePhoto,
		Community:      p.Community.Name,
		CommunityPhoto: p.Community.ProfilePhoto,
		Likes:          len(p.Likes),
		Liked:          liked,
		Comments:       len(p.Comments),
		CreatedAt:      p.CreatedAt,
	}
}

// PostsForViewer projects every raw post for viewerID
func PostsForViewer(raw []RawPost, viewerID string) []Post {
	out := make([]Post, 0, len(raw))
	for _, p := range raw {
		out = append(out, p.ForViewer(viewerID))
	}
	return out
}
