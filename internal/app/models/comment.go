package models

import "encoding/json"

// Comment is a reply on a post
type Comment struct {
	ID        string   `json:"id"`
	Content   string   `json:"content"`
	Author    User     `json:"author"`
	Post      string   `json:"post,omitempty"`
	Likes     []string `json:"likes"`
	LikeCount int      `json:"likeCount"`
	Liked     bool     `json:"liked"`
}

// GetID implements Entity
func (c Comment) GetID() string { return c.ID }

// UnmarshalJSON resolves id or _id and seeds the displayed like count
func (c *Comment) UnmarshalJSON(data []byte) error {
	type alias Comment
	aux := struct {
		*alias
		ID      json.RawMessage `json:"id"`
		MongoID json.RawMessage `json:"_id"`
		Post    json.RawMessage `json:"post"`
	}{alias: (*alias)(c)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	c.ID = resolveID(aux.ID, aux.MongoID)
	if len(aux.Post) > 0 {
		if isBareString(aux.Post) {
			c.Post = rawID(aux.Post)
		} else {
			var ref struct {
				ID      json.RawMessage `json:"id"`
				MongoID json.RawMessage `json:"_id"`
			}
			if err := json.Unmarshal(aux.Post, &ref); err == nil {
				c.Post = resolveID(ref.ID, ref.MongoID)
			}
		}
	}
	if c.Likes == nil {
		c.Likes = []string{}
	}
	if c.LikeCount == 0 {
		c.LikeCount = len(c.Likes)
	}
	return nil
}

// ForViewer marks the comment as liked when viewerID is among its likes
func (c Comment) ForViewer(viewerID string) Comment {
	for _, id := range c.Likes {
		if viewerID != "" && id == viewerID {
			c.Liked = true
			break
		}
	}
	return c
}
