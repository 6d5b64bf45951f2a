package models

import (
	"encoding/json"
	"time"
)

// Community is a group administered through the console
type Community struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	ProfilePhoto string    `json:"profilePhoto,omitempty"`
	Owner        *User     `json:"owner,omitempty"`
	Members      []User    `json:"members"`
	Admins       []User    `json:"admins,omitempty"`
	CreatedAt    time.Time `json:"createdAt,omitempty"`
	UpdatedAt    time.Time `json:"updatedAt,omitempty"`
}

// GetID implements Entity
func (c Community) GetID() string { return c.ID }

// MemberCount returns the number of members
func (c Community) MemberCount() int { return len(c.Members) }

// Ref returns the reference form of the community
func (c Community) Ref() CommunityRef {
	return CommunityRef{ID: c.ID, Name: c.Name, ProfilePhoto: c.ProfilePhoto}
}

// UnmarshalJSON resolves id or _id
func (c *Community) UnmarshalJSON(data []byte) error {
	type alias Community
	aux := struct {
		*alias
		ID      json.RawMessage `json:"id"`
		MongoID json.RawMessage `json:"_id"`
	}{alias: (*alias)(c)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	c.ID = resolveID(aux.ID, aux.MongoID)
	if c.Members == nil {
		c.Members = []User{}
	}
	return nil
}
