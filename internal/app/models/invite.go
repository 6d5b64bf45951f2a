package models

import "encoding/json"

// Invite is the single shareable invite link of a community
type Invite struct {
	ID        string `json:"id"`
	Community string `json:"community"`
	Link      string `json:"link"`
	// Message is set by the server when no invite exists
	Message string `json:"message,omitempty"`
}

// GetID implements Entity
func (i Invite) GetID() string { return i.ID }

// UnmarshalJSON resolves id or _id and accepts the community as object or id
func (i *Invite) UnmarshalJSON(data []byte) error {
	type alias Invite
	aux := struct {
		*alias
		ID          json.RawMessage `json:"id"`
		MongoID     json.RawMessage `json:"_id"`
		Community   *CommunityRef   `json:"community"`
		CommunityID string          `json:"communityId"`
		URL         string          `json:"url"`
		InviteLink  string          `json:"inviteLink"`
	}{alias: (*alias)(i)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	i.ID = resolveID(aux.ID, aux.MongoID)
	switch {
	case aux.Community != nil:
		i.Community = aux.Community.ID
	case aux.CommunityID != "":
		i.Community = aux.CommunityID
	}
	if i.Link == "" {
		i.Link = aux.InviteLink
	}
	if i.Link == "" {
		i.Link = aux.URL
	}
	return nil
}
