package models

import "encoding/json"

// User is the client projection of an account
type User struct {
	ID           string         `json:"id"`
	Username     string         `json:"username,omitempty"`
	Name         string         `json:"name,omitempty"`
	Email        string         `json:"email,omitempty"`
	ProfilePhoto string         `json:"profilePhoto,omitempty"`
	Role         Role           `json:"role,omitempty"`
	Communities  []CommunityRef `json:"communities,omitempty"`
}

// GetID implements Entity
func (u User) GetID() string { return u.ID }

// DisplayName prefers the full name over the username
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Username
}

// UnmarshalJSON accepts a user object or a bare user id
func (u *User) UnmarshalJSON(data []byte) error {
	if isBareString(data) {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*u = User{ID: id}
		return nil
	}

	type alias User
	aux := struct {
		*alias
		ID      json.RawMessage `json:"id"`
		MongoID json.RawMessage `json:"_id"`
		Joined  []CommunityRef  `json:"joinedCommunities"`
	}{alias: (*alias)(u)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	u.ID = resolveID(aux.ID, aux.MongoID)
	if len(u.Communities) == 0 {
		u.Communities = aux.Joined
	}
	return nil
}

// CommunityRef is a community referenced from another record
type CommunityRef struct {
	ID           string `json:"id"`
	Name         string `json:"name,omitempty"`
	ProfilePhoto string `json:"profilePhoto,omitempty"`
}

// UnmarshalJSON accepts a community object or a bare community id
func (c *CommunityRef) UnmarshalJSON(data []byte) error {
	if isBareString(data) {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*c = CommunityRef{ID: id}
		return nil
	}

	type alias CommunityRef
	aux := struct {
		*alias
		ID      json.RawMessage `json:"id"`
		MongoID json.RawMessage `json:"_id"`
	}{alias: (*alias)(c)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	c.ID = resolveID(aux.ID, aux.MongoID)
	return nil
}
