package models

import "encoding/json"

// Announcement is a site-wide notice
type Announcement struct {
	ID         string `json:"id"`
	Header     string `json:"header"`
	Subcontent string `json:"subcontent,omitempty"`
}

// GetID implements Entity
func (a Announcement) GetID() string { return a.ID }

// UnmarshalJSON accepts numeric ids
func (a *Announcement) UnmarshalJSON(data []byte) error {
	type alias Announcement
	aux := struct {
		*alias
		ID      json.RawMessage `json:"id"`
		MongoID json.RawMessage `json:"_id"`
	}{alias: (*alias)(a)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	a.ID = resolveID(aux.ID, aux.MongoID)
	return nil
}
