package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Entity is anything held in a list that can be addressed by id
type Entity interface {
	GetID() string
}

// PlaceholderPrefix marks ids generated locally before the server assigned one
const PlaceholderPrefix = "temp-"

// IsPlaceholderID reports whether id was never assigned by the server
func IsPlaceholderID(id string) bool {
	return strings.TrimSpace(id) == "" || strings.HasPrefix(id, PlaceholderPrefix)
}

// NewPlaceholderID returns a fresh local id
func NewPlaceholderID() string {
	return PlaceholderPrefix + uuid.NewString()
}

// Role defines the user role type
type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super-admin"
)

// IsAdmin reports whether the role may use the admin console
func (r Role) IsAdmin() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// resolveID picks whichever of the two id spellings the server used
func resolveID(id, mongoID json.RawMessage) string {
	if s := rawID(id); s != "" {
		return s
	}
	return rawID(mongoID)
}

// rawID reads an id that may be a JSON string or number
func rawID(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return ""
	}
	if i, err := n.Int64(); err == nil {
		return strconv.FormatInt(i, 10)
	}
	return n.String()
}

// isBareString reports whether data is a JSON string, the shape used for references sent as ids only
func isBareString(data []byte) bool {
	data = bytes.TrimSpace(data)
	return len(data) > 0 && data[0] == '"'
}
