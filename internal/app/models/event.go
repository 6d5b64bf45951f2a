package models

import (
	"encoding/json"
	"strings"
	"time"
)

// Platform is where an event takes place
type Platform string

const (
	PlatformVirtual  Platform = "virtual"
	PlatformInPerson Platform = "in-person"
	PlatformHybrid   Platform = "hybrid"
)

// WireLabel is the label the create and update endpoints expect
func (p Platform) WireLabel() string {
	switch p {
	case PlatformInPerson:
		return "In-Person"
	case PlatformHybrid:
		return "Hybrid"
	default:
		return "Zoom"
	}
}

// HasMeetingLink reports whether a meeting link applies to the platform
func (p Platform) HasMeetingLink() bool { return p != PlatformInPerson }

// HasLocation reports whether a physical location applies to the platform
func (p Platform) HasLocation() bool { return p != PlatformVirtual }

// ParsePlatform accepts both the stored values and the wire labels
func ParsePlatform(s string) (Platform, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "virtual", "zoom", "online":
		return PlatformVirtual, true
	case "in-person", "inperson", "in person":
		return PlatformInPerson, true
	case "hybrid":
		return PlatformHybrid, true
	}
	return "", false
}

// UnmarshalJSON normalises wire labels; unknown values are kept as sent
func (p *Platform) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if parsed, ok := ParsePlatform(s); ok {
		*p = parsed
		return nil
	}
	*p = Platform(s)
	return nil
}

// Category classifies an event
type Category string

const (
	CategoryWorkshop   Category = "workshop"
	CategoryWebinar    Category = "webinar"
	CategoryNetworking Category = "networking"
	CategoryTraining   Category = "training"
	CategoryConference Category = "conference"
	CategorySocial     Category = "social"
	CategoryOther      Category = "other"
)

// Categories lists every category in display order
var Categories = []Category{
	CategoryWorkshop, CategoryWebinar, CategoryNetworking, CategoryTraining,
	CategoryConference, CategorySocial, CategoryOther,
}

// WireLabel capitalises the category the way the endpoints expect
func (c Category) WireLabel() string {
	if c == "" {
		return ""
	}
	return strings.ToUpper(string(c[:1])) + string(c[1:])
}

// ParseCategory is case-insensitive
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Categories {
		if c == known {
			return c, true
		}
	}
	return "", false
}

// UnmarshalJSON lowercases known categories
func (c *Category) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if parsed, ok := ParseCategory(s); ok {
		*c = parsed
		return nil
	}
	*c = Category(s)
	return nil
}

// AttendeeStatus is the enrollment state of one attendee
type AttendeeStatus string

const (
	AttendeeEnrolled  AttendeeStatus = "enrolled"
	AttendeeAttended  AttendeeStatus = "attended"
	AttendeeCancelled AttendeeStatus = "cancelled"
)

// Attendee links a user to an event
type Attendee struct {
	User       User           `json:"user"`
	EnrolledAt time.Time      `json:"enrolledAt"`
	Status     AttendeeStatus `json:"status"`
}

// PublishStatus is the server-side lifecycle of an event
type PublishStatus string

const (
	PublishDraft     PublishStatus = "draft"
	PublishPublished PublishStatus = "published"
	PublishCancelled PublishStatus = "cancelled"
	PublishCompleted PublishStatus = "completed"
)

// TimeStatus is derived from the clock, never stored
type TimeStatus string

const (
	TimeUpcoming TimeStatus = "upcoming"
	TimeLive     TimeStatus = "live"
	TimePast     TimeStatus = "past"
)

// Event is a scheduled community event
type Event struct {
	ID             string        `json:"id"`
	Title          string        `json:"title"`
	Description    string        `json:"description"`
	Community      CommunityRef  `json:"community"`
	Organizer      *User         `json:"organizer,omitempty"`
	StartDateTime  time.Time     `json:"startDateTime"`
	EndDateTime    time.Time     `json:"endDateTime"`
	Platform       Platform      `json:"platform"`
	MeetingLink    string        `json:"meetingLink,omitempty"`
	Location       string        `json:"location,omitempty"`
	MaxAttendees   int           `json:"maxAttendees,omitempty"`
	Attendees      []Attendee    `json:"attendees"`
	Category       Category      `json:"category"`
	Tags           []string      `json:"tags,omitempty"`
	Image          string        `json:"image,omitempty"`
	Status         PublishStatus `json:"status,omitempty"`
	IsPartnerEvent bool          `json:"isPartnerEvent"`
	CreatedAt      time.Time     `json:"createdAt,omitempty"`
	UpdatedAt      time.Time     `json:"updatedAt,omitempty"`
}

// GetID implements Entity
func (e Event) GetID() string { return e.ID }

// UnmarshalJSON resolves id or _id
func (e *Event) UnmarshalJSON(data []byte) error {
	type alias Event
	aux := struct {
		*alias
		ID      json.RawMessage `json:"id"`
		MongoID json.RawMessage `json:"_id"`
	}{alias: (*alias)(e)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	e.ID = resolveID(aux.ID, aux.MongoID)
	return nil
}

// TimeStatus derives upcoming, live or past from now. The end instant itself is still live.
func (e Event) TimeStatus(now time.Time) TimeStatus {
	switch {
	case now.Before(e.StartDateTime):
		return TimeUpcoming
	case !now.After(e.EndDateTime):
		return TimeLive
	default:
		return TimePast
	}
}

// IsEnrolled reports whether userID is among the attendees
func (e Event) IsEnrolled(userID string) bool {
	for _, a := range e.Attendees {
		if a.User.ID == userID {
			return true
		}
	}
	return false
}

// AvailableSpots returns the remaining capacity; ok is false when the event is unlimited
func (e Event) AvailableSpots() (spots int, ok bool) {
	if e.MaxAttendees <= 0 {
		return 0, false
	}
	return e.MaxAttendees - len(e.Attendees), true
}

// CanEnroll reports whether userID may still enroll at now
func (e Event) CanEnroll(userID string, now time.Time) bool {
	if e.TimeStatus(now) != TimeUpcoming || e.IsEnrolled(userID) {
		return false
	}
	if spots, limited := e.AvailableSpots(); limited && spots <= 0 {
		return false
	}
	return true
}

// EventPagination is the paging block of an events listing
type EventPagination struct {
	Current int `json:"current"`
	Pages   int `json:"pages"`
	Total   int `json:"total"`
	Limit   int `json:"limit"`
}

// EventsResponse is the events listing envelope
type EventsResponse struct {
	Events     []Event         `json:"events"`
	Pagination EventPagination `json:"pagination"`
}

// EventStats summarises events for admins
type EventStats struct {
	Total          int `json:"total"`
	Draft          int `json:"draft"`
	Upcoming       int `json:"upcoming"`
	Past           int `json:"past"`
	TotalAttendees int `json:"totalAttendees"`
}
