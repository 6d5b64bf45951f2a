package dto

import "github.com/yigit/communityadmin/internal/app/models"

// EventPayload is the body of event create and update
type EventPayload struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Community      string   `json:"community,omitempty"`
	StartDateTime  string   `json:"startDateTime"`
	EndDateTime    string   `json:"endDateTime"`
	Platform       string   `json:"platform"`
	MeetingLink    string   `json:"meetingLink,omitempty"`
	Location       string   `json:"location,omitempty"`
	MaxAttendees   int      `json:"maxAttendees,omitempty"`
	Category       string   `json:"category"`
	Tags           []string `json:"tags,omitempty"`
	Image          string   `json:"image,omitempty"`
	IsPartnerEvent bool     `json:"isPartnerEvent"`
}

// ImageUploadResponse is returned by the event image upload
type ImageUploadResponse struct {
	ImageURL string `json:"imageUrl"`
	PublicID string `json:"publicId"`
}

// EnrollResponse is returned by enroll and unenroll
type EnrollResponse struct {
	Message string       `json:"message"`
	Event   models.Event `json:"event"`
}

// EventQuery filters event listings
type EventQuery struct {
	Community  string            `form:"community"`
	Status     string            `form:"status"`
	TimeFilter models.TimeStatus `form:"timeFilter"`
	Limit      int               `form:"limit"`
	Page       int               `form:"page"`
}

// EventCard is one card of the events page
type EventCard struct {
	ID             string            `json:"id"`
	Title          string            `json:"title"`
	Description    string            `json:"description"`
	Date           string            `json:"date"`
	Time           string            `json:"time"`
	Image          string            `json:"image"`
	Category       string            `json:"category,omitempty"`
	Status         models.TimeStatus `json:"status"`
	IsPartnerEvent bool              `json:"isPartnerEvent"`
	Attendees      int               `json:"attendees"`
	SpotsLeft      *int              `json:"spotsLeft,omitempty"`
}
