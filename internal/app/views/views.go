// Package views projects entity state into the rows and cards the console shell renders.
package views

import (
	"strings"
	"time"

	"github.com/yigit/communityadmin/internal/app/models"
	"github.com/yigit/communityadmin/internal/app/models/dto"
	"github.com/yigit/communityadmin/internal/pkg/helpers"
)

// Fallback images served by the shell
const (
	DefaultUserPhoto      = "/assets/generic1.png"
	DefaultCommunityPhoto = "/assets/generic2.png"
	DefaultEventImage     = "/assets/generic4.jpg"
)

// Tab selects which events the events page shows
type Tab string

const (
	TabNew  Tab = "new"
	TabPast Tab = "past"
)

// ParseTab defaults to TabNew
func ParseTab(s string) Tab {
	if Tab(strings.ToLower(strings.TrimSpace(s))) == TabPast {
		return TabPast
	}
	return TabNew
}

// Includes reports whether an event with status belongs on the tab. Live events stay on "new".
func (t Tab) Includes(status models.TimeStatus) bool {
	if t == TabPast {
		return status == models.TimePast
	}
	return status != models.TimePast
}

// Dashboard is the admin summary above the communities grid
type Dashboard struct {
	Communities int `json:"communities"`
	Members     int `json:"members"`
}

// Summarize counts communities and their members
func Summarize(communities []models.Community) Dashboard {
	d := Dashboard{Communities: len(communities)}
	for _, c := range communities {
		d.Members += c.MemberCount()
	}
	return d
}

// CommunityRow projects a community for the grid
func CommunityRow(c models.Community) dto.CommunityRow {
	return dto.CommunityRow{
		ID:          c.ID,
		Name:        c.Name,
		Photo:       PhotoOr(c.ProfilePhoto, DefaultCommunityPhoto),
		Description: c.Description,
		Members:     c.MemberCount(),
		Status:      "Active",
	}
}

// CommunityRows projects every community
func CommunityRows(communities []models.Community) []dto.CommunityRow {
	rows := make([]dto.CommunityRow, 0, len(communities))
	for _, c := range communities {
		rows = append(rows, CommunityRow(c))
	}
	return rows
}

// PhotoOr returns photo, or fallback when it is empty
func PhotoOr(photo, fallback string) string {
	if strings.TrimSpace(photo) == "" {
		return fallback
	}
	return photo
}

// EventImage resolves an event image: absolute urls and rooted paths pass
// through, bare names are served from the assets directory
func EventImage(image string) string {
	switch {
	case image == "":
		return DefaultEventImage
	case strings.HasPrefix(image, "http"), strings.HasPrefix(image, "/"):
		return image
	default:
		return "/assets/" + image
	}
}

// EventCard projects an event; dates render in loc
func EventCard(e models.Event, now time.Time, loc *time.Location) dto.EventCard {
	start := e.StartDateTime
	if loc != nil {
		start = start.In(loc)
	}
	card := dto.EventCard{
		ID:             e.ID,
		Title:          e.Title,
		Description:    e.Description,
		Date:           helpers.FormatEventDate(start),
		Time:           helpers.FormatEventTime(start),
		Image:          EventImage(e.Image),
		Category:       e.Category.WireLabel(),
		Status:         e.TimeStatus(now),
		IsPartnerEvent: e.IsPartnerEvent,
		Attendees:      len(e.Attendees),
	}
	if spots, ok := e.AvailableSpots(); ok {
		card.SpotsLeft = &spots
	}
	return card
}

// EventCards projects the events that belong on tab
func EventCards(events []models.Event, tab Tab, now time.Time, loc *time.Location) []dto.EventCard {
	cards := make([]dto.EventCard, 0, len(events))
	for _, e := range events {
		card := EventCard(e, now, loc)
		if tab.Includes(card.Status) {
			cards = append(cards, card)
		}
	}
	return cards
}

// Page slices items for one page of a list
func Page[T any](items []T, page, size int, loading bool) dto.PaginatedResponse {
	slice, info := helpers.Paginate(items, page, size)
	return dto.PaginatedResponse{Items: slice, Pagination: info, Loading: loading}
}
