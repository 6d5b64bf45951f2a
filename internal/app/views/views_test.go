package views

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/communityadmin/internal/app/models"
	"github.com/yigit/communityadmin/internal/app/models/dto"
)

func TestCommunityRowsAndSummary(t *testing.T) {
	var communities []models.Community
	require.NoError(t, json.Unmarshal([]byte(`[
		{"id":"1","name":"Alpha","members":[]},
		{"_id":"2","name":"Beta","members":["u1"],"profilePhoto":"/img/beta.png"}
	]`), &communities))

	rows := CommunityRows(communities)
	require.Len(t, rows, 2)
	assert.Equal(t, 0, rows[0].Members)
	assert.Equal(t, 1, rows[1].Members)
	assert.Equal(t, DefaultCommunityPhoto, rows[0].Photo)
	assert.Equal(t, "/img/beta.png", rows[1].Photo)
	assert.Equal(t, "Active", rows[1].Status)

	assert.Equal(t, Dashboard{Communities: 2, Members: 1}, Summarize(communities))
	assert.Empty(t, CommunityRows(nil))
}

func TestEventImage(t *testing.T) {
	assert.Equal(t, DefaultEventImage, EventImage(""))
	assert.Equal(t, "https://cdn/x.png", EventImage("https://cdn/x.png"))
	assert.Equal(t, "/uploads/x.png", EventImage("/uploads/x.png"))
	assert.Equal(t, "/assets/x.png", EventImage("x.png"))
}

func TestEventCardsByTab(t *testing.T) {
	now := time.Date(2025, 9, 15, 12, 0, 0, 0, time.UTC)
	events := []models.Event{
		{ID: "past", StartDateTime: now.Add(-3 * time.Hour), EndDateTime: now.Add(-2 * time.Hour)},
		{ID: "live", StartDateTime: now.Add(-time.Hour), EndDateTime: now.Add(time.Hour)},
		{ID: "soon", StartDateTime: now.Add(time.Hour), EndDateTime: now.Add(2 * time.Hour), MaxAttendees: 10,
			Attendees: []models.Attendee{{User: models.User{ID: "u1"}, Status: "enrolled"}}, Category: models.CategorySocial},
	}

	fresh := EventCards(events, TabNew, now, time.UTC)
	require.Len(t, fresh, 2)
	assert.Equal(t, "live", fresh[0].ID)
	assert.Equal(t, models.TimeLive, fresh[0].Status)
	assert.Nil(t, fresh[0].SpotsLeft)

	soon := fresh[1]
	assert.Equal(t, "Mon, Sep 15, 2025", soon.Date)
	assert.Equal(t, "01:00 PM", soon.Time)
	assert.Equal(t, "Social", soon.Category)
	assert.Equal(t, 1, soon.Attendees)
	require.NotNil(t, soon.SpotsLeft)
	assert.Equal(t, 9, *soon.SpotsLeft)

	past := EventCards(events, ParseTab("PAST"), now, nil)
	require.Len(t, past, 1)
	assert.Equal(t, "past", past[0].ID)
	assert.Equal(t, TabNew, ParseTab("whatever"))
}

func TestPage(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	p := Page(items, 2, 2, true)
	assert.Equal(t, []int{3, 4}, p.Items)
	assert.Equal(t, dto.PaginationInfo{CurrentPage: 2, TotalPages: 3, PageSize: 2, TotalItems: 5}, p.Pagination)
	assert.True(t, p.Loading)
}
