package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommunityDecodesBothIDSpellingsAndMemberShapes(t *testing.T) {
	payload := `[
		{"id":"1","name":"Alpha","description":"a","members":[]},
		{"_id":"2","name":"Beta","members":["u1",{"_id":"u2","name":"Bo"}],"owner":{"id":"u9"}},
		{"_id":"3","name":"Gamma"}
	]`

	var communities []Community
	require.NoError(t, json.Unmarshal([]byte(payload), &communities))
	require.Len(t, communities, 3)

	assert.Equal(t, "1", communities[0].GetID())
	assert.Equal(t, 0, communities[0].MemberCount())
	assert.Equal(t, "2", communities[1].ID)
	assert.Equal(t, 2, communities[1].MemberCount())
	assert.Equal(t, "u1", communities[1].Members[0].ID)
	assert.Equal(t, "Bo", communities[1].Members[1].DisplayName())
	assert.Equal(t, "u9", communities[1].Owner.ID)
	assert.NotNil(t, communities[2].Members)
}

func TestAnnouncementNumericID(t *testing.T) {
	var a Announcement
	require.NoError(t, json.Unmarshal([]byte(`{"id":7,"header":"Hello"}`), &a))
	assert.Equal(t, "7", a.ID)

	out, err := json.Marshal(a)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"id":"7"`)
}

func TestEventDecodingNormalisesEnums(t *testing.T) {
	payload := `{"_id":"e1","title":"T","platform":"In-Person","category":"Workshop",
		"community":"c1","startDateTime":"2025-09-15T10:00:00Z","endDateTime":"2025-09-15T12:00:00Z",
		"attendees":[{"user":"u1","status":"enrolled"}]}`

	var e Event
	require.NoError(t, json.Unmarshal([]byte(payload), &e))
	assert.Equal(t, "e1", e.ID)
	assert.Equal(t, PlatformInPerson, e.Platform)
	assert.Equal(t, CategoryWorkshop, e.Category)
	assert.Equal(t, "c1", e.Community.ID)
	assert.True(t, e.IsEnrolled("u1"))
	assert.Equal(t, "In-Person", e.Platform.WireLabel())
	assert.Equal(t, "Workshop", e.Category.WireLabel())
}

func TestEventTimeStatus(t *testing.T) {
	start := time.Date(2025, 9, 15, 10, 0, 0, 0, time.UTC)
	e := Event{StartDateTime: start, EndDateTime: start.Add(2 * time.Hour)}

	assert.Equal(t, TimeUpcoming, e.TimeStatus(start.Add(-time.Second)))
	assert.Equal(t, TimeLive, e.TimeStatus(start))
	assert.Equal(t, TimeLive, e.TimeStatus(e.EndDateTime))
	assert.Equal(t, TimePast, e.TimeStatus(e.EndDateTime.Add(time.Second)))
}

func TestEventEnrollmentRules(t *testing.T) {
	start := time.Date(2025, 9, 15, 10, 0, 0, 0, time.UTC)
	now := start.Add(-time.Hour)
	e := Event{StartDateTime: start, EndDateTime: start.Add(time.Hour), MaxAttendees: 1}

	spots, limited := e.AvailableSpots()
	assert.True(t, limited)
	assert.Equal(t, 1, spots)
	assert.True(t, e.CanEnroll("u1", now))

	e.Attendees = []Attendee{{User: User{ID: "u2"}, Status: AttendeeEnrolled}}
	assert.False(t, e.CanEnroll("u1", now))
	assert.False(t, e.CanEnroll("u2", now))

	e.MaxAttendees = 0
	_, limited = e.AvailableSpots()
	assert.False(t, limited)
	assert.True(t, e.CanEnroll("u1", now))
	assert.False(t, e.CanEnroll("u1", start))
}

func TestParsePlatformAndCategory(t *testing.T) {
	p, ok := ParsePlatform("Zoom")
	assert.True(t, ok)
	assert.Equal(t, PlatformVirtual, p)
	_, ok = ParsePlatform("carrier pigeon")
	assert.False(t, ok)

	c, ok := ParseCategory(" Networking ")
	assert.True(t, ok)
	assert.Equal(t, CategoryNetworking, c)
	assert.Len(t, Categories, 7)
}

func TestRawPostForViewer(t *testing.T) {
	payload := `{"_id":"p1","title":"Hi","content":"Body","author":{"id":"u1","name":"Ann","profilePhoto":"a.png"},
		"community":{"id":"c1","name":"Alpha"},"likes":["u1","u2"],"comments":["c1",{"_id":"c2"}]}`

	var raw RawPost
	require.NoError(t, json.Unmarshal([]byte(payload), &raw))

	post := raw.ForViewer("u2")
	assert.Equal(t, "p1", post.ID)
	assert.Equal(t, "Body", post.Body)
	assert.Equal(t, "Ann", post.Author)
	assert.Equal(t, "Alpha", post.Community)
	assert.Equal(t, 2, post.Likes)
	assert.True(t, post.Liked)
	assert.Equal(t, 2, post.Comments)

	assert.False(t, raw.ForViewer("").Liked)
	assert.Len(t, PostsForViewer([]RawPost{raw, raw}, "u3"), 2)
}

func TestCommentDecoding(t *testing.T) {
	var c Comment
	require.NoError(t, json.Unmarshal([]byte(`{"_id":"k1","content":"yo","author":{"_id":"u1"},"post":{"_id":"p1"},"likes":["u5"]}`), &c))
	assert.Equal(t, "k1", c.ID)
	assert.Equal(t, "p1", c.Post)
	assert.Equal(t, 1, c.LikeCount)
	assert.True(t, c.ForViewer("u5").Liked)
	assert.False(t, c.Liked)
}

func TestInviteDecodingVariants(t *testing.T) {
	var i Invite
	require.NoError(t, json.Unmarshal([]byte(`{"_id":"i1","community":{"_id":"c1"},"inviteLink":"https://x/join/abc"}`), &i))
	assert.Equal(t, "c1", i.Community)
	assert.Equal(t, "https://x/join/abc", i.Link)

	var none Invite
	require.NoError(t, json.Unmarshal([]byte(`{"message":"This community does not have a custom invite yet"}`), &none))
	assert.Empty(t, none.Link)
	assert.NotEmpty(t, none.Message)
}

func TestPlaceholderIDs(t *testing.T) {
	assert.True(t, IsPlaceholderID(""))
	assert.True(t, IsPlaceholderID("  "))
	assert.True(t, IsPlaceholderID("temp-123"))
	assert.False(t, IsPlaceholderID("66b5e97d6ed457667f6bfa09"))

	id := NewPlaceholderID()
	assert.True(t, strings.HasPrefix(id, PlaceholderPrefix))
	assert.True(t, IsPlaceholderID(id))
}

func TestRoleIsAdmin(t *testing.T) {
	assert.True(t, RoleAdmin.IsAdmin())
	assert.True(t, RoleSuperAdmin.IsAdmin())
	assert.False(t, RoleUser.IsAdmin())
}

func TestUserJoinedCommunities(t *testing.T) {
	var u User
	require.NoError(t, json.Unmarshal([]byte(`{"_id":"u1","username":"ann","role":"admin","joinedCommunities":["c1",{"_id":"c2","name":"Beta"}]}`), &u))
	assert.Equal(t, "u1", u.ID)
	assert.Equal(t, "ann", u.DisplayName())
	require.Len(t, u.Communities, 2)
	assert.Equal(t, "c1", u.Communities[0].ID)
	assert.Equal(t, "Beta", u.Communities[1].Name)
}
