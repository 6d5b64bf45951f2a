package client

// API groups the per-resource clients over one shared Client
type API struct {
	Client        *Client
	Auth          *AuthAPI
	Me            *MeAPI
	Communities   *CommunitiesAPI
	Events        *EventsAPI
	Posts         *PostsAPI
	Comments      *CommentsAPI
	Invites       *InvitesAPI
	Announcements *AnnouncementsAPI
}

// NewAPI wires every resource client to c
func NewAPI(c *Client) *API {
	return &API{
		Client:        c,
		Auth:          NewAuthAPI(c),
		Me:            NewMeAPI(c),
		Communities:   NewCommunitiesAPI(c),
		Events:        NewEventsAPI(c),
		Posts:         NewPostsAPI(c),
		Comments:      NewCommentsAPI(c),
		Invites:       NewInvitesAPI(c),
		Announcements: NewAnnouncementsAPI(c),
	}
}
