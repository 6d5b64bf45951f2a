package dto

// CreateInviteRequest asks for a community invite link
type CreateInviteRequest struct {
	CommunityID string `json:"communityId"`
}

// SendInviteRequest emails a one-off invite
type SendInviteRequest struct {
	CommunityID string `json:"communityId"`
	Name        string `json:"name" validate:"notblank,max=100"`
	Email       string `json:"email" validate:"required,mail"`
}

// InviteView is the invite dialog state
type InviteView struct {
	CommunityID string `json:"communityId"`
	Link        string `json:"link"`
}
