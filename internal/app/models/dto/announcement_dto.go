package dto

// AnnouncementRequest creates an announcement
type AnnouncementRequest struct {
	Header     string `json:"header" validate:"notblank,max=200"`
	Subcontent string `json:"subcontent"`
}
