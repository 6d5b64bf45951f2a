package dto

// CreateCommunityRequest creates a community with a generic cover image
type CreateCommunityRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Generic     int    `json:"generic"`
}

// UpdateCommunityRequest represents community text update data
type UpdateCommunityRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CommunityRow is one row of the communities grid
type CommunityRow struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Photo          string `json:"photo"`
	Description    string `json:"description"`
	Members        int    `json:"members"`
	SubCommunities int    `json:"subCommunities"`
	Status         string `json:"status"`
}
