package domain

// Team is a named group owned by a user. Members is the roster embedded in list responses.
type Team struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Members []Member `json:"members,omitempty"`
}

// Member belongs to exactly one team and is unique by ID within it.
type Member struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	TeamID string `json:"teamId"`
	Cards  []Card `json:"cards"`
}

// Card is an entry of a member's card set.
type Card struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// NewMember is the payload for adding a member to a team.
type NewMember struct {
	Name    string   `json:"name"`
	CardIDs []string `json:"cardIds"`
}
