package domain

// RegisterCandidate is a registration request as entered by the viewer.
type RegisterCandidate struct {
	Name     string
	Email    string
	Password string
}

// LoginCandidate is a login request as entered by the viewer.
type LoginCandidate struct {
	Email    string
	Password string
}

// Messages returned in place of an envelope when no backend answer could be obtained.
const (
	MsgInvalidFields  = "Invalid fields"
	MsgRegisterFailed = "Failed to create user"
	MsgLoginFailed    = "Failed to log in"
)
