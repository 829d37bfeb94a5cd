package models

// TokenPair is the access/refresh pair the collaborator issues on login and
// register. These two opaque strings are the only state the client persists.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}
