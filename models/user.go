package models

type User struct {
	ID        ID     `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// LookupStatus tags the outcome of resolving an email on the BDD service.
type LookupStatus string

const (
	LookupFound    LookupStatus = "found"
	LookupPending  LookupStatus = "pending" // invitation just sent, user record not provisioned yet
	LookupNotFound LookupStatus = "not_found"
)

type UserLookup struct {
	Status LookupStatus
	User   *User
}
