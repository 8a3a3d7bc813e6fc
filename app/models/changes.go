package models

// UserChanges lists the fields of a user update. Empty fields are left as they are.
type UserChanges struct {
	Name         string
	Email        string
	PasswordHash string
}
