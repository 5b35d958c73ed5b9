// Package models defines client-side data models used by the storekeeper CLI.
package models

import "encoding/json"

// User is the account record as the backend returns it. Field names follow
// the API's snake_case JSON contract.
type User struct {
	ID             int64  `json:"id"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Role           string `json:"role"`
	ProfilePicture string `json:"profile_picture,omitempty"`
}

// FullName returns "First Last" with missing parts omitted.
func (u *User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}

// Equal reports field-for-field equality with another user record.
func (u *User) Equal(other *User) bool {
	if u == nil || other == nil {
		return u == other
	}
	return *u == *other
}

// Marshal serializes the user for the persistent store.
func (u *User) Marshal() ([]byte, error) {
	return json.Marshal(u)
}

// UnmarshalUser restores a user previously stored with Marshal.
func UnmarshalUser(data []byte) (*User, error) {
	var u User
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// RegistrationData carries the fields required by the registration endpoint.
type RegistrationData struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
	Role      string `json:"role"`
}

// ProfileUpdate carries the editable identity fields for the profile
// endpoint. Role is intentionally absent: the profile endpoint does not
// change it.
type ProfileUpdate struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}
