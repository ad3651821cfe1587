package model

import "time"

// User represents an application user record as stored in the `users`
// table.  Users are never registered locally: a row is created the first
// time an identity provider subject is seen.
//
// Fields:
//  ID            – primary key identifier of the user.
//  AuthSubjectID – identity provider subject (unique, immutable).
//  Email         – email claim captured at first sight.
//  Name          – display name; editable through the profile endpoint.
//  CreatedAt     – timestamp of creation.
type User struct {
	ID            uint64    // users.id
	AuthSubjectID string    // users.auth_subject_id
	Email         string    // users.email
	Name          string    // users.name
	CreatedAt     time.Time // users.created_at
}

// DisplayName is the name shown next to reviews; it falls back to the
// email when no name was ever provided.
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}
