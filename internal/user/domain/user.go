package domain

import "time"

// User is an island account. ID is assigned by the store on creation and is
// immutable afterwards, as is Username. PasswordHash never crosses the
// service boundary: read operations clear it before returning.
type User struct {
	ID              int64
	Username        string
	PasswordHash    string
	Nickname        string
	City            string
	Photo           string
	Word            string
	LettersSent     int
	LettersReceived int
	CreatedAt       time.Time
}

// Redacted returns a copy safe to hand outward.
func (u User) Redacted() User {
	u.PasswordHash = ""
	return u
}

// ProfilePatch is the caller-supplied profile update. Nil means "leave as
// is". Word, Photo and the letter counters are owned by other paths or other
// subsystems; the service strips them unconditionally before persisting.
type ProfilePatch struct {
	Nickname        *string
	City            *string
	Word            *string
	Photo           *string
	LettersSent     *int
	LettersReceived *int
}

// IsEmpty reports whether the patch carries no fields at all.
func (p ProfilePatch) IsEmpty() bool {
	return p.Nickname == nil && p.City == nil && p.Word == nil &&
		p.Photo == nil && p.LettersSent == nil && p.LettersReceived == nil
}

type UserPage struct {
	Records  []User
	Total    int64
	Page     int
	PageSize int
}
