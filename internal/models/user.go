package models

import (
	"net/url"
	"time"
)

// DateLayout is the calendar-day format used when echoing a freshly created user.
const DateLayout = time.DateOnly

// User represents a user record in the users file.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Forename string `json:"forename"`
	Surname  string `json:"surname"`
	Created  int64  `json:"created"` // Unix epoch milliseconds
}

// CreatedAt returns the creation time as a time.Time.
func (u User) CreatedAt() time.Time {
	return time.UnixMilli(u.Created).UTC()
}

// NewUser is the view of a user returned right after creation,
// with the creation date truncated to the day.
type NewUser struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Forename string `json:"forename"`
	Surname  string `json:"surname"`
	Created  string `json:"created"`
}

// ToNewUser converts a stored user into its creation view.
func (u User) ToNewUser() NewUser {
	return NewUser{
		ID:       u.ID,
		Email:    u.Email,
		Forename: u.Forename,
		Surname:  u.Surname,
		Created:  u.CreatedAt().Format(DateLayout),
	}
}

// CreateUserInput is the payload for creating a user.
type CreateUserInput struct {
	Email    string `json:"email"`
	Forename string `json:"forename"`
	Surname  string `json:"surname"`
}

// FromForm fills the input from urlencoded form values.
func (in *CreateUserInput) FromForm(form url.Values) {
	in.Email = form.Get("email")
	in.Forename = form.Get("forename")
	in.Surname = form.Get("surname")
}

// UpdateUserInput is the payload for a partial update. Nil fields are left untouched.
type UpdateUserInput struct {
	Email    *string `json:"email"`
	Forename *string `json:"forename"`
	Surname  *string `json:"surname"`
}

// FromForm fills the input from urlencoded form values. Only keys present in
// the form are set, so an empty value still counts as supplied.
func (in *UpdateUserInput) FromForm(form url.Values) {
	in.Email = formValue(form, "email")
	in.Forename = formValue(form, "forename")
	in.Surname = formValue(form, "surname")
}

func formValue(form url.Values, key string) *string {
	if !form.Has(key) {
		return nil
	}
	v := form.Get(key)
	return &v
}
