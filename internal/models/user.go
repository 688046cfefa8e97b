package models

// User represents the person signed in to the app.
//
// A user is created on registration or login and cleared on logout.
// Passwords and phone numbers are sent to the remote service but never stored.
type User struct {
	// Email is the user's email address, used as the login identifier.
	Email string `json:"email"`

	// Name is the display name of the user.
	Name string `json:"name"`
}
