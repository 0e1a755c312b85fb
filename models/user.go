package models

// Profile is the signed-in user as reported by the backend's /profile.
type Profile struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
