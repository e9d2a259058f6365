package model

// Bank is a bank account registered by the user.
type Bank struct {
	Link *string `json:"link"`
	Name string  `json:"name"`
	ID   int64   `json:"id"`
}
