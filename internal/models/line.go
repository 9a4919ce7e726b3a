package models

import "encoding/json"

// Line is a provider-registered phone number this system can send and
// receive on. Only lines whose status is "active" (case-insensitive)
// are ever surfaced to the client.
type Line struct {
	UID        string
	Number     string
	Title      string
	Status     string
	Credential string
}

// DisplayName returns the line's title, falling back to its number.
func (l Line) DisplayName() string {
	if l.Title != "" {
		return l.Title
	}
	return l.Number
}

// MarshalJSON emits the shape the lines endpoint exposes: "name" is
// the title falling back to the number, and the provider credential
// travels as "api_key".
func (l Line) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		UID    string `json:"uid"`
		Number string `json:"number"`
		Name   string `json:"name"`
		APIKey string `json:"api_key"`
	}{l.UID, l.Number, l.DisplayName(), l.Credential})
}
