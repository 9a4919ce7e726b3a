package models

// Kind is the definitive content classification of a message payload.
type Kind string

const (
	KindText        Kind = "text"
	KindImage       Kind = "image"
	KindVideo       Kind = "video"
	KindAudio       Kind = "audio"
	KindDocument    Kind = "document"
	KindSticker     Kind = "sticker"
	KindLocation    Kind = "location"
	KindContact     Kind = "contact"
	KindPoll        Kind = "poll"
	KindInteractive Kind = "interactive"
	KindReaction    Kind = "reaction"
)

// ParsedMessage is the canonical display model derived from a raw
// provider payload. It is never persisted; every field other than Kind
// may be empty when the payload does not carry it.
type ParsedMessage struct {
	Kind          Kind         `json:"kind"`
	TextContent   string       `json:"textContent,omitempty"`
	MediaURL      string       `json:"mediaUrl,omitempty"`
	Caption       string       `json:"caption,omitempty"`
	FileName      string       `json:"fileName,omitempty"`
	Location      *Location    `json:"location,omitempty"`
	Contact       *ContactCard `json:"contact,omitempty"`
	Interactive   *Interactive `json:"pollOrInteractive,omitempty"`
	QuotedPreview string       `json:"quotedPreview,omitempty"`
}

// Location is an extracted location payload. Latitude/longitude keep
// whatever the payload carried; malformed values degrade to zero.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Name      string  `json:"name,omitempty"`
	Address   string  `json:"address,omitempty"`
}

// ContactCard is an extracted shared-contact payload. Phone is nil when
// the vCard is absent or carries no TEL line.
type ContactCard struct {
	Name  string  `json:"name,omitempty"`
	Phone *string `json:"phone,omitempty"`
}

// Interactive covers both poll payloads (Question/Options) and
// button/template/list payloads (Body/Buttons).
type Interactive struct {
	Question string   `json:"question,omitempty"`
	Options  []string `json:"options,omitempty"`
	Body     string   `json:"body,omitempty"`
	Buttons  []string `json:"buttons,omitempty"`
}
