package types

const (
	EndpointSendMessage   = "/send_message"
	EndpointGroupSend     = "/group/send"
	EndpointDeleteMessage = "/group/delete-message"
)

// SendTextRequest carries everything needed for one outbound text:
// the line's API credential, the sending line number, the bare
// destination id (contact or group) and the text itself.
type SendTextRequest struct {
	Token string
	From  string
	To    string
	Text  string
}

// DeleteMessageRequest asks the provider to retract a previously sent
// message identified by its provider-assigned id.
type DeleteMessageRequest struct {
	Token     string
	From      string
	ChatJID   string
	MessageID string
	FromMe    bool
}

// SendResponse is the gateway's view of a provider send. Network and
// HTTP failures surface as a populated Error field, never as a Go
// error: the caller always proceeds to record the local outcome.
type SendResponse struct {
	MessageID string                 `json:"messageId,omitempty"`
	Error     string                 `json:"error,omitempty"`
	Raw       map[string]interface{} `json:"raw,omitempty"`
}

// DirectSendPayload and GroupSendPayload are the two provider wire
// shapes; which one is used depends on the group heuristic applied to
// the destination id.
type DirectSendPayload struct {
	Token       string `json:"token"`
	From        string `json:"from"`
	To          string `json:"to"`
	MessageType string `json:"messageType"`
	Text        string `json:"text"`
}

type GroupSendPayload struct {
	Token       string `json:"token"`
	From        string `json:"from"`
	GroupID     string `json:"groupId"`
	MessageType string `json:"messageType"`
	Text        string `json:"text"`
}

type DeletePayload struct {
	Token     string `json:"token"`
	From      string `json:"from"`
	ChatID    string `json:"chatId"`
	MessageID string `json:"messageId"`
	FromMe    bool   `json:"fromMe"`
}
