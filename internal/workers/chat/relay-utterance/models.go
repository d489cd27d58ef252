// internal/workers/chat/relay-utterance/models.go
package relayutterance

// Message is one chat bubble on the wire.
type Message struct {
	Type         string       `json:"type"`
	Unstructured Unstructured `json:"unstructured"`
}

type Unstructured struct {
	ID        string `json:"id,omitempty"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp,omitempty"`
}

// Input is the raw chat frame from the front end. SessionID may be empty on
// the first turn.
type Input struct {
	SessionID string    `json:"sessionId,omitempty"`
	Messages  []Message `json:"messages"`
}

// Output echoes the session id and carries the bot replies in the same
// message shape the front end sent.
type Output struct {
	SessionID string    `json:"sessionId"`
	Messages  []Message `json:"messages"`
}

// nluRequest is the payload sent to the language-understanding service.
type nluRequest struct {
	SessionID string `json:"sessionId"`
	BotID     string `json:"botId"`
	LocaleID  string `json:"localeId"`
	Text      string `json:"text"`
}

// nluResponse is what the language-understanding service returns.
type nluResponse struct {
	Messages []struct {
		Content string `json:"content"`
	} `json:"messages"`
}
