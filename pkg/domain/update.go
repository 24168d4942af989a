package domain

// Update is pushed to the rendering layer on every observable mutation:
// a turn snapshot whenever a turn is appended or rewritten, and typing
// flips around each exchange.
type Update struct {
	ConversationID string `json:"conversationId"`
	Turn           *Turn  `json:"turn,omitempty"`
	Typing         *bool  `json:"typing,omitempty"`
}

type File struct {
	Name string
	Data []byte
}
