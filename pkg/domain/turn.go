package domain

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
)

type ContentPartType string

const (
	ContentPartTypeText  ContentPartType = "text"
	ContentPartTypeImage ContentPartType = "image"
)

type ContentPart struct {
	Type ContentPartType `json:"type"`
	Data string          `json:"data"`
}

func TextPart(text string) ContentPart {
	return ContentPart{Type: ContentPartTypeText, Data: text}
}

func ImagePart(dataURI string) ContentPart {
	return ContentPart{Type: ContentPartTypeImage, Data: dataURI}
}

// Turn is one participant's contribution to a conversation. A user turn is
// created final; an agent turn starts pending with no parts and is mutated in
// place until finalized. Once Pending is false the parts never change.
type Turn struct {
	ID        int64         `json:"id"`
	Role      Role          `json:"role"`
	Parts     []ContentPart `json:"parts"`
	CreatedAt time.Time     `json:"createdAt"`
	Pending   bool          `json:"pending"`
}
