package domain

import "errors"

var (
	ErrEmptySubmission      = errors.New("submission has no text and no image")
	ErrConversationBusy     = errors.New("previous exchange is still pending")
	ErrConversationNotFound = errors.New("conversation not found")
	ErrEmptyConversation    = errors.New("conversation has no turns")
)

// GenerationFailedMessage is the terminal agent reply for any failed exchange.
const GenerationFailedMessage = "The generation failed. Please refine your prompt and try again."
