package domain

import "time"

type Conversation struct {
	ID         string    `json:"id"`
	CreatedAt  time.Time `json:"createdAt"`
	Turns      []Turn    `json:"turns"`
	NextTurnID int64     `json:"-"`
}

// InFlight reports whether the last turn is still pending, meaning an
// exchange is running and new submissions must be rejected.
func (c *Conversation) InFlight() bool {
	if len(c.Turns) == 0 {
		return false
	}
	return c.Turns[len(c.Turns)-1].Pending
}
