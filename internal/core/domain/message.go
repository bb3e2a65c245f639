package domain

import "time"

// Message is a chat line between the two parties of a task. Delivery is by
// polling; no ordering beyond CreatedAt is promised.
type Message struct {
	ID         string     `json:"id" bson:"_id,omitempty"`
	TaskID     string     `json:"taskId" bson:"task_id"`
	FromUserID string     `json:"fromUserId" bson:"from_user_id"`
	ToUserID   string     `json:"toUserId" bson:"to_user_id"`
	Text       string     `json:"text" bson:"text"`
	Seen       bool       `json:"seen" bson:"seen"`
	SeenAt     *time.Time `json:"seenAt,omitempty" bson:"seen_at,omitempty"`
	CreatedAt  time.Time  `json:"createdAt" bson:"created_at"`
}

// Counterpart returns the other party of the message relative to userID.
func (m *Message) Counterpart(userID string) string {
	if m.FromUserID == userID {
		return m.ToUserID
	}
	return m.FromUserID
}

// Conversation is the latest message exchanged with one counterpart.
type Conversation struct {
	With        UserSummary `json:"with"`
	LastMessage Message     `json:"lastMessage"`
	Unread      int         `json:"unread"`
}
