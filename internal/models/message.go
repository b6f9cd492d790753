package models

import "time"

// StatusSeen marks a message the recipient has read. Anything else counts
// as unread.
const StatusSeen = "seen"

const (
	DirectionOutgoing = "outgoing"
	DirectionIncoming = "incoming"
)

type Offer struct {
	Amount       float64 `bson:"amount,omitempty" json:"amount"`
	Status       string  `bson:"status,omitempty" json:"status"`
	CounterOffer float64 `bson:"counter_offer,omitempty" json:"counterOffer"`
	Terms        string  `bson:"terms,omitempty" json:"terms"`
}

type Message struct {
	ID             string    `bson:"_id,omitempty" json:"_id"`
	Sender         string    `bson:"sender" json:"-"`
	Recipient      string    `bson:"recipient" json:"-"`
	Content        string    `bson:"content,omitempty" json:"content"`
	Offer          *Offer    `bson:"offer,omitempty" json:"offer"`
	Type           string    `bson:"type,omitempty" json:"type"`
	Status         string    `bson:"status,omitempty" json:"status"`
	ConversationID string    `bson:"conversation_id,omitempty" json:"conversationId"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
}

// ChatMessage is a Message annotated for a viewing user, with the
// participant references resolved to public profiles.
type ChatMessage struct {
	ID             string    `json:"_id"`
	Sender         *User     `json:"sender"`
	Recipient      *User     `json:"recipient"`
	Content        string    `json:"content"`
	Offer          *Offer    `json:"offer"`
	Type           string    `json:"type"`
	Status         string    `json:"status"`
	ConversationID string    `json:"conversationId"`
	CreatedAt      time.Time `json:"created_at"`
	Direction      string    `json:"direction"`
	IsCurrentUser  bool      `json:"isCurrentUser"`
}

// Conversation is derived per request; nothing persists it.
type Conversation struct {
	ConversationID string       `json:"conversationId"`
	Participant    *User        `json:"participant"`
	LastMessage    *ChatMessage `json:"lastMessage"`
	UnreadCount    int          `json:"unreadCount"`
}
