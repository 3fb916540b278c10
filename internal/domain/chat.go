package domain

import "time"

type ChatThread struct {
	ID            int32     `json:"thread_id"`
	RenterID      int32     `json:"renter_id"`
	OwnerID       int32     `json:"owner_id"`
	ListingID     *int32    `json:"listing_id,omitempty"`
	CreatedOn     time.Time `json:"created_on"`
	LastMessageOn time.Time `json:"last_message_on"`
}

// Partner returns the participant that is not userID.
func (t *ChatThread) Partner(userID int32) int32 {
	if t.RenterID == userID {
		return t.OwnerID
	}
	return t.RenterID
}

// HasParticipant reports whether userID is part of the thread.
func (t *ChatThread) HasParticipant(userID int32) bool {
	return t.RenterID == userID || t.OwnerID == userID
}

type ChatMessage struct {
	ID        int32      `json:"id"`
	ThreadID  int32      `json:"thread_id"`
	SenderID  int32      `json:"sender_id"`
	Content   string     `json:"content"`
	CreatedOn time.Time  `json:"created_at"`
	ReadOn    *time.Time `json:"read_at,omitempty"`
}

// ThreadSummary is an inbox row.
type ThreadSummary struct {
	ThreadID           int32     `json:"thread_id"`
	ListingID          *int32    `json:"listing_id,omitempty"`
	Partner            PartyRef  `json:"partner"`
	LastMessageContent string    `json:"last_message_content"`
	LastMessageOn      time.Time `json:"last_message_on"`
	UnreadCount        int32     `json:"unread_count"`
}
