package models

// ChatEntry is one message in a post's private chat history. Histories are
// keyed by post id in their own document; a history may outlive the post it
// references (no referential integrity between the two documents).
type ChatEntry struct {
	SenderName  string `json:"senderName"`
	SenderEmail string `json:"senderEmail"`
	Message     string `json:"message"`
	Timestamp   string `json:"timestamp"`
}
