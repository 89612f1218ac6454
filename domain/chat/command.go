package chat

type SendMessageCommand struct {
	ReceiverID  string
	Content     string
	MessageType string
}

type SendTypingCommand struct {
	ReceiverID string
	IsTyping   bool
}

type GetHistoryCommand struct {
	Limit int
}

type SearchCommand struct {
	Term  string
	Limit int
}
