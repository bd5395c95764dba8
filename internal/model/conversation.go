package model

type Conversation struct {
	ID           string `json:"id"`
	InvestmentID string `json:"investment_id"`
	Ctime        int64  `json:"ctime"`
	Mtime        int64  `json:"mtime"`
}

type ConversationTurn struct {
	ConversationID string `json:"conversation_id"`
	Seq            int    `json:"seq"`
	Role           string `json:"role"`
	Text           string `json:"text"`
	Ctime          int64  `json:"ctime"`
}
