package model

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type ChatTurn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

type Citation struct {
	SourceIndex    int    `json:"source_index"`
	DocumentID     string `json:"document_id"`
	Title          string `json:"title"`
	SnippetPreview string `json:"snippet_preview"`
}

type ChatAnswer struct {
	AnswerText string     `json:"answer_text"`
	Citations  []Citation `json:"citations"`
}
