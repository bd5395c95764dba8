package model

// DealDocument is one indexed unit of due-diligence content for an
// investment. Rows are written by the external ingestion pipeline and are
// read-only from this service's point of view.
type DealDocument struct {
	ID            string `json:"id"`
	InvestmentID  string `json:"investment_id"`
	Title         string `json:"title"`
	SourceRef     string `json:"source_ref"`
	Content       string `json:"content"`
	ContentLength int    `json:"content_length"`
	Status        string `json:"status"`
	Ctime         int64  `json:"ctime"`
	Mtime         int64  `json:"mtime"`
}
