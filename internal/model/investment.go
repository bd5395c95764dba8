package model

type Investment struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Sponsor string `json:"sponsor"`
	Summary string `json:"summary"`
	State   int    `json:"state"`
	Ctime   int64  `json:"ctime"`
	Mtime   int64  `json:"mtime"`
}
