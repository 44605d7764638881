package model

// Record is one item returned by the remote endpoint.
// Extra fields in the payload are ignored.
type Record struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	Body  string `json:"body"`
}
