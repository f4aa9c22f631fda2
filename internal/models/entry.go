package models

// Entry is a single feed item rendered into the document: an episode or a post.
type Entry struct {
	Title string `json:"title"`
	Link  string `json:"link"`
}
