package postservice

import (
	"database/sql"

	"github.com/mbeaufort/inkwell/internal/common"
)

// PublicationDateFormat is the human-readable date stamped on a post when it
// is created, e.g. "August 31, 2026".
const PublicationDateFormat = "January 02, 2006"

type Post struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Date     string `json:"date"`
	// Body is stored as sanitized rich text (HTML).
	Body       string `json:"body"`
	ImgURL     string `json:"img_url"`
	AuthorID   int    `json:"author_id"`
	AuthorName string `json:"author_name,omitempty"`
}

type Comment struct {
	ID         int    `json:"id"`
	Body       string `json:"body"`
	AuthorID   int    `json:"author_id"`
	AuthorName string `json:"author_name,omitempty"`
	PostID     int    `json:"post_id"`
}

type PostModel struct {
	db *sql.DB
}

type PostService struct {
	m *PostModel
	c *common.Cache
}
