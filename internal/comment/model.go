// Package comment provides the comment types exchanged with the parlante service.
package comment

import "time"

// Submission is the body posted when a visitor leaves a comment.
type Submission struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// Comment is a published comment as returned by the JSON listing.
type Comment struct {
	Author    string `json:"author"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"`
}

// CreatedAt returns the comment timestamp as a time.Time.
func (c Comment) CreatedAt() time.Time {
	return time.Unix(c.Timestamp, 0)
}

// Thread is the response from GET /comment/{id}.
type Thread struct {
	Total    int       `json:"total"`
	Comments []Comment `json:"comments"`
}

// CountRequest asks for the comment count of several pages.
type CountRequest struct {
	PageURLs []string `json:"page_urls"`
}

// PageCount is the number of comments on a single page.
type PageCount struct {
	PageURL string `json:"page_url"`
	Count   int64  `json:"count"`
}

// CountResponse is the response from POST /comment/{id}/count.
type CountResponse struct {
	Total        int         `json:"total"`
	CommentCount []PageCount `json:"comment_count"`
}
