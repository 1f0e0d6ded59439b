package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"
	"unicode/utf8"

	"github.com/evcraddock/parlante-widget/internal/comment"
)

// printJSON marshals v as indented JSON and writes it to w.
func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printCommentList prints comments in text format.
func printCommentList(w io.Writer, thread *comment.Thread, timezone string) {
	if len(thread.Comments) == 0 {
		fmt.Fprintln(w, "No comments.")
		return
	}

	for _, c := range thread.Comments {
		author := c.Author
		if author == "" {
			author = "anonymous"
		}
		fmt.Fprintf(w, "[%s] %s\n  %s\n\n", formatTimestamp(c.CreatedAt(), timezone), author, c.Content)
	}
	fmt.Fprintf(w, "Total: %d comments\n", thread.Total)
}

// printCountTable prints per-page comment counts as a formatted table.
func printCountTable(w io.Writer, counts *comment.CountResponse) error {
	if len(counts.CommentCount) == 0 {
		fmt.Fprintln(w, "No pages found.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, "COUNT\tPAGE"); err != nil {
		return fmt.Errorf("writing table header: %w", err)
	}
	if _, err := fmt.Fprintln(tw, "-----\t----"); err != nil {
		return fmt.Errorf("writing table separator: %w", err)
	}
	for _, pc := range counts.CommentCount {
		if _, err := fmt.Fprintf(tw, "%d\t%s\n", pc.Count, truncate(pc.PageURL, 70)); err != nil {
			return fmt.Errorf("writing table row: %w", err)
		}
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flushing table: %w", err)
	}

	fmt.Fprintf(w, "\nTotal: %d pages\n", counts.Total)
	return nil
}

// formatTimestamp formats t in the named zone, falling back to UTC.
func formatTimestamp(t time.Time, timezone string) string {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		loc = time.UTC
	}
	return t.In(loc).Format("2006-01-02 15:04")
}

// truncate shortens a string to maxLen runes, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	return string([]rune(s)[:maxLen-3]) + "..."
}
