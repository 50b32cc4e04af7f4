// CLAUDE:SUMMARY Normalizes pasted rich-text memos: bluemonday sanitize + HTML→markdown conversion.
package distill

import (
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/microcosm-cc/bluemonday"
)

var memoPolicy = bluemonday.UGCPolicy()

// MemoFromHTML converts a pasted rich-text memo (HTML from mail clients or
// editors) into plain markdown text suitable for DistillText. Scripts,
// styles and event handlers are stripped before conversion.
func MemoFromHTML(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", fmt.Errorf("%w: empty memo", ErrInvalidInput)
	}
	sanitized := memoPolicy.Sanitize(html)
	md, err := htmltomarkdown.ConvertString(sanitized)
	if err != nil {
		return "", fmt.Errorf("distill: convert memo html: %w", err)
	}
	return strings.TrimSpace(md), nil
}
