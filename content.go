package boardcrawl

import (
	"strings"
)

const (
	// AuthorMarker starts the header line that carries the post's author.
	AuthorMarker = "作者"

	// UnknownAuthor is used when no line carries AuthorMarker.
	UnknownAuthor = "N/A"

	// SignatureDelimiter is the line that starts a post's signature block.
	SignatureDelimiter = "--"

	// headerLines is the fixed size of the metadata header (author, board,
	// title, date) that precedes every post body.
	headerLines = 4
)

// SplitContent separates the rendered text of a post into its author and
// body. The author comes from the first line starting with AuthorMarker,
// wherever it appears; later marker lines don't replace it, unlike a scan
// that keeps overwriting on every match. The body is everything after the
// first four header lines, cut at the first line that is exactly "--"
// followed by a line break, and trimmed. When the author line sits below
// the header it is left out of the body; any other line starting with
// AuthorMarker (a book's author, a reply to the poster) is body text.
func SplitContent(raw string) (author, body string) {
	lines := strings.Split(raw, "\n")

	author = UnknownAuthor
	authorLine := -1
	for i, line := range lines {
		if strings.HasPrefix(line, AuthorMarker) {
			author = strings.TrimSpace(strings.ReplaceAll(line, AuthorMarker, ""))
			authorLine = i
			break
		}
	}

	if len(lines) <= headerLines {
		return author, ""
	}
	rest := lines[headerLines:]

	// The last line has no line break after it, so it can't open a
	// signature block.
	for i := 0; i < len(rest)-1; i++ {
		if rest[i] == SignatureDelimiter {
			rest = rest[:i]
			break
		}
	}

	if at := authorLine - headerLines; at >= 0 && at < len(rest) {
		rest = append(rest[:at:at], rest[at+1:]...)
	}

	return author, strings.TrimSpace(strings.Join(rest, "\n"))
}
