package browser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// blockElements start and end on their own line when rendered.
var blockElements = map[atom.Atom]bool{
	atom.Address:    true,
	atom.Article:    true,
	atom.Aside:      true,
	atom.Blockquote: true,
	atom.Dd:         true,
	atom.Div:        true,
	atom.Dl:         true,
	atom.Dt:         true,
	atom.Footer:     true,
	atom.Form:       true,
	atom.H1:         true,
	atom.H2:         true,
	atom.H3:         true,
	atom.H4:         true,
	atom.H5:         true,
	atom.H6:         true,
	atom.Header:     true,
	atom.Hr:         true,
	atom.Li:         true,
	atom.Main:       true,
	atom.Nav:        true,
	atom.Ol:         true,
	atom.P:          true,
	atom.Pre:        true,
	atom.Section:    true,
	atom.Table:      true,
	atom.Tr:         true,
	atom.Ul:         true,
}

// RenderText approximates a browser's innerText for the selection: text
// nodes are kept verbatim, <br> becomes a line break, block elements sit on
// their own lines, and script/style contents are dropped. Board posts are
// preformatted, so whitespace inside text nodes is preserved.
func RenderText(sel *goquery.Selection) string {
	r := &textRenderer{}
	for _, n := range sel.Nodes {
		r.walk(n)
	}
	return r.b.String()
}

type textRenderer struct {
	b strings.Builder
	// atLineStart is true when nothing has been written since the last
	// line break.
	atLineStart bool
}

func (r *textRenderer) write(s string) {
	if s == "" {
		return
	}
	r.b.WriteString(s)
	r.atLineStart = strings.HasSuffix(s, "\n")
}

// breakLine ends the current line unless it is already empty.
func (r *textRenderer) breakLine() {
	if r.b.Len() == 0 || r.atLineStart {
		return
	}
	r.write("\n")
}

func (r *textRenderer) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		r.write(n.Data)
		return
	case html.ElementNode:
		switch n.DataAtom {
		case atom.Br:
			r.write("\n")
			return
		case atom.Script, atom.Style, atom.Noscript, atom.Template:
			return
		}
	case html.DocumentNode:
	default:
		return
	}

	block := n.Type == html.ElementNode && blockElements[n.DataAtom]
	if block {
		r.breakLine()
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		r.walk(c)
	}
	if block {
		r.breakLine()
	}
}
