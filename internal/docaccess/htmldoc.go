package docaccess

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"golang.org/x/net/html"
)

// HTMLDoc is a read-only html backend for suggest-mode analysis. Headings map
// to heading styles, images keep their alt attribute, everything else becomes
// body paragraphs.
type HTMLDoc struct {
	mu   sync.Mutex
	path string
	doc  *RawDocument
}

func NewHTMLDoc(path string) *HTMLDoc {
	return &HTMLDoc{path: path}
}

func (d *HTMLDoc) ReadBatch(ctx context.Context) (*RawDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.doc == nil {
		raw, err := readHTML(d.path)
		if err != nil {
			return nil, err
		}
		d.doc = raw
	}
	c := cloneRaw(*d.doc)
	return &c, nil
}

func (d *HTMLDoc) WriteBatch(ctx context.Context, ops []Op) error { return ErrReadOnly }
func (d *HTMLDoc) Sync(ctx context.Context) error                 { return nil }
func (d *HTMLDoc) ReadOnly() bool                                 { return true }

func readHTML(path string) (*RawDocument, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open html: %w", err)
	}
	defer f.Close()
	node, err := html.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	raw := &RawDocument{Sections: []RawSection{{Top: 72, Bottom: 72, Left: 72, Right: 72}}}
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if level := htmlHeadingLevel(n.Data); level > 0 {
				raw.Paragraphs = append(raw.Paragraphs, RawParagraph{
					Text:      htmlText(n),
					StyleName: fmt.Sprintf("Heading%d", level),
					Bold:      true,
					ListLevel: -1,
				})
				return
			}
			switch n.Data {
			case "script", "style", "nav":
				return
			case "img":
				raw.Images = append(raw.Images, RawImage{AltText: htmlAttr(n, "alt")})
				return
			case "table":
				rows, cols := htmlTableShape(n)
				raw.Tables = append(raw.Tables, RawTable{Rows: rows, Cols: cols})
				return
			case "p", "blockquote":
				raw.Paragraphs = append(raw.Paragraphs, RawParagraph{
					Text:      htmlText(n),
					ListLevel: -1,
				})
				return
			case "li":
				raw.Paragraphs = append(raw.Paragraphs, RawParagraph{
					Text:      htmlText(n),
					ListLevel: 0,
				})
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(node)
	return raw, nil
}

func htmlHeadingLevel(tag string) int {
	if len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6' {
		return int(tag[1] - '0')
	}
	return 0
}

func htmlText(n *html.Node) string {
	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(buf.String()), " ")
}

func htmlAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func htmlTableShape(n *html.Node) (rows, cols int) {
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "tr":
				rows++
				if rows == 1 {
					for c := n.FirstChild; c != nil; c = c.NextSibling {
						if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
							cols++
						}
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return rows, cols
}
