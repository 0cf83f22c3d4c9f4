// Package htmlutil wraps the goquery/html plumbing shared by the site
// scrapers: flattening a document into scannable text, collecting
// anchors, and pulling out the page heading used for name validation.
package htmlutil

import (
	"context"
	"net/url"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/net/html"
)

var tracer = otel.Tracer("infosources.lib.htmlutil")

// FlattenText renders the text content of a selection with sep inserted
// between text nodes, each node's text trimmed. A newline separator
// yields line-scannable output; a space separator keeps a label and its
// value together ("Bias: Middle") even when they sit in sibling tags.
func FlattenText(sel *goquery.Selection, sep string) string {
	var parts []string
	for _, n := range sel.Nodes {
		collectText(n, &parts)
	}
	return strings.Join(parts, sep)
}

func collectText(node *html.Node, parts *[]string) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		text := strings.TrimSpace(node.Data)
		if text != "" {
			*parts = append(*parts, text)
		}
		return
	}
	if node.Type == html.ElementNode && (node.Data == "script" || node.Data == "style") {
		return
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		collectText(child, parts)
	}
}

type Anchor struct {
	Name string
	Href string
}

func removeNonPrintable(s string) string {
	out := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) {
			out.WriteRune(c)
		}
	}
	return out.String()
}

// GetAnchors collects every link in the selection along with its visible
// text, skipping hrefs that fail to parse.
func GetAnchors(ctx context.Context, sel *goquery.Selection) []Anchor {
	_, span := tracer.Start(ctx, "GetAnchors")
	defer span.End()

	anchors := []Anchor{}
	sel.Find("a[href]").Each(func(_ int, link *goquery.Selection) {
		href, _ := link.Attr("href")
		parsed, err := url.Parse(href)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "got error while parsing url")
			return
		}

		name := removeNonPrintable(link.Text())
		name = strings.Join(strings.Fields(name), " ")

		linkStr := parsed.String()
		anchors = append(anchors, Anchor{
			Name: name,
			Href: linkStr,
		})
		span.AddEvent("anchor", trace.WithAttributes(
			attribute.String("name", name),
			attribute.String("url", linkStr),
		))
	})

	return anchors
}

// Heading returns the most specific page heading available: an <h1>
// carrying the given class, then any <h1>, then the document <title>.
// Returns "" when the document has none of them.
func Heading(doc *goquery.Document, class string) string {
	if class != "" {
		if h1 := doc.Find("h1." + class).First(); h1.Length() > 0 {
			return strings.TrimSpace(h1.Text())
		}
	}
	if h1 := doc.Find("h1").First(); h1.Length() > 0 {
		return strings.TrimSpace(h1.Text())
	}
	if title := doc.Find("title").First(); title.Length() > 0 {
		return strings.TrimSpace(title.Text())
	}
	return ""
}
