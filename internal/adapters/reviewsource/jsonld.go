package reviewsource

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// ExtractReviews parses an HTML document and returns the schema.org Review
// objects embedded in its <script type="application/ld+json"> blocks, in
// document order. Malformed blocks are skipped.
func ExtractReviews(page []byte) ([]map[string]any, error) {
	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var out []map[string]any
	for _, block := range jsonLDBlocks(doc) {
		var v any
		if err := json.Unmarshal([]byte(block), &v); err != nil {
			continue
		}
		collectReviews(v, false, &out)
	}
	return out, nil
}

func jsonLDBlocks(doc *html.Node) []string {
	var blocks []string
	var traverse func(*html.Node)
	traverse = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "script" && isJSONLD(n) {
			var sb strings.Builder
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.TextNode {
					sb.WriteString(c.Data)
				}
			}
			if s := strings.TrimSpace(sb.String()); s != "" {
				blocks = append(blocks, s)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
	}
	traverse(doc)
	return blocks
}

func isJSONLD(n *html.Node) bool {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, "type") && strings.EqualFold(strings.TrimSpace(a.Val), "application/ld+json") {
			return true
		}
	}
	return false
}

// collectReviews walks decoded JSON-LD. Objects typed Review are collected, as are
// untyped objects found directly under a "review"/"reviews" key.
func collectReviews(v any, underReviewKey bool, out *[]map[string]any) {
	switch t := v.(type) {
	case []any:
		for _, it := range t {
			collectReviews(it, underReviewKey, out)
		}
	case map[string]any:
		typ, hasType := t["@type"]
		if isReviewType(typ) || (underReviewKey && !hasType) {
			*out = append(*out, t)
			return
		}
		for _, k := range []string{"review", "reviews"} {
			if child, ok := t[k]; ok {
				collectReviews(child, true, out)
			}
		}
		for _, k := range []string{"@graph", "itemListElement", "item", "mainEntity"} {
			if child, ok := t[k]; ok {
				collectReviews(child, false, out)
			}
		}
	}
}

func isReviewType(v any) bool {
	switch t := v.(type) {
	case string:
		return t == "Review"
	case []any:
		for _, it := range t {
			if s, ok := it.(string); ok && s == "Review" {
				return true
			}
		}
	}
	return false
}
