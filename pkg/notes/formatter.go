// Package notes turns free-form contact notes into renderable blocks:
// bullet lists, spacers and paragraphs with auto-linked URLs and emails.
package notes

import (
	"regexp"
	"strings"
)

type BlockKind string

const (
	BlockParagraph   BlockKind = "paragraph"
	BlockList        BlockKind = "list"
	BlockSpacer      BlockKind = "spacer"
	BlockPlaceholder BlockKind = "placeholder"
)

type SpanKind string

const (
	SpanText  SpanKind = "text"
	SpanLink  SpanKind = "link"
	SpanEmail SpanKind = "email"
)

const PlaceholderText = "No notes."

type Span struct {
	Kind SpanKind `json:"kind"`
	Text string   `json:"text"`
	Href string   `json:"href,omitempty"`
}

type Block struct {
	Kind  BlockKind `json:"kind"`
	Spans []Span    `json:"spans,omitempty"`
	Items []string  `json:"items,omitempty"`
	Text  string    `json:"text,omitempty"`
}

var (
	urlPattern   = regexp.MustCompile(`(?:https?://|www\.)\S+`)
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._-]+@[a-zA-Z0-9._-]+\.[a-zA-Z0-9_-]+`)
)

var listMarkers = []string{"- ", "* "}

// Format is a pure function of raw; nil-equivalent (empty) input yields a
// single placeholder block.
func Format(raw string) []Block {
	if raw == "" {
		return []Block{{Kind: BlockPlaceholder, Text: PlaceholderText}}
	}

	var (
		blocks []Block
		items  []string
	)
	flush := func() {
		if len(items) > 0 {
			blocks = append(blocks, Block{Kind: BlockList, Items: items})
			items = nil
		}
	}

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSuffix(line, "\r")
		trimmed := strings.TrimSpace(line)

		if item, ok := listItem(trimmed); ok {
			items = append(items, item)
			continue
		}

		flush()
		if trimmed == "" {
			blocks = append(blocks, Block{Kind: BlockSpacer})
			continue
		}
		blocks = append(blocks, Block{Kind: BlockParagraph, Spans: Linkify(line)})
	}
	flush()

	return blocks
}

func listItem(trimmed string) (string, bool) {
	for _, marker := range listMarkers {
		if strings.HasPrefix(trimmed, marker) {
			return trimmed[len(marker):], true
		}
	}
	return "", false
}

// Linkify splits a single line into text, link and email spans in order.
// URLs take precedence; emails are only searched in the text between URLs.
func Linkify(line string) []Span {
	var spans []Span
	last := 0
	for _, loc := range urlPattern.FindAllStringIndex(line, -1) {
		spans = appendEmails(spans, line[last:loc[0]])
		token := line[loc[0]:loc[1]]
		spans = append(spans, Span{Kind: SpanLink, Text: token, Href: linkTarget(token)})
		last = loc[1]
	}
	return appendEmails(spans, line[last:])
}

func appendEmails(spans []Span, text string) []Span {
	last := 0
	for _, loc := range emailPattern.FindAllStringIndex(text, -1) {
		spans = appendText(spans, text[last:loc[0]])
		token := text[loc[0]:loc[1]]
		spans = append(spans, Span{Kind: SpanEmail, Text: token, Href: "mailto:" + token})
		last = loc[1]
	}
	return appendText(spans, text[last:])
}

func appendText(spans []Span, text string) []Span {
	if text == "" {
		return spans
	}
	return append(spans, Span{Kind: SpanText, Text: text})
}

func linkTarget(token string) string {
	if strings.HasPrefix(token, "www.") {
		return "http://" + token
	}
	return token
}
