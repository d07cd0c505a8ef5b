package notes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []Block
	}{
		{
			name: "empty notes",
			raw:  "",
			want: []Block{{Kind: BlockPlaceholder, Text: PlaceholderText}},
		},
		{
			name: "list, spacer and linked paragraph",
			raw:  "- buy milk\n- call Bob\n\nwww.example.com and a@b.com",
			want: []Block{
				{Kind: BlockList, Items: []string{"buy milk", "call Bob"}},
				{Kind: BlockSpacer},
				{Kind: BlockParagraph, Spans: []Span{
					{Kind: SpanLink, Text: "www.example.com", Href: "http://www.example.com"},
					{Kind: SpanText, Text: " and "},
					{Kind: SpanEmail, Text: "a@b.com", Href: "mailto:a@b.com"},
				}},
			},
		},
		{
			name: "star markers and indentation",
			raw:  "  * first\n* second\nplain",
			want: []Block{
				{Kind: BlockList, Items: []string{"first", "second"}},
				{Kind: BlockParagraph, Spans: []Span{{Kind: SpanText, Text: "plain"}}},
			},
		},
		{
			name: "separate lists stay separate",
			raw:  "- a\nbetween\n- b",
			want: []Block{
				{Kind: BlockList, Items: []string{"a"}},
				{Kind: BlockParagraph, Spans: []Span{{Kind: SpanText, Text: "between"}}},
				{Kind: BlockList, Items: []string{"b"}},
			},
		},
		{
			name: "dash without space is not a list item",
			raw:  "-not a list",
			want: []Block{
				{Kind: BlockParagraph, Spans: []Span{{Kind: SpanText, Text: "-not a list"}}},
			},
		},
		{
			name: "https link keeps its own target",
			raw:  "see https://example.org/path?q=1 now",
			want: []Block{
				{Kind: BlockParagraph, Spans: []Span{
					{Kind: SpanText, Text: "see "},
					{Kind: SpanLink, Text: "https://example.org/path?q=1", Href: "https://example.org/path?q=1"},
					{Kind: SpanText, Text: " now"},
				}},
			},
		},
		{
			name: "whitespace only line is a spacer",
			raw:  "hello\n   \r\nworld",
			want: []Block{
				{Kind: BlockParagraph, Spans: []Span{{Kind: SpanText, Text: "hello"}}},
				{Kind: BlockSpacer},
				{Kind: BlockParagraph, Spans: []Span{{Kind: SpanText, Text: "world"}}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.raw))
		})
	}
}

func TestFormatIsRestartable(t *testing.T) {
	raw := "- one\nmail me: jane.doe@corp.io"
	first := Format(raw)
	second := Format(raw)
	assert.Equal(t, first, second)
}

func TestLinkifyEmailInsideURLStaysLink(t *testing.T) {
	spans := Linkify("https://x.io/u/bob@corp.io")
	assert.Equal(t, []Span{
		{Kind: SpanLink, Text: "https://x.io/u/bob@corp.io", Href: "https://x.io/u/bob@corp.io"},
	}, spans)
}
