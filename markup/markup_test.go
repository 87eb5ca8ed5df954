package markup

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatInline(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"**bold**", "<strong>bold</strong>"},
		{"*italic*", "<em>italic</em>"},
		{"text **bold** and *italic*", "text <strong>bold</strong> and <em>italic</em>"},
		{"use `go test`", "use <code>go test</code>"},
		{"![diagram](/img/a.png)", `<img src="/img/a.png" alt="diagram" loading="lazy"/>`},
		{"[docs](https://go.dev)", `<a href="https://go.dev" target="_blank" rel="noopener noreferrer">docs</a>`},
		{"[home](/)", `<a href="/">home</a>`},
		{"a < b & c", "a &lt; b &amp; c"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatInline(tt.input))
		})
	}
}

func TestUnsafeURLsAreNeutralized(t *testing.T) {
	assert.Equal(t, `<a href="#">x</a>`, FormatInline("[x](javascript:void)"))
	assert.Contains(t, FormatInline("![x](data:text/html;base64,AAAA)"), `src="#"`)
}

func TestSafeURLRejectsAttributeBreakers(t *testing.T) {
	for _, raw := range []string{
		"http://x/a b",
		"http://x/&#34;onload=x",
		"http://x/'y",
		"http://x/<em>y</em>",
		"/path\tz",
	} {
		assert.Equal(t, "#", SafeURL(raw), raw)
	}
	assert.Equal(t, "https://go.dev/doc?a=1&amp;b=2", SafeURL("https://go.dev/doc?a=1&amp;b=2"))
}

func TestLinkInsideImageURLStaysInert(t *testing.T) {
	got := string(ToHTML("![a](http://x/[b](mailto:x onerror=location=name;//))"))

	assert.Equal(t, `<p><img src="#" alt="a" loading="lazy"/>)</p>`, got)
	assert.NotContains(t, got, "onerror")
	assert.NotContains(t, got, "<a ")
}

func TestRawHTMLIsEscaped(t *testing.T) {
	got := string(ToHTML("<img src=x onerror=alert(1)>"))
	assert.Equal(t, "<p>&lt;img src=x onerror=alert(1)&gt;</p>", got)
}

func TestExtractSeparatesFences(t *testing.T) {
	segments := Extract("before\n```go\nfmt.Println(\"**x**\")\n```\nafter")

	require.Len(t, segments, 3)
	assert.Equal(t, Segment{Kind: Text, Raw: "before\n"}, segments[0])
	assert.Equal(t, Segment{Kind: Code, Raw: "fmt.Println(\"**x**\")\n"}, segments[1])
	assert.Equal(t, Segment{Kind: Text, Raw: "\nafter"}, segments[2])
}

func TestFencedScriptIsEscaped(t *testing.T) {
	got := string(ToHTML("```html\n<script>alert('hi')</script>\n```"))

	assert.Equal(t, "<pre><code>&lt;script&gt;alert(&#39;hi&#39;)&lt;/script&gt;</code></pre>", got)
	assert.NotContains(t, got, "<script>")
}

func TestCodeIsNotInlineFormatted(t *testing.T) {
	got := string(ToHTML("```\na **b** *c*\n# not a heading\n- not a list\n```"))

	assert.Equal(t, "<pre><code>a **b** *c*\n# not a heading\n- not a list</code></pre>", got)
}

func TestConsecutiveListItemsShareOneList(t *testing.T) {
	got := string(ToHTML("- a\n- b\n\nafter\n- c"))

	assert.Equal(t, "<ul><li>a</li><li>b</li></ul><p>after</p><ul><li>c</li></ul>", got)
	assert.Equal(t, 2, strings.Count(got, "<ul>"))
}

func TestStructureHeadingsAndParagraphs(t *testing.T) {
	doc := Structure(Inline(Extract("# One\n## Two\n### Three\n\n\nplain **text**\n#hashtag")))

	require.Len(t, doc, 5)
	assert.Equal(t, Block{Kind: Heading1, HTML: "One"}, doc[0])
	assert.Equal(t, Block{Kind: Heading2, HTML: "Two"}, doc[1])
	assert.Equal(t, Block{Kind: Heading3, HTML: "Three"}, doc[2])
	assert.Equal(t, Block{Kind: Paragraph, HTML: "plain <strong>text</strong>"}, doc[3])
	assert.Equal(t, Block{Kind: Paragraph, HTML: "#hashtag"}, doc[4])
}

func TestUnclosedFenceStaysText(t *testing.T) {
	segments := Extract("```\nnever closed")

	require.Len(t, segments, 1)
	assert.Equal(t, Text, segments[0].Kind)
}

func TestListInterruptedByCode(t *testing.T) {
	got := string(ToHTML("- a\n```\nx\n```\n- b"))

	assert.Equal(t, "<ul><li>a</li></ul><pre><code>x</code></pre><ul><li>b</li></ul>", got)
}
