// Package markup renders the constrained post-body syntax to HTML in three
// fixed stages: fenced code extraction, inline formatting, block structuring.
// Each stage consumes the previous stage's type, so the order cannot change.
package markup

import (
	"html"
	"html/template"
	"net/url"
	"regexp"
	"strings"
)

var (
	reFence      = regexp.MustCompile("(?s)```[^\\n]*\\n?(.*?)```")
	reBold       = regexp.MustCompile(`\*\*([^\n]+?)\*\*`)
	reItalic     = regexp.MustCompile(`\*([^*\n]+)\*`)
	reInlineCode = regexp.MustCompile("`([^`\\n]+)`")
	reMedia      = regexp.MustCompile(`(!?)\[([^\]\n]*)\]\(([^)\n]*)\)`)
)

// SegmentKind tells code apart from prose.
type SegmentKind int

const (
	Text SegmentKind = iota
	Code
)

// Segment is a run of raw source, either prose or the body of a fenced block.
type Segment struct {
	Kind SegmentKind
	Raw  string
}

// Extracted is the output of the first stage.
type Extracted []Segment

// Fragment is a segment whose HTML is final: escaped code, or escaped and
// inline-formatted prose that still carries its line breaks.
type Fragment struct {
	Kind SegmentKind
	HTML string
}

// Formatted is the output of the second stage.
type Formatted []Fragment

// BlockKind is the element a block renders as.
type BlockKind int

const (
	Paragraph BlockKind = iota
	Heading1
	Heading2
	Heading3
	List
	CodeBlock
)

// Block is one top-level element of a rendered body.
type Block struct {
	Kind  BlockKind
	HTML  string
	Items []string
}

// Document is the output of the third stage.
type Document []Block

// Extract splits src into prose and fenced code. The language tag after the
// opening fence is dropped. An unclosed fence stays prose.
func Extract(src string) Extracted {
	src = strings.ReplaceAll(src, "\r\n", "\n")

	var out Extracted
	last := 0
	for _, loc := range reFence.FindAllStringSubmatchIndex(src, -1) {
		if loc[0] > last {
			out = append(out, Segment{Kind: Text, Raw: src[last:loc[0]]})
		}
		out = append(out, Segment{Kind: Code, Raw: src[loc[2]:loc[3]]})
		last = loc[1]
	}
	if last < len(src) {
		out = append(out, Segment{Kind: Text, Raw: src[last:]})
	}
	return out
}

// Inline escapes every segment and applies bold, italic, inline code, image
// and link rules, in that order, to prose only.
func Inline(segments Extracted) Formatted {
	out := make(Formatted, 0, len(segments))
	for _, seg := range segments {
		if seg.Kind == Code {
			out = append(out, Fragment{Kind: Code, HTML: html.EscapeString(strings.TrimRight(seg.Raw, "\n"))})
			continue
		}
		out = append(out, Fragment{Kind: Text, HTML: FormatInline(seg.Raw)})
	}
	return out
}

// FormatInline escapes s and applies the inline rules to it.
func FormatInline(s string) string {
	s = html.EscapeString(s)
	s = reBold.ReplaceAllString(s, "<strong>$1</strong>")
	s = reItalic.ReplaceAllString(s, "<em>$1</em>")
	s = reInlineCode.ReplaceAllString(s, "<code>$1</code>")
	// Images and links share one pass so emitted tags are never rescanned.
	s = reMedia.ReplaceAllStringFunc(s, func(m string) string {
		match := reMedia.FindStringSubmatch(m)
		href := SafeURL(match[3])
		if match[1] == "!" {
			return `<img src="` + href + `" alt="` + match[2] + `" loading="lazy"/>`
		}
		attrs := ""
		if strings.HasPrefix(href, "http") {
			attrs = ` target="_blank" rel="noopener noreferrer"`
		}
		return `<a href="` + href + `"` + attrs + `>` + match[2] + `</a>`
	})
	return s
}

// SafeURL returns an attribute-safe URL, or "#" for schemes other than
// http, https and mailto and for values carrying whitespace, quotes or
// markup. raw is expected to be HTML-escaped already.
func SafeURL(raw string) string {
	val := strings.TrimSpace(html.UnescapeString(raw))
	if val == "" || strings.ContainsAny(val, " \t\r\n\f\"'<>`") {
		return "#"
	}
	if strings.HasPrefix(val, "/") || strings.HasPrefix(val, "#") {
		return html.EscapeString(val)
	}
	parsed, err := url.Parse(val)
	if err != nil {
		return "#"
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https", "mailto":
		return html.EscapeString(val)
	case "":
		if !strings.Contains(val, ":") {
			return html.EscapeString(val)
		}
	}
	return "#"
}

// Structure turns formatted fragments into blocks line by line. Consecutive
// "- " lines share one list; blank lines are dropped.
func Structure(fragments Formatted) Document {
	var doc Document
	var list []string

	flushList := func() {
		if len(list) > 0 {
			doc = append(doc, Block{Kind: List, Items: list})
			list = nil
		}
	}

	for _, frag := range fragments {
		if frag.Kind == Code {
			flushList()
			doc = append(doc, Block{Kind: CodeBlock, HTML: frag.HTML})
			continue
		}

		for _, line := range strings.Split(frag.HTML, "\n") {
			line = strings.TrimSpace(line)
			switch {
			case line == "":
				continue
			case strings.HasPrefix(line, "- "):
				list = append(list, strings.TrimSpace(line[2:]))
				continue
			}

			flushList()
			switch {
			case strings.HasPrefix(line, "### "):
				doc = append(doc, Block{Kind: Heading3, HTML: strings.TrimSpace(line[4:])})
			case strings.HasPrefix(line, "## "):
				doc = append(doc, Block{Kind: Heading2, HTML: strings.TrimSpace(line[3:])})
			case strings.HasPrefix(line, "# "):
				doc = append(doc, Block{Kind: Heading1, HTML: strings.TrimSpace(line[2:])})
			default:
				doc = append(doc, Block{Kind: Paragraph, HTML: line})
			}
		}
	}
	flushList()
	return doc
}

// Render writes the document as HTML.
func (d Document) Render() template.HTML {
	var b strings.Builder
	for _, block := range d {
		switch block.Kind {
		case Heading1:
			b.WriteString("<h1>" + block.HTML + "</h1>")
		case Heading2:
			b.WriteString("<h2>" + block.HTML + "</h2>")
		case Heading3:
			b.WriteString("<h3>" + block.HTML + "</h3>")
		case List:
			b.WriteString("<ul>")
			for _, item := range block.Items {
				b.WriteString("<li>" + item + "</li>")
			}
			b.WriteString("</ul>")
		case CodeBlock:
			b.WriteString("<pre><code>" + block.HTML + "</code></pre>")
		default:
			b.WriteString("<p>" + block.HTML + "</p>")
		}
	}
	return template.HTML(b.String())
}

// ToHTML runs all three stages over src.
func ToHTML(src string) template.HTML {
	return Structure(Inline(Extract(src))).Render()
}
