package catalog

import (
	"strings"

	"golang.org/x/net/html"
)

// FlattenHTML converts the small HTML subset AniList uses in descriptions
// (br, i, b, a) to plain text. Line breaks survive; runs of blank lines
// collapse to one.
func FlattenHTML(raw string) string {
	if !strings.ContainsAny(raw, "<&") {
		return strings.TrimSpace(raw)
	}

	var b strings.Builder
	tokenizer := html.NewTokenizer(strings.NewReader(raw))
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return tidyLines(b.String())
		case html.TextToken:
			b.Write(tokenizer.Text())
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := tokenizer.TagName()
			switch string(name) {
			case "br":
				b.WriteByte('\n')
			case "p", "div", "li":
				b.WriteString("\n")
			}
		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			if string(name) == "p" {
				b.WriteByte('\n')
			}
		}
	}
}

func tidyLines(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
