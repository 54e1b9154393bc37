package tokenize

import (
	"regexp"
	"strings"

	"polyphon/model"
)

var (
	escaper   = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	unescaper = strings.NewReplacer("&lt;", "<", "&gt;", ">", "&amp;", "&")
	openTag   = regexp.MustCompile(`<([\w-]+|\?\?)>`)
	tagName   = regexp.MustCompile(`^[\w-]+$`)
)

// Group merges spans of one language that are separated only by
// punctuation or whitespace. Separators are kept verbatim inside the span
// that precedes them; separators before the first tagged span become
// untagged filler. Nothing is added or removed.
func Group(spans []model.Span) []model.Span {
	var (
		out []model.Span
		cur *model.Span
	)
	for _, s := range spans {
		if s.IsSeparator() || s.Lang == model.LangUntagged {
			if cur != nil {
				cur.Text += s.Text
				continue
			}
			if n := len(out); n > 0 && out[n-1].Lang == model.LangUntagged {
				out[n-1].Text += s.Text
				continue
			}
			out = append(out, model.Span{Text: s.Text, Lang: model.LangUntagged})
			continue
		}
		if cur != nil && cur.Lang == s.Lang {
			cur.Text += s.Text
			continue
		}
		if cur != nil {
			out = append(out, *cur)
		}
		next := s
		cur = &next
	}
	if cur != nil {
		out = append(out, *cur)
	}
	return out
}

// Emit serializes spans as <lang>content</lang> markup. Untagged filler and
// whitespace separators are written bare, other separators are wrapped in
// <punctuation>. Content is escaped so that literal angle brackets survive
// a round trip through Parse.
func Emit(spans []model.Span) string {
	var b strings.Builder
	for _, s := range spans {
		text := escaper.Replace(s.Text)
		switch {
		case s.Lang == model.LangUntagged:
			b.WriteString(text)
		case s.IsSeparator() && strings.TrimSpace(s.Text) == "":
			b.WriteString(text)
		default:
			b.WriteString("<" + s.Lang + ">" + text + "</" + s.Lang + ">")
		}
	}
	return b.String()
}

// Parse reads tagged markup into segments. The closing tag of a span is the
// first matching </lang> after it; an open tag without one is kept as
// filler. Filler joins the open segment, or starts an untagged one, and a
// span with the same language as the open segment is merged into it.
func Parse(markup string) []model.Segment {
	var (
		out []model.Segment
		cur *model.Segment
	)
	filler := func(raw string) {
		if raw == "" {
			return
		}
		text := unescaper.Replace(raw)
		if cur != nil {
			cur.Text += text
			return
		}
		cur = &model.Segment{Text: text, Lang: model.LangUntagged}
	}

	pos := 0
	for pos < len(markup) {
		loc := openTag.FindStringSubmatchIndex(markup[pos:])
		if loc == nil {
			break
		}
		name := markup[pos+loc[2] : pos+loc[3]]
		body := pos + loc[1]
		closing := "</" + name + ">"
		end := strings.Index(markup[body:], closing)
		if end < 0 {
			filler(markup[pos:body])
			pos = body
			continue
		}

		filler(markup[pos : pos+loc[0]])
		content := markup[body : body+end]
		pos = body + end + len(closing)

		if name == model.LangPunctuation {
			filler(content)
			continue
		}
		text := unescaper.Replace(content)
		if cur != nil && cur.Lang == name {
			cur.Text += text
			continue
		}
		if cur != nil {
			out = append(out, *cur)
		}
		cur = &model.Segment{Text: text, Lang: name}
	}
	filler(markup[pos:])

	if cur != nil {
		out = append(out, *cur)
	}
	return out
}
