package tokenize

import (
	"errors"
	"log/slog"
	"unicode"
	"unicode/utf8"

	"polyphon/langid"
	"polyphon/model"
	"polyphon/script"
)

// DefaultScriptLanguages maps scripts that identify their language on
// their own. Han, Kana and Hangul go through script.ResolveCJK; Other and
// Devanagari go through the identifier.
var DefaultScriptLanguages = map[model.WritingSystem]string{
	model.Arabic:   "ar",
	model.Cyrillic: "ru",
	model.Hebrew:   "he",
	model.Thai:     "th",
}

// Options configures a Tokenizer.
type Options struct {
	// ScriptLanguages overrides DefaultScriptLanguages when non-nil.
	ScriptLanguages map[model.WritingSystem]string
	Logger          *slog.Logger
}

// Tokenizer splits multi-script text into language-tagged spans.
type Tokenizer struct {
	id      langid.Identifier
	scripts map[model.WritingSystem]string
	log     *slog.Logger
}

// New returns a Tokenizer that asks id for the language of Latin and
// Devanagari words. A nil id tags all such words as unknown.
func New(id langid.Identifier, opts Options) *Tokenizer {
	t := &Tokenizer{
		id:      id,
		scripts: opts.ScriptLanguages,
		log:     opts.Logger,
	}
	if t.scripts == nil {
		t.scripts = DefaultScriptLanguages
	}
	if t.log == nil {
		t.log = slog.Default()
	}
	t.scripts = t.validScripts(t.scripts)
	return t
}

// validScripts drops mappings whose tag could not be read back from
// markup. Runs of those scripts fall back to unknown.
func (t *Tokenizer) validScripts(in map[model.WritingSystem]string) map[model.WritingSystem]string {
	out := make(map[model.WritingSystem]string, len(in))
	for ws, lang := range in {
		if !tagName.MatchString(lang) {
			t.log.Warn("ignoring script language with invalid tag",
				slog.String("script", ws.String()), slog.String("lang", lang))
			continue
		}
		out[ws] = lang
	}
	return out
}

// Spans returns the ungrouped spans of text in order. Concatenating their
// texts gives back text.
func (t *Tokenizer) Spans(text string) []model.Span {
	var out []model.Span
	for _, run := range script.Runs(text) {
		switch {
		case run.System == model.Punctuation:
			out = append(out, model.Span{Text: run.Text, Lang: model.LangPunctuation})
		case run.System.IsCJK():
			out = append(out, model.Span{Text: run.Text, Lang: script.ResolveCJK(run.Text)})
		case run.System == model.Other || run.System == model.Devanagari:
			out = append(out, t.resolveAmbiguous(run.Text)...)
		default:
			lang, ok := t.scripts[run.System]
			if !ok {
				lang = model.LangUnknown
			}
			out = append(out, model.Span{Text: run.Text, Lang: lang})
		}
	}
	return out
}

// Tokenize returns the grouped segments of text.
func (t *Tokenizer) Tokenize(text string) []model.Segment {
	grouped := Group(t.Spans(text))
	out := make([]model.Segment, 0, len(grouped))
	for _, s := range grouped {
		out = append(out, model.Segment{Text: s.Text, Lang: s.Lang})
	}
	return out
}

// Markup serializes text as tagged markup, grouped or not.
func (t *Tokenizer) Markup(text string, group bool) string {
	spans := t.Spans(text)
	if group {
		spans = Group(spans)
	}
	return Emit(spans)
}

// resolveAmbiguous tags each word of a Latin or Devanagari run with the
// identifier's answer and coalesces consecutive words of one language
// together with the whitespace between them.
func (t *Tokenizer) resolveAmbiguous(text string) []model.Span {
	var (
		out     []model.Span
		group   *model.Span
		pending string
	)
	flush := func() {
		if group != nil {
			out = append(out, *group)
			group = nil
		}
		if pending != "" {
			out = append(out, model.Span{Text: pending, Lang: model.LangPunctuation})
			pending = ""
		}
	}

	for _, tok := range splitWords(text) {
		r, _ := utf8.DecodeRuneInString(tok)
		switch {
		case unicode.IsSpace(r):
			if group == nil {
				out = append(out, model.Span{Text: tok, Lang: model.LangPunctuation})
			} else {
				pending += tok
			}
		case isWordRune(r):
			lang := t.identify(tok)
			if group != nil && group.Lang == lang {
				group.Text += pending + tok
				pending = ""
				continue
			}
			flush()
			group = &model.Span{Text: tok, Lang: lang}
		default:
			flush()
			out = append(out, model.Span{Text: tok, Lang: model.LangPunctuation})
		}
	}
	flush()
	return out
}

func (t *Tokenizer) identify(word string) string {
	if t.id == nil {
		return model.LangUnknown
	}
	lang, err := t.id.Identify(word)
	if err != nil || lang == "" || model.IsSentinel(lang) {
		if err != nil && !errors.Is(err, langid.ErrUndetermined) {
			t.log.Debug("language identification failed", slog.String("word", word), slog.Any("error", err))
		}
		return model.LangUnknown
	}
	return lang
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsMark(r)
}

// splitWords cuts text into maximal word-character runs, maximal
// whitespace runs, and single other characters.
func splitWords(text string) []string {
	var toks []string
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		j := i + size
		var same func(rune) bool
		switch {
		case isWordRune(r):
			same = isWordRune
		case unicode.IsSpace(r):
			same = unicode.IsSpace
		}
		for same != nil && j < len(text) {
			r2, s2 := utf8.DecodeRuneInString(text[j:])
			if !same(r2) {
				break
			}
			j += s2
		}
		toks = append(toks, text[i:j])
		i = j
	}
	return toks
}
