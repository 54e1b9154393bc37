// Package pipeline drives tokenized segments through per-language
// phonemizers and assembles the result.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"polyphon/model"
	"polyphon/phonemizer"
	"polyphon/script"
	"polyphon/tokenize"
)

// EngineErrorPolicy decides what happens when an engine returns an error.
type EngineErrorPolicy int

const (
	// EngineErrorFail aborts the call and returns the error.
	EngineErrorFail EngineErrorPolicy = iota
	// EngineErrorMark logs the error and wraps the original text in the
	// unresolved marker.
	EngineErrorMark
)

const (
	markOpen  = "<" + model.LangUnknown + ">"
	markClose = "</" + model.LangUnknown + ">"
)

// Unresolved wraps text in the unresolved marker.
func Unresolved(text string) string {
	return markOpen + text + markClose
}

// Options configures an Orchestrator.
type Options struct {
	// RedetectPasses bounds the CJK redetection over phonemized output.
	// 0 disables it. Passes stop early once no CJK text is left.
	RedetectPasses int
	EngineErrors   EngineErrorPolicy
	Logger         *slog.Logger
}

// DefaultOptions runs a single redetection pass and fails on engine errors.
func DefaultOptions() Options {
	return Options{RedetectPasses: 1}
}

// Orchestrator phonemizes multi-language text. It owns no engines itself;
// the registry it is given keeps them for its own lifetime.
type Orchestrator struct {
	tok  *tokenize.Tokenizer
	reg  *phonemizer.Registry
	opts Options
	log  *slog.Logger
}

// New returns an Orchestrator.
func New(tok *tokenize.Tokenizer, reg *phonemizer.Registry, opts Options) *Orchestrator {
	o := &Orchestrator{tok: tok, reg: reg, opts: opts, log: opts.Logger}
	if o.log == nil {
		o.log = slog.Default()
	}
	return o
}

// Phonemize segments raw text and phonemizes every segment in order.
func (o *Orchestrator) Phonemize(ctx context.Context, text string) (Result, error) {
	return o.run(ctx, o.tok.Tokenize(text))
}

// PhonemizeMarkup phonemizes caller-tagged markup such as
// "<en>hello</en><phoneme>wɝld</phoneme>".
func (o *Orchestrator) PhonemizeMarkup(ctx context.Context, markup string) (Result, error) {
	return o.run(ctx, tokenize.Parse(markup))
}

// PhonemizeSegments phonemizes already built segments.
func (o *Orchestrator) PhonemizeSegments(ctx context.Context, segs []model.Segment) (Result, error) {
	return o.run(ctx, segs)
}

func (o *Orchestrator) run(ctx context.Context, segs []model.Segment) (Result, error) {
	res := Result{Segments: make([]model.Segment, 0, len(segs))}
	for _, seg := range segs {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		text, err := o.dispatch(ctx, seg.Lang, seg.Text)
		if err != nil {
			return Result{}, err
		}
		if script.IsCJKLanguage(seg.Lang) {
			text, err = o.redetect(ctx, text)
			if err != nil {
				return Result{}, err
			}
		}
		res.add(seg, text)
	}
	if res.HasUnresolved() {
		o.log.Warn("output contains unresolved text; filter it before synthesis",
			slog.Int("spans", len(res.Unresolved)))
	}
	return res, nil
}

// dispatch phonemizes one piece of text of a known tag.
func (o *Orchestrator) dispatch(ctx context.Context, lang, text string) (string, error) {
	switch lang {
	case model.LangPhonemes:
		return text, nil
	case model.LangUntagged, model.LangPunctuation:
		if isFiller(text) {
			return text, nil
		}
		return Unresolved(text), nil
	}

	engine, ok, err := o.reg.Get(ctx, lang)
	if err != nil {
		return "", fmt.Errorf("pipeline: engine %s: %w", lang, err)
	}
	if !ok {
		return Unresolved(text), nil
	}
	out, err := engine.Phonemize(ctx, text)
	if err != nil {
		if o.opts.EngineErrors == EngineErrorMark && ctx.Err() == nil {
			o.log.Error("phonemizer failed", slog.String("lang", lang), slog.Any("error", err))
			return Unresolved(text), nil
		}
		return "", fmt.Errorf("pipeline: phonemize %s: %w", lang, err)
	}
	return out, nil
}

// redetect finds CJK text a CJK engine left untouched and dispatches it
// again, splicing the result in by offset. Unresolved markers already in
// the text are skipped.
func (o *Orchestrator) redetect(ctx context.Context, text string) (string, error) {
	for pass := 0; pass < o.opts.RedetectPasses; pass++ {
		var (
			b     strings.Builder
			found bool
		)
		last := 0
		for _, r := range cjkRuns(text) {
			lang := script.ResolveCJK(r.Text)
			if !script.IsCJKLanguage(lang) {
				continue
			}
			found = true
			o.log.Debug("redetected embedded text", slog.String("lang", lang), slog.String("text", r.Text))
			out, err := o.dispatch(ctx, lang, r.Text)
			if err != nil {
				return "", err
			}
			b.WriteString(text[last:r.Start])
			b.WriteString(out)
			last = r.End
		}
		if !found {
			break
		}
		b.WriteString(text[last:])
		text = b.String()
	}
	return text, nil
}

// cjkRuns returns the CJK runs of text that are outside unresolved markers.
func cjkRuns(text string) []model.Run {
	var out []model.Run
	base := 0
	for base < len(text) {
		chunk := text[base:]
		open := strings.Index(chunk, markOpen)
		end := len(chunk)
		if open >= 0 {
			end = open
		}
		for _, r := range script.Runs(chunk[:end]) {
			if r.System.IsCJK() {
				r.Start += base
				r.End += base
				out = append(out, r)
			}
		}
		if open < 0 {
			break
		}
		closeAt := strings.Index(chunk[open:], markClose)
		if closeAt < 0 {
			break
		}
		base += open + closeAt + len(markClose)
	}
	return out
}

// isFiller reports whether text holds only punctuation and whitespace.
func isFiller(text string) bool {
	for _, r := range text {
		if !unicode.IsSpace(r) && !script.IsPunctuation(r) {
			return false
		}
	}
	return true
}
