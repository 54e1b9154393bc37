// Command polyphon splits multi-language text into language-tagged
// segments and phonemizes each one with the engine for its language.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/alecthomas/kong"

	"polyphon/analyze"
	"polyphon/config"
	"polyphon/engines"
	"polyphon/ingest"
	"polyphon/langid"
	"polyphon/logger"
	"polyphon/phonemizer"
	"polyphon/pipeline"
	"polyphon/tokenize"
)

// CLI defines the command-line interface.
var CLI struct {
	Config string `name:"config" short:"c" help:"YAML configuration file" type:"path"`

	Phonemize PhonemizeCmd `cmd:"" help:"Phonemize mixed-language text"`
	Tokenize  TokenizeCmd  `cmd:"" help:"Print language-tagged markup for text"`
	Languages LanguagesCmd `cmd:"" help:"List languages with a phonemizer"`
}

// Input is the text source shared by the commands.
type Input struct {
	Text string `arg:"" optional:"" help:"Text to process"`
	File string `name:"file" short:"f" help:"Read text from file ('-' for stdin)" type:"path"`
}

func (in Input) read(stdin io.Reader) (string, error) {
	switch {
	case in.File == "-":
		b, err := io.ReadAll(stdin)
		return string(b), err
	case in.File != "":
		b, err := os.ReadFile(in.File)
		return string(b), err
	case in.Text != "":
		return in.Text, nil
	}
	return "", errors.New("no input: pass TEXT or --file")
}

// PhonemizeCmd runs the full pipeline.
type PhonemizeCmd struct {
	Input
	Markup     bool   `name:"markup" help:"Treat input as language-tagged markup"`
	Structured bool   `name:"structured" help:"Print segments as JSON"`
	Stats      bool   `name:"stats" help:"Print a segmentation summary to stderr"`
	DumpDir    string `name:"dump-dir" help:"Write request, result and analysis JSON here" type:"path"`
}

func (c *PhonemizeCmd) Run(cfg *config.Config) error {
	text, err := c.read(os.Stdin)
	if err != nil {
		return err
	}
	req, err := ingest.New(text, cfg.Pipeline.Normalize)
	if err != nil {
		return err
	}

	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var res pipeline.Result
	if c.Markup {
		res, err = a.orch.PhonemizeMarkup(ctx, req.Text)
	} else {
		res, err = a.orch.Phonemize(ctx, req.Text)
	}
	if err != nil {
		return err
	}
	res.ID = req.ID
	report := analyze.Analyze(req, res)

	if c.DumpDir != "" {
		if err := logger.InitDumps(c.DumpDir); err != nil {
			return fmt.Errorf("init dumps: %w", err)
		}
		for name, v := range map[string]any{"request": req, "result": res, "analysis": report} {
			if err := logger.DumpJSON(c.DumpDir, name, v); err != nil {
				return fmt.Errorf("dump %s: %w", name, err)
			}
		}
	}
	if c.Stats {
		if err := printJSON(os.Stderr, report); err != nil {
			return err
		}
	}

	if c.Structured {
		return printJSON(os.Stdout, res)
	}
	_, err = fmt.Fprintln(os.Stdout, res.Text())
	return err
}

// TokenizeCmd prints the tokenizer's markup without phonemizing.
type TokenizeCmd struct {
	Input
	NoGroup bool `name:"no-group" help:"Emit one tag per word"`
}

func (c *TokenizeCmd) Run(cfg *config.Config) error {
	text, err := c.read(os.Stdin)
	if err != nil {
		return err
	}
	tok, err := newTokenizer(cfg)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(os.Stdout, tok.Markup(text, !c.NoGroup))
	return err
}

// LanguagesCmd lists the configured engines.
type LanguagesCmd struct{}

func (c *LanguagesCmd) Run(cfg *config.Config) error {
	factories, err := engines.Factories(engineOptions(cfg.Engines))
	if err != nil {
		return err
	}
	reg := phonemizer.NewRegistry(factories)
	defer reg.Close()
	_, err = fmt.Fprintln(os.Stdout, strings.Join(reg.Languages(), "\n"))
	return err
}

type app struct {
	reg  *phonemizer.Registry
	orch *pipeline.Orchestrator
}

func newApp(cfg *config.Config) (*app, error) {
	tok, err := newTokenizer(cfg)
	if err != nil {
		return nil, err
	}
	factories, err := engines.Factories(engineOptions(cfg.Engines))
	if err != nil {
		return nil, err
	}
	log := slog.Default()
	reg := phonemizer.NewRegistry(factories,
		phonemizer.WithWorkRoot(cfg.Engines.WorkDir),
		phonemizer.WithLogger(log),
	)
	opts := pipeline.Options{
		RedetectPasses: cfg.Pipeline.RedetectPasses,
		EngineErrors:   engineErrorPolicy(cfg.Pipeline.EngineErrors),
		Logger:         log,
	}
	return &app{reg: reg, orch: pipeline.New(tok, reg, opts)}, nil
}

func (a *app) close() {
	if err := a.reg.Close(); err != nil {
		slog.Warn("closing engines", slog.Any("error", err))
	}
}

func newTokenizer(cfg *config.Config) (*tokenize.Tokenizer, error) {
	lingua := langid.NewLingua(langid.Options{
		Languages:   cfg.LangID.Languages,
		MinDistance: cfg.LangID.MinDistance,
	})
	id, err := langid.NewCached(lingua, cfg.LangID.CacheSize)
	if err != nil {
		return nil, err
	}
	return tokenize.New(id, tokenize.Options{Logger: slog.Default()}), nil
}

func engineOptions(c config.EnginesConfig) engines.Options {
	dicts := make(map[string]engines.DictionaryPaths, len(c.Dictionaries))
	for lang, d := range c.Dictionaries {
		dicts[lang] = engines.DictionaryPaths{Main: d.Main, Final: d.Final}
	}
	return engines.Options{
		Enabled:      c.Enabled,
		KagomeDict:   c.KagomeDict,
		PinyinTones:  c.PinyinTones,
		Dictionaries: dicts,
	}
}

func engineErrorPolicy(s string) pipeline.EngineErrorPolicy {
	if strings.EqualFold(s, "mark") {
		return pipeline.EngineErrorMark
	}
	return pipeline.EngineErrorFail
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("polyphon"),
		kong.Description("Multi-language segmentation and phonemization"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
	)

	cfg, err := config.Load(CLI.Config)
	ctx.FatalIfErrorf(err)
	logger.New(cfg.Log, os.Stderr)

	err = ctx.Run(cfg)
	ctx.FatalIfErrorf(err)
}
