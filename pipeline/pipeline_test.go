package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"polyphon/langid"
	"polyphon/model"
	"polyphon/phonemizer"
	"polyphon/tokenize"
)

// stubs records every call made to each fake engine.
type stubs struct {
	fns   map[string]func(string) (string, error)
	calls map[string][]string
}

func newStubs(fns map[string]func(string) (string, error)) *stubs {
	return &stubs{fns: fns, calls: map[string][]string{}}
}

func (s *stubs) registry(t *testing.T) *phonemizer.Registry {
	t.Helper()
	factories := map[string]phonemizer.Factory{}
	for lang, fn := range s.fns {
		lang, fn := lang, fn
		factories[lang] = func(context.Context, string) (phonemizer.Phonemizer, error) {
			return phonemizer.Func(func(_ context.Context, text string) (string, error) {
				s.calls[lang] = append(s.calls[lang], text)
				return fn(text)
			}), nil
		}
	}
	r := phonemizer.NewRegistry(factories, phonemizer.WithWorkRoot(t.TempDir()))
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func asciiIdentifier() langid.Identifier {
	return langid.IdentifierFunc(func(word string) (string, error) {
		for _, r := range word {
			if r > unicode.MaxASCII || unicode.IsDigit(r) {
				return "", langid.ErrUndetermined
			}
		}
		return "en", nil
	})
}

func ret(s string) func(string) (string, error) {
	return func(string) (string, error) { return s, nil }
}

func upper(s string) (string, error) { return strings.ToUpper(s), nil }

func echo(s string) (string, error) { return s, nil }

func newOrchestrator(t *testing.T, s *stubs, opts Options) *Orchestrator {
	t.Helper()
	return New(tokenize.New(asciiIdentifier(), tokenize.Options{}), s.registry(t), opts)
}

func TestPhonemize_GroupedWordsHitEngineOnce(t *testing.T) {
	s := newStubs(map[string]func(string) (string, error){"en": upper})
	o := newOrchestrator(t, s, DefaultOptions())

	res, err := o.Phonemize(context.Background(), "hello, big world")
	require.NoError(t, err)
	assert.Equal(t, []string{"hello, big world"}, s.calls["en"])
	assert.Equal(t, "HELLO, BIG WORLD", res.Text())
	assert.False(t, res.HasUnresolved())
}

func TestPhonemize_CJKPrecedence(t *testing.T) {
	s := newStubs(map[string]func(string) (string, error){"ja": ret("nihoɴgo no tesɯto"), "zh": upper})
	o := newOrchestrator(t, s, DefaultOptions())

	res, err := o.Phonemize(context.Background(), "日本語のテスト")
	require.NoError(t, err)
	require.Len(t, res.Segments, 1)
	assert.Equal(t, "ja", res.Segments[0].Lang)
	assert.Equal(t, []string{"日本語のテスト"}, s.calls["ja"])
	assert.Empty(t, s.calls["zh"])
}

func TestPhonemize_UnsupportedLanguageFallback(t *testing.T) {
	s := newStubs(map[string]func(string) (string, error){"en": upper})
	o := newOrchestrator(t, s, DefaultOptions())

	res, err := o.Phonemize(context.Background(), "مرحبا")
	require.NoError(t, err)
	assert.Equal(t, "<??>مرحبا</??>", res.Text())
	assert.True(t, res.HasUnresolved())
	require.Len(t, res.Segments, 1)
	assert.Equal(t, model.LangUnknown, res.Segments[0].Lang)
	assert.Equal(t, []model.Segment{{Text: "مرحبا", Lang: "ar"}}, res.Unresolved)
}

func TestPhonemize_PunctuationOnlyIsLossless(t *testing.T) {
	s := newStubs(map[string]func(string) (string, error){"en": upper})
	o := newOrchestrator(t, s, DefaultOptions())

	for _, in := range []string{"", " ", " ,.!? ", "\t…—\n"} {
		res, err := o.Phonemize(context.Background(), in)
		require.NoError(t, err)
		assert.Equal(t, in, res.Text())
		assert.False(t, res.HasUnresolved())
	}
	assert.Empty(t, s.calls)
}

func TestPhonemize_StructuredMatchesFlattened(t *testing.T) {
	s := newStubs(map[string]func(string) (string, error){
		"en": upper,
		"ja": ret("nihoɴ"),
		"zh": ret("zhong1 wen2"),
		"ru": ret("prʲivʲet"),
	})
	o := newOrchestrator(t, s, DefaultOptions())

	inputs := []string{
		"hello, 你好は中国語です。مرحبا! Привет! नमस्ते!",
		"plain words only",
		"中文",
		"!!",
	}
	for _, in := range inputs {
		res, err := o.Phonemize(context.Background(), in)
		require.NoError(t, err)
		var b strings.Builder
		for _, seg := range res.Segments {
			b.WriteString(seg.Text)
		}
		assert.Equal(t, res.Text(), b.String())
	}
}

func TestPhonemize_MixedOutput(t *testing.T) {
	s := newStubs(map[string]func(string) (string, error){"en": upper, "ja": ret("ja!")})
	o := newOrchestrator(t, s, DefaultOptions())

	res, err := o.Phonemize(context.Background(), "hello 日本語のテスト")
	require.NoError(t, err)
	assert.Equal(t, []model.Segment{
		{Text: "HELLO ", Lang: "en"},
		{Text: "ja!", Lang: "ja"},
	}, res.Segments)
}

func TestRedetect_SinglePassByDefault(t *testing.T) {
	s := newStubs(map[string]func(string) (string, error){
		"ja": ret("koɴɲitɕiwa 你好"),
		"zh": ret("ni hao 안녕"),
		"ko": ret("annjʌŋ"),
	})
	o := newOrchestrator(t, s, DefaultOptions())

	res, err := o.PhonemizeMarkup(context.Background(), "<ja>こんにちは你好</ja>")
	require.NoError(t, err)
	assert.Len(t, s.calls["ja"], 1)
	assert.Equal(t, []string{"你好"}, s.calls["zh"])
	assert.Empty(t, s.calls["ko"])
	assert.Equal(t, "koɴɲitɕiwa ni hao 안녕", res.Text())
	assert.Equal(t, "ja", res.Segments[0].Lang)
}

func TestRedetect_MorePasses(t *testing.T) {
	s := newStubs(map[string]func(string) (string, error){
		"ja": ret("koɴɲitɕiwa 你好"),
		"zh": ret("ni hao 안녕"),
		"ko": ret("annjʌŋ"),
	})
	o := newOrchestrator(t, s, Options{RedetectPasses: 4})

	res, err := o.PhonemizeMarkup(context.Background(), "<ja>こんにちは</ja>")
	require.NoError(t, err)
	assert.Len(t, s.calls["zh"], 1)
	assert.Equal(t, []string{"안녕"}, s.calls["ko"])
	assert.Equal(t, "koɴɲitɕiwa ni hao annjʌŋ", res.Text())
}

func TestRedetect_BoundedWithEchoingEngine(t *testing.T) {
	s := newStubs(map[string]func(string) (string, error){
		"ja": ret("a 中"),
		"zh": echo,
	})
	o := newOrchestrator(t, s, Options{RedetectPasses: 3})

	res, err := o.PhonemizeMarkup(context.Background(), "<ja>あ</ja>")
	require.NoError(t, err)
	assert.Len(t, s.calls["zh"], 3)
	assert.Equal(t, "a 中", res.Text())
}

func TestRedetect_Disabled(t *testing.T) {
	s := newStubs(map[string]func(string) (string, error){"ja": ret("a 中"), "zh": upper})
	o := newOrchestrator(t, s, Options{})

	res, err := o.PhonemizeMarkup(context.Background(), "<ja>あ</ja>")
	require.NoError(t, err)
	assert.Empty(t, s.calls["zh"])
	assert.Equal(t, "a 中", res.Text())
}

func TestRedetect_UnregisteredCJKIsMarked(t *testing.T) {
	s := newStubs(map[string]func(string) (string, error){"ja": ret("x 한국 y")})
	o := newOrchestrator(t, s, DefaultOptions())

	res, err := o.PhonemizeMarkup(context.Background(), "<ja>かな</ja>")
	require.NoError(t, err)
	assert.Equal(t, "x <??>한국</??> y", res.Text())
	assert.Equal(t, model.LangUnknown, res.Segments[0].Lang)
	assert.Equal(t, []model.Segment{{Text: "かな", Lang: "ja"}}, res.Unresolved)
}

func TestRedetect_SplicesByOffset(t *testing.T) {
	// "中" occurs twice; only the untouched occurrence may be replaced.
	s := newStubs(map[string]func(string) (string, error){
		"ja": ret("ab 中"),
		"zh": ret("zhong1"),
	})
	o := newOrchestrator(t, s, DefaultOptions())

	res, err := o.PhonemizeMarkup(context.Background(), "<ja>あ</ja><phoneme> 中</phoneme>")
	require.NoError(t, err)
	assert.Equal(t, "ab zhong1 中", res.Text())
}

func TestPhonemizeMarkup_PassThroughAndUntagged(t *testing.T) {
	s := newStubs(map[string]func(string) (string, error){"en": upper})
	o := newOrchestrator(t, s, DefaultOptions())

	res, err := o.PhonemizeMarkup(context.Background(), "<phoneme>həˈloʊ</phoneme>, <en>world</en>")
	require.NoError(t, err)
	assert.Equal(t, "həˈloʊ, WORLD", res.Text())

	res, err = o.PhonemizeMarkup(context.Background(), "raw words <en>x</en>")
	require.NoError(t, err)
	assert.Equal(t, "<??>raw words </??>X", res.Text())
	assert.True(t, res.HasUnresolved())
}

func TestPhonemize_EngineErrorPolicies(t *testing.T) {
	boom := errors.New("engine crashed")
	fail := func(string) (string, error) { return "", boom }

	s := newStubs(map[string]func(string) (string, error){"en": fail})
	_, err := newOrchestrator(t, s, DefaultOptions()).Phonemize(context.Background(), "hello")
	assert.ErrorIs(t, err, boom)

	s = newStubs(map[string]func(string) (string, error){"en": fail})
	res, err := newOrchestrator(t, s, Options{EngineErrors: EngineErrorMark}).Phonemize(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "<??>hello</??>", res.Text())
}

func TestPhonemize_FactoryErrorPropagates(t *testing.T) {
	boom := errors.New("no model")
	reg := phonemizer.NewRegistry(map[string]phonemizer.Factory{
		"en": func(context.Context, string) (phonemizer.Phonemizer, error) { return nil, boom },
	}, phonemizer.WithWorkRoot(t.TempDir()))
	defer reg.Close()

	o := New(tokenize.New(asciiIdentifier(), tokenize.Options{}), reg, DefaultOptions())
	_, err := o.Phonemize(context.Background(), "hello")
	assert.ErrorIs(t, err, boom)
}

func TestPhonemize_Cancelled(t *testing.T) {
	s := newStubs(map[string]func(string) (string, error){"en": upper})
	o := newOrchestrator(t, s, DefaultOptions())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := o.Phonemize(ctx, "hello")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, s.calls)
}

func TestPhonemize_EnginesAreReused(t *testing.T) {
	built := 0
	reg := phonemizer.NewRegistry(map[string]phonemizer.Factory{
		"en": func(context.Context, string) (phonemizer.Phonemizer, error) {
			built++
			return phonemizer.Func(func(_ context.Context, s string) (string, error) { return s, nil }), nil
		},
	}, phonemizer.WithWorkRoot(t.TempDir()))
	defer reg.Close()

	o := New(tokenize.New(asciiIdentifier(), tokenize.Options{}), reg, DefaultOptions())
	for i := 0; i < 3; i++ {
		_, err := o.Phonemize(context.Background(), "hello 42 world")
		require.NoError(t, err)
	}
	assert.Equal(t, 1, built)
}
