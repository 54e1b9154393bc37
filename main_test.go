package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"polyphon/config"
	"polyphon/pipeline"
)

func TestInputRead(t *testing.T) {
	got, err := Input{Text: "hello"}.read(nil)
	require.NoError(t, err)
	assert.Equal(t, "hello", got)

	got, err = Input{File: "-"}.read(strings.NewReader("from stdin"))
	require.NoError(t, err)
	assert.Equal(t, "from stdin", got)

	path := filepath.Join(t.TempDir(), "in.txt")
	require.NoError(t, os.WriteFile(path, []byte("日本語"), 0o644))
	got, err = Input{File: path, Text: "ignored"}.read(nil)
	require.NoError(t, err)
	assert.Equal(t, "日本語", got)

	_, err = Input{}.read(nil)
	assert.Error(t, err)
}

func TestEngineErrorPolicy(t *testing.T) {
	assert.Equal(t, pipeline.EngineErrorMark, engineErrorPolicy("MARK"))
	assert.Equal(t, pipeline.EngineErrorFail, engineErrorPolicy("fail"))
	assert.Equal(t, pipeline.EngineErrorFail, engineErrorPolicy(""))
}

func TestEngineOptions(t *testing.T) {
	opts := engineOptions(config.EnginesConfig{
		Enabled:    []string{"ja"},
		KagomeDict: "uni",
		Dictionaries: map[string]config.Dictionary{
			"eo": {Main: "eo.tsv", Final: "eo-final.tsv"},
		},
	})
	assert.Equal(t, []string{"ja"}, opts.Enabled)
	assert.Equal(t, "uni", opts.KagomeDict)
	assert.Equal(t, "eo-final.tsv", opts.Dictionaries["eo"].Final)
}

func TestPrintJSON_KeepsMarkersReadable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printJSON(&buf, map[string]string{"text": "<??>x</??>"}))
	assert.Contains(t, buf.String(), "<??>x</??>")
}
