package config

// Config is the root configuration.
type Config struct {
	Log      LogConfig      `yaml:"log"`
	LangID   LangIDConfig   `yaml:"langid"`
	Engines  EnginesConfig  `yaml:"engines"`
	Pipeline PipelineConfig `yaml:"pipeline"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"POLYPHON_LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"POLYPHON_LOG_FORMAT" env-default:"text"`
}

// LangIDConfig tunes word-level language identification.
type LangIDConfig struct {
	Languages   []string `yaml:"languages"    env:"POLYPHON_LANGID_LANGUAGES"    env-separator:"," env-default:"en,de,fr,es,it,pt,nl,hi,mr"`
	MinDistance float64  `yaml:"min_distance" env:"POLYPHON_LANGID_MIN_DISTANCE" env-default:"0"`
	CacheSize   int      `yaml:"cache_size"   env:"POLYPHON_LANGID_CACHE_SIZE"   env-default:"4096"`
}

// Dictionary points at a tipa dictionary and its optional fallback.
type Dictionary struct {
	Main  string `yaml:"main"`
	Final string `yaml:"final"`
}

// EnginesConfig selects the phonemizers.
type EnginesConfig struct {
	Enabled      []string              `yaml:"enabled"      env:"POLYPHON_ENGINES"              env-separator:","`
	WorkDir      string                `yaml:"work_dir"     env:"POLYPHON_WORK_DIR"`
	KagomeDict   string                `yaml:"kagome_dict"  env:"POLYPHON_KAGOME_DICT"          env-default:"ipa"`
	PinyinTones  bool                  `yaml:"pinyin_tones" env:"POLYPHON_PINYIN_TONES"`
	Dictionaries map[string]Dictionary `yaml:"dictionaries"`
}

// PipelineConfig holds orchestration policy.
type PipelineConfig struct {
	RedetectPasses int    `yaml:"redetect_passes" env:"POLYPHON_REDETECT_PASSES"`
	EngineErrors   string `yaml:"engine_errors"   env:"POLYPHON_ENGINE_ERRORS"   env-default:"fail"`
	Normalize      bool   `yaml:"normalize"       env:"POLYPHON_NORMALIZE"       env-default:"false"`
}

// Defaults returns the settings whose zero value is a meaningful choice.
// cleanenv fills env-default into any zero field, which would turn a
// YAML false or 0 back into the default, so these are set before reading.
func Defaults() Config {
	return Config{
		Engines:  EnginesConfig{PinyinTones: true},
		Pipeline: PipelineConfig{RedetectPasses: 1},
	}
}
