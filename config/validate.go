package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	validLogLevels   = []string{"debug", "info", "warn", "error"}
	validLogFormats  = []string{"text", "json"}
	validKagomeDicts = []string{"ipa", "uni"}
	validErrPolicies = []string{"fail", "mark"}
)

// lingua rejects a larger minimum relative distance.
const maxMinDistance = 0.99

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	var errs []error
	if !slices.Contains(validLogLevels, strings.ToLower(c.Log.Level)) {
		errs = append(errs, fmt.Errorf("log.level: unknown level %q", c.Log.Level))
	}
	if !slices.Contains(validLogFormats, strings.ToLower(c.Log.Format)) {
		errs = append(errs, fmt.Errorf("log.format: unknown format %q", c.Log.Format))
	}
	if c.LangID.MinDistance < 0 || c.LangID.MinDistance > maxMinDistance {
		errs = append(errs, fmt.Errorf("langid.min_distance: must be in [0, %v], got %v", maxMinDistance, c.LangID.MinDistance))
	}
	if c.LangID.CacheSize < 0 {
		errs = append(errs, fmt.Errorf("langid.cache_size: must not be negative"))
	}
	if !slices.Contains(validKagomeDicts, strings.ToLower(c.Engines.KagomeDict)) {
		errs = append(errs, fmt.Errorf("engines.kagome_dict: unknown dictionary %q", c.Engines.KagomeDict))
	}
	for lang, d := range c.Engines.Dictionaries {
		if strings.TrimSpace(d.Main) == "" {
			errs = append(errs, fmt.Errorf("engines.dictionaries.%s: main path is required", lang))
		}
	}
	if c.Pipeline.RedetectPasses < 0 {
		errs = append(errs, fmt.Errorf("pipeline.redetect_passes: must not be negative"))
	}
	if !slices.Contains(validErrPolicies, strings.ToLower(c.Pipeline.EngineErrors)) {
		errs = append(errs, fmt.Errorf("pipeline.engine_errors: unknown policy %q", c.Pipeline.EngineErrors))
	}
	return errors.Join(errs...)
}
