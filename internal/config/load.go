package config

import (
	"fmt"
	"path/filepath"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/Itexoft/procvd/internal/model"
)

// Load reads path (INI, JSON, and, as a bonus, anything else viper
// recognizes by extension), resolves it against the file's
// base_directory (or, when that is empty, the file's own directory), and
// returns a ResolvedProcessConfig ready for graph.Build.
func Load(path string) (model.ResolvedProcessConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return model.ResolvedProcessConfig{}, &model.ConfigError{Reason: "read config file", Err: err}
	}

	var fc FileConfig
	decodeHook := mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)
	if err := v.Unmarshal(&fc, viper.DecodeHook(decodeHook)); err != nil {
		return model.ResolvedProcessConfig{}, &model.ConfigError{Reason: "decode config file", Err: err}
	}

	baseDir := fc.BaseDirectory
	if baseDir == "" {
		abs, err := filepath.Abs(filepath.Dir(path))
		if err != nil {
			return model.ResolvedProcessConfig{}, &model.ConfigError{Reason: "resolve base directory", Err: err}
		}
		baseDir = abs
	}

	cfg, err := resolve(fc, baseDir)
	if err != nil {
		return model.ResolvedProcessConfig{}, err
	}
	return cfg, nil
}

func fail(reason string, args ...any) error {
	return &model.ConfigError{Reason: fmt.Sprintf(reason, args...)}
}
