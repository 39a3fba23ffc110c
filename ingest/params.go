// Package ingest orchestrates the full GIF-to-succinct-index pipeline:
// map, preprocess, translate segments, parse metadata, encode paths.
package ingest

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/basepair-tools/gifx/metadata"
)

// Parameters carries every tunable the core recognizes, exactly as listed
// in the specification: zero values mean "let the core decide".
type Parameters struct {
	MaxNodeLength      int    `mapstructure:"max_node_length"`
	BatchSize          uint64 `mapstructure:"batch_size"`
	AutomaticBatchSize bool   `mapstructure:"automatic_batch_size"`
	PathNameRegex      string `mapstructure:"path_name_regex"`
	PathNameFields     string `mapstructure:"path_name_fields"`
	NodeWidth          int    `mapstructure:"node_width"`
	SampleInterval     int    `mapstructure:"sample_interval"`
	ShowProgress       bool   `mapstructure:"show_progress"`
}

// DefaultParameters returns the built-in defaults: unbounded node length,
// automatic batch sizing, the PanSN path regex, sample-field positional
// fallback, and no progress output.
func DefaultParameters() Parameters {
	return Parameters{
		MaxNodeLength:      0,
		BatchSize:          0,
		AutomaticBatchSize: true,
		PathNameRegex:      metadata.DefaultRegex,
		PathNameFields:     metadata.DefaultFields,
		NodeWidth:          8,
		SampleInterval:     1024,
		ShowProgress:       false,
	}
}

// LoadParameters overlays an optional YAML/env configuration file on top of
// DefaultParameters, using a local viper instance so that loading
// parameters never touches process-global state. configPath may be empty,
// in which case only defaults and the environment are consulted.
func LoadParameters(configPath string) (Parameters, error) {
	v := viper.New()
	defaults := DefaultParameters()

	v.SetDefault("max_node_length", defaults.MaxNodeLength)
	v.SetDefault("batch_size", defaults.BatchSize)
	v.SetDefault("automatic_batch_size", defaults.AutomaticBatchSize)
	v.SetDefault("path_name_regex", defaults.PathNameRegex)
	v.SetDefault("path_name_fields", defaults.PathNameFields)
	v.SetDefault("node_width", defaults.NodeWidth)
	v.SetDefault("sample_interval", defaults.SampleInterval)
	v.SetDefault("show_progress", defaults.ShowProgress)

	v.SetEnvPrefix("gifx")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return Parameters{}, fmt.Errorf("ingest: cannot read config %s: %w", configPath, err)
		}
	}

	var p Parameters
	if err := v.Unmarshal(&p); err != nil {
		return Parameters{}, fmt.Errorf("ingest: cannot decode parameters: %w", err)
	}
	return p, nil
}
