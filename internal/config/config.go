// Package config assembles Temoc's runtime configuration from flags,
// environment variables (TEMOC_*), and an optional YAML file, layered
// through Viper, but exposed as one typed Config struct instead of
// scattered viper.Get calls.
package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config holds every setting temoc run needs once flags, env, and file
// layers have been merged by Viper.
type Config struct {
	ServerCommand  string
	Port           int
	PoolSize       int
	TestDir        string
	Extension      string
	Recursive      bool
	ShowSnoozed    bool
	PipeOutput     bool
	Format         string
	Deadline       time.Duration
	ConnectTimeout time.Duration
}

// Defaults holds the value each setting takes when no flag, env var, or
// config file entry overrides it.
var Defaults = Config{
	Port:           8085,
	PoolSize:       1,
	TestDir:        ".",
	Extension:      "md",
	Recursive:      false,
	ShowSnoozed:    false,
	PipeOutput:     false,
	Format:         "text",
	Deadline:       0,
	ConnectTimeout: 5 * time.Second,
}

// SetDefaults registers Defaults on v so a bare `temoc run` with no
// flags, env vars, or config file still behaves sensibly.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("execute_server_command", Defaults.ServerCommand)
	v.SetDefault("port", Defaults.Port)
	v.SetDefault("pool_size", Defaults.PoolSize)
	v.SetDefault("test_dir", Defaults.TestDir)
	v.SetDefault("extension", Defaults.Extension)
	v.SetDefault("recursive", Defaults.Recursive)
	v.SetDefault("show_snoozed", Defaults.ShowSnoozed)
	v.SetDefault("pipe_output", Defaults.PipeOutput)
	v.SetDefault("format", Defaults.Format)
	v.SetDefault("deadline", Defaults.Deadline)
	v.SetDefault("connect_timeout", Defaults.ConnectTimeout)
}

// FromViper reads the merged configuration out of v into a Config.
func FromViper(v *viper.Viper) Config {
	return Config{
		ServerCommand:  v.GetString("execute_server_command"),
		Port:           v.GetInt("port"),
		PoolSize:       v.GetInt("pool_size"),
		TestDir:        v.GetString("test_dir"),
		Extension:      v.GetString("extension"),
		Recursive:      v.GetBool("recursive"),
		ShowSnoozed:    v.GetBool("show_snoozed"),
		PipeOutput:     v.GetBool("pipe_output"),
		Format:         v.GetString("format"),
		Deadline:       v.GetDuration("deadline"),
		ConnectTimeout: v.GetDuration("connect_timeout"),
	}
}
