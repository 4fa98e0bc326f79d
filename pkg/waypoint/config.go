package waypoint

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/BrandonKowalski/waypoint/pkg/waypoint/constants"
	"github.com/BrandonKowalski/waypoint/pkg/waypoint/input"
	"github.com/BrandonKowalski/waypoint/pkg/waypoint/router"
)

// Config is the runtime configuration of a waypoint program, normally read
// from a TOML file:
//
//	log_level = "debug"
//	ignore_unmatched = true
//	initial_request = "games"
//	tree = "tree.toml"
//
//	[[binding]]
//	button = "B"
//	request = "back"
//	junctions_only = true
type Config struct {
	LogLevel        string          `toml:"log_level"`
	LogPath         string          `toml:"log_path"`
	IgnoreUnmatched bool            `toml:"ignore_unmatched"`
	InitialRequest  string          `toml:"initial_request"`
	Tree            string          `toml:"tree"`
	InputDelayMS    int             `toml:"input_delay_ms"`
	Bindings        []BindingConfig `toml:"binding"`
}

// BindingConfig binds a virtual button (by name, e.g. "A" or "VolumeUp") to
// a request string.
type BindingConfig struct {
	Button        string `toml:"button"`
	Request       string `toml:"request"`
	JunctionsOnly bool   `toml:"junctions_only"`
	Repeat        bool   `toml:"repeat"`
}

// DecodeConfig reads a TOML configuration.
func DecodeConfig(r io.Reader) (*Config, error) {
	var cfg Config
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return nil, NewConfigError("decode_config", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, NewConfigError("decode_config", fmt.Errorf("%w: %s", ErrUnknownKey, strings.Join(keys, ", ")))
	}
	return &cfg, nil
}

// LoadConfig reads the configuration file at path. A missing file yields an
// empty configuration.
func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, NewConfigError("load_config", err)
	}
	defer f.Close()
	return DecodeConfig(f)
}

// ApplyEnv overrides configuration values from the environment
// (WAYPOINT_LOG_LEVEL, WAYPOINT_LOG_PATH). Development mode
// (ENVIRONMENT=DEV) forces debug logging.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(constants.LogLevelEnvVar); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(constants.LogPathEnvVar); v != "" {
		c.LogPath = v
	}
	if constants.IsDevMode() {
		c.LogLevel = "debug"
	}
}

// InputDelay returns the configured input delay, or the default when unset.
func (c *Config) InputDelay() time.Duration {
	if c.InputDelayMS <= 0 {
		return constants.DefaultInputDelay
	}
	return time.Duration(c.InputDelayMS) * time.Millisecond
}

// InputBindings converts the configured bindings. Requests are plain strings
// and suit trees built from route.Path routes.
func (c *Config) InputBindings() (input.Bindings, error) {
	var errs []error
	bs := make([]input.Binding, 0, len(c.Bindings))
	for _, b := range c.Bindings {
		vb, ok := constants.ParseVirtualButton(b.Button)
		if !ok {
			errs = append(errs, fmt.Errorf("%w %q", ErrUnknownButton, b.Button))
			continue
		}
		var flags router.Flags
		if b.JunctionsOnly {
			flags |= router.JunctionsOnly
		}
		binding := input.Binding{Button: vb, Flags: flags, Repeat: b.Repeat}
		if b.Request != "" {
			binding.Request = b.Request
		}
		bs = append(bs, binding)
	}

	bindings, err := input.NewBindings(bs...)
	if err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return nil, NewConfigError("bindings", errors.Join(errs...))
	}
	return bindings, nil
}
