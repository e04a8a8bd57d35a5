package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/arthur-debert/texmerge/pkg/errors"
	"github.com/arthur-debert/texmerge/pkg/logging"
)

const (
	// EnvPrefix is the prefix for environment overrides
	EnvPrefix = "TEXMERGE_"

	// ProjectConfigFile is looked up in the working directory
	ProjectConfigFile = ".texmerge.toml"

	appDirName     = "texmerge"
	userConfigName = "config.toml"
)

// Config is the fully resolved configuration
type Config struct {
	Compiler CompilerConfig `koanf:"compiler"`
	Template TemplateConfig `koanf:"template"`
	Records  RecordsConfig  `koanf:"records"`
	Output   OutputConfig   `koanf:"output"`
}

// CompilerConfig describes the external document compiler
type CompilerConfig struct {
	Command   string        `koanf:"command"`
	Args      []string      `koanf:"args"`
	OutputExt string        `koanf:"output_ext"`
	Timeout   time.Duration `koanf:"timeout"`
}

// TemplateConfig controls template acceptance and the implicit variable
type TemplateConfig struct {
	Extensions []string `koanf:"extensions"`
	DirKey     string   `koanf:"dir_key"`
}

// RecordsConfig controls how substitution records are interpreted
type RecordsConfig struct {
	DestinationField string `koanf:"destination_field"`
}

// OutputConfig controls how results are printed
type OutputConfig struct {
	Format string `koanf:"format"`
	Styles string `koanf:"styles"`
}

// LoadOptions selects the files and overrides used by Load.
type LoadOptions struct {
	// WorkDir is searched for the project config file. Empty means skip.
	WorkDir string
	// UserConfigPath overrides the XDG location of the user config.
	UserConfigPath string
	// SkipUserConfig ignores the user config file entirely.
	SkipUserConfig bool
	// SkipEnv ignores TEXMERGE_* environment variables.
	SkipEnv bool
	// Overrides are dotted keys applied last (command-line flags).
	Overrides map[string]interface{}
}

// Load builds the configuration from every layer in precedence order.
func Load(opts LoadOptions) (*Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load defaults")
	}

	// 2. User config, 3. project config
	userPath := opts.UserConfigPath
	if userPath == "" {
		userPath = UserConfigPath()
	}
	var files []string
	if !opts.SkipUserConfig {
		files = append(files, userPath)
	}
	if opts.WorkDir != "" {
		files = append(files, filepath.Join(opts.WorkDir, ProjectConfigFile))
	}
	for _, path := range files {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to load config from %s", path).
				WithDetail(errors.DetailPath, path)
		}
		logger.Debug().Str("path", path).Msg("Loaded config file")
	}

	// 4. Environment, TEXMERGE_COMPILER_OUTPUT_EXT -> compiler.output_ext
	if !opts.SkipEnv {
		if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load env vars")
		}
	}

	// 5. Flags
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load overrides")
		}
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to unmarshal configuration")
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the embedded defaults without consulting files or env.
func Default() *Config {
	cfg, err := Load(LoadOptions{SkipUserConfig: true, SkipEnv: true})
	if err != nil {
		panic(fmt.Sprintf("embedded defaults are invalid: %v", err))
	}
	return cfg
}

// UserConfigPath returns the location of the per-user config file
func UserConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		configHome = xdg.ConfigHome
	}
	return filepath.Join(configHome, appDirName, userConfigName)
}

func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.Replace(key, "_", ".", 1)
}

func (c *Config) normalize() error {
	c.Compiler.Command = strings.TrimSpace(c.Compiler.Command)
	c.Compiler.OutputExt = strings.TrimPrefix(strings.TrimSpace(c.Compiler.OutputExt), ".")

	switch {
	case c.Compiler.Command == "":
		return errors.New(errors.ErrConfigValid, "compiler.command must not be empty")
	case c.Compiler.OutputExt == "":
		return errors.New(errors.ErrConfigValid, "compiler.output_ext must not be empty")
	case c.Compiler.Timeout < 0:
		return errors.New(errors.ErrConfigValid, "compiler.timeout must not be negative")
	case c.Records.DestinationField == "":
		return errors.New(errors.ErrConfigValid, "records.destination_field must not be empty")
	case c.Template.DirKey == "":
		return errors.New(errors.ErrConfigValid, "template.dir_key must not be empty")
	}

	for i, ext := range c.Template.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		c.Template.Extensions[i] = ext
	}
	return nil
}

// AcceptsTemplate reports whether path carries an accepted template extension.
// An empty extension list accepts anything.
func (c *Config) AcceptsTemplate(path string) bool {
	if len(c.Template.Extensions) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, allowed := range c.Template.Extensions {
		if ext == allowed {
			return true
		}
	}
	return false
}
