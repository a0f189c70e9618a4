package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/roach88/carlog/internal/logger"
	"github.com/roach88/carlog/internal/report"
)

// Default file names, resolved against the executable directory.
const (
	DefaultDatabase = "car.sqlite"
	DefaultSource   = "tableValues.json"
	EnvFile         = ".env"
	EnvPrefix       = "CARLOG"
)

// Flag names.
const (
	FlagDatabase    = "db"
	FlagSource      = "source"
	FlagFormat      = "format"
	FlagMetricsFile = "metrics-file"
	FlagVerbose     = "verbose"
	FlagConfig      = "config"
)

// Config holds every resolved setting.
type Config struct {
	Database    string        `mapstructure:"database"`
	Source      string        `mapstructure:"source"`
	Format      string        `mapstructure:"format" default:"text"`
	MetricsFile string        `mapstructure:"metrics_file"`
	Log         logger.Config `mapstructure:"log"`
}

// LoadOptions controls where Load looks.
type LoadOptions struct {
	// ExeDir overrides the executable directory. Empty means ExecutableDir().
	ExeDir string
	// Flags, when set, must have been registered with RegisterFlags.
	Flags *pflag.FlagSet
}

// RegisterFlags adds carlog's flags to flags.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.String(FlagDatabase, "", "SQLite store path (default: car.sqlite next to the executable)")
	flags.String(FlagSource, "", "declarative source path (default: tableValues.json next to the executable)")
	flags.String(FlagFormat, report.FormatText, "output format (json|text)")
	flags.String(FlagMetricsFile, "", "write run metrics to this file in Prometheus text format")
	flags.BoolP(FlagVerbose, "v", false, "verbose output (debug logging on stderr)")
	flags.String(FlagConfig, "", "YAML config file")
}

// ExecutableDir returns the directory of the running binary with symlinks
// resolved.
func ExecutableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locate executable: %w", err)
	}
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf("resolve executable %s: %w", exe, err)
	}
	return filepath.Dir(exe), nil
}

// Load resolves the configuration.
func Load(opts LoadOptions) (*Config, error) {
	exeDir := opts.ExeDir
	if exeDir == "" {
		dir, err := ExecutableDir()
		if err != nil {
			return nil, err
		}
		exeDir = dir
	}

	v := viper.New()
	bindValues(v, Config{}, "")
	v.SetDefault("database", filepath.Join(exeDir, DefaultDatabase))
	v.SetDefault("source", filepath.Join(exeDir, DefaultSource))
	v.SetDefault("log.level", logger.DefaultLevel)

	if err := applyDotEnv(v, filepath.Join(exeDir, EnvFile)); err != nil {
		return nil, err
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	verbose := false
	if opts.Flags != nil {
		if err := bindFlags(v, opts.Flags); err != nil {
			return nil, err
		}
		if path, _ := opts.Flags.GetString(FlagConfig); path != "" {
			v.SetConfigFile(path)
			v.SetConfigType("yaml")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		}
		verbose, _ = opts.Flags.GetBool(FlagVerbose)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if verbose {
		cfg.Log.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that have a closed set of choices.
func (c *Config) Validate() error {
	if !slices.Contains(report.ValidFormats, c.Format) {
		return fmt.Errorf("invalid format %q: must be one of %v", c.Format, report.ValidFormats)
	}
	if c.Database == "" {
		return errors.New("database path is empty")
	}
	return nil
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	bindings := map[string]string{
		"database":     FlagDatabase,
		"source":       FlagSource,
		"format":       FlagFormat,
		"metrics_file": FlagMetricsFile,
	}
	for key, name := range bindings {
		flag := flags.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("bind flag --%s: %w", name, err)
		}
	}
	return nil
}

// applyDotEnv reads CARLOG_* entries from a .env file as defaults. The
// process environment is left untouched, so real variables still win.
func applyDotEnv(v *viper.Viper, path string) error {
	values, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	for _, key := range v.AllKeys() {
		if value, ok := values[envName(key)]; ok {
			v.SetDefault(key, value)
		}
	}
	return nil
}

// envName maps a config key to its variable, e.g. log.level to
// CARLOG_LOG_LEVEL.
func envName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// bindValues walks the struct tags and registers every key with viper so
// AutomaticEnv can see it during Unmarshal.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		v.SetDefault(key, field.Tag.Get("default"))
	}
}
