package config

import (
	"flag"
	"io"
	"strings"
)

// FlagBinder registers command-specific flags on fs, defaulting to the
// current values in cfg.
type FlagBinder func(fs *flag.FlagSet, cfg *Config)

// Parse builds the configuration for a command: defaults, then the TOML
// file named by -config (or CONFIG_FILE), then the environment, then flags.
// It returns the remaining positional arguments.
func Parse(name string, args []string, output io.Writer, binders ...FlagBinder) (*Config, []string, error) {
	cfg, err := Load()
	if err != nil {
		return nil, nil, err
	}

	configPath, rest, err := parseInto(name, args, output, cfg, binders)
	if err != nil {
		return nil, nil, err
	}
	if configPath == "" {
		return cfg, rest, nil
	}

	// Rebuild with the file in place so flags still win over it.
	cfg = Defaults()
	if err := cfg.LoadFile(configPath); err != nil {
		return nil, nil, err
	}
	cfg.applyEnv()

	if _, rest, err = parseInto(name, args, output, cfg, binders); err != nil {
		return nil, nil, err
	}
	return cfg, rest, nil
}

func parseInto(name string, args []string, output io.Writer, cfg *Config, binders []FlagBinder) (string, []string, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	if output != nil {
		fs.SetOutput(output)
	}

	configPath := fs.String("config", "", "Path to a TOML configuration file")
	LogFlags(fs, cfg)
	for _, bind := range binders {
		bind(fs, cfg)
	}

	if err := fs.Parse(args); err != nil {
		return "", nil, err
	}
	return *configPath, fs.Args(), nil
}

// LogFlags binds the logging options shared by every command.
func LogFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
	fs.BoolVar(&cfg.LogJSON, "log-json", cfg.LogJSON, "Emit JSON log lines")
}

// ServerFlags binds the range server options.
func ServerFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.Host, "host", cfg.Host, "Interface to bind")
	fs.IntVar(&cfg.Port, "port", cfg.Port, "Port to listen on")
	fs.StringVar(&cfg.Directory, "directory", cfg.Directory, "Directory to serve (default: current working directory)")
	fs.BoolVar(&cfg.CORSEnabled, "cors", cfg.CORSEnabled, "Send permissive CORS headers")
	fs.BoolVar(&cfg.H2CEnabled, "h2c", cfg.H2CEnabled, "Accept HTTP/2 over cleartext connections")
}

// RepoFlags binds the packaging options.
func RepoFlags(fs *flag.FlagSet, cfg *Config) {
	fs.Func("addon-dir", "Comma-separated add-on source directories (default: "+strings.Join(cfg.AddonDirs, ",")+")", func(v string) error {
		cfg.AddonDirs = SplitList(v)
		return nil
	})
	fs.StringVar(&cfg.RepoDir, "repo-dir", cfg.RepoDir, "Path to the Kodi repo root")
}

// SubtitleFlags binds the subtitle service and Kodi client options.
func SubtitleFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.SubsDir, "subs-dir", cfg.SubsDir, "Directory to search for subtitles")
	fs.BoolVar(&cfg.SubsRecursive, "recursive", cfg.SubsRecursive, "Search subdirectories")
	fs.StringVar(&cfg.SubsCacheDir, "cache-dir", cfg.SubsCacheDir, "Scratch directory for applied subtitles")
	fs.StringVar(&cfg.KodiURL, "kodi-url", cfg.KodiURL, "Kodi JSON-RPC endpoint")
	fs.StringVar(&cfg.KodiUsername, "kodi-user", cfg.KodiUsername, "Kodi web server username")
	fs.StringVar(&cfg.KodiPassword, "kodi-password", cfg.KodiPassword, "Kodi web server password")
}
