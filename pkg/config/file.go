package config

import (
	"os"
	"time"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
)

// fileConfig is the on-disk TOML layout. Pointers distinguish "unset" from
// zero values so the file only overrides what it names.
type fileConfig struct {
	Server struct {
		Host         *string `toml:"host"`
		Port         *int    `toml:"port"`
		Directory    *string `toml:"directory"`
		ReadTimeout  *string `toml:"read_timeout"`
		WriteTimeout *string `toml:"write_timeout"`
		IdleTimeout  *string `toml:"idle_timeout"`
		CORS         *bool   `toml:"cors"`
		H2C          *bool   `toml:"h2c"`
	} `toml:"server"`

	Repo struct {
		AddonDirs []string `toml:"addon_dirs"`
		RepoDir   *string  `toml:"repo_dir"`
	} `toml:"repo"`

	Subtitles struct {
		Dir          *string `toml:"dir"`
		Recursive    *bool   `toml:"recursive"`
		CacheDir     *string `toml:"cache_dir"`
		AddonVersion *string `toml:"addon_version"`
	} `toml:"subtitles"`

	Kodi struct {
		URL      *string `toml:"url"`
		Username *string `toml:"username"`
		Password *string `toml:"password"`
	} `toml:"kodi"`

	HTTP struct {
		GlobalProxies   []string `toml:"global_proxies"`
		TransportRoutes *string  `toml:"transport_routes"`
		BrowserTLS      *bool    `toml:"browser_tls"`
		Timeout         *string  `toml:"timeout"`
	} `toml:"http"`

	Log struct {
		Level *string `toml:"level"`
		JSON  *bool   `toml:"json"`
	} `toml:"log"`
}

// LoadFile overlays the TOML file at path onto c.
func (c *Config) LoadFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "failed to open configuration file")
	}
	defer file.Close()

	var fc fileConfig
	if err := toml.NewDecoder(file).SetTagName("toml").Decode(&fc); err != nil {
		return errors.Wrapf(err, "failed to decode TOML config %s", path)
	}

	return c.apply(&fc)
}

func (c *Config) apply(fc *fileConfig) error {
	setString(&c.Host, fc.Server.Host)
	if fc.Server.Port != nil {
		c.Port = *fc.Server.Port
	}
	setString(&c.Directory, fc.Server.Directory)
	if err := setDuration(&c.ReadTimeout, fc.Server.ReadTimeout); err != nil {
		return errors.Wrap(err, "server.read_timeout")
	}
	if err := setDuration(&c.WriteTimeout, fc.Server.WriteTimeout); err != nil {
		return errors.Wrap(err, "server.write_timeout")
	}
	if err := setDuration(&c.IdleTimeout, fc.Server.IdleTimeout); err != nil {
		return errors.Wrap(err, "server.idle_timeout")
	}
	setBool(&c.CORSEnabled, fc.Server.CORS)
	setBool(&c.H2CEnabled, fc.Server.H2C)

	if len(fc.Repo.AddonDirs) > 0 {
		c.AddonDirs = fc.Repo.AddonDirs
	}
	setString(&c.RepoDir, fc.Repo.RepoDir)

	setString(&c.SubsDir, fc.Subtitles.Dir)
	setBool(&c.SubsRecursive, fc.Subtitles.Recursive)
	setString(&c.SubsCacheDir, fc.Subtitles.CacheDir)
	setString(&c.AddonVersion, fc.Subtitles.AddonVersion)

	setString(&c.KodiURL, fc.Kodi.URL)
	setString(&c.KodiUsername, fc.Kodi.Username)
	setString(&c.KodiPassword, fc.Kodi.Password)

	if len(fc.HTTP.GlobalProxies) > 0 {
		c.GlobalProxies = fc.HTTP.GlobalProxies
	}
	if fc.HTTP.TransportRoutes != nil {
		c.TransportRoutes = ParseTransportRoutes(*fc.HTTP.TransportRoutes)
	}
	setBool(&c.BrowserTLS, fc.HTTP.BrowserTLS)
	if err := setDuration(&c.HTTPTimeout, fc.HTTP.Timeout); err != nil {
		return errors.Wrap(err, "http.timeout")
	}

	setString(&c.LogLevel, fc.Log.Level)
	setBool(&c.LogJSON, fc.Log.JSON)
	return nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}

func setDuration(dst *time.Duration, src *string) error {
	if src == nil {
		return nil
	}
	d, err := time.ParseDuration(*src)
	if err != nil {
		return errors.Wrapf(err, "invalid duration %q", *src)
	}
	*dst = d
	return nil
}
