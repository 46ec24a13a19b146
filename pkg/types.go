package pkg

import (
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/redhat-openshift-ecosystem/unified-test-report/internal/catalog"
	"github.com/redhat-openshift-ecosystem/unified-test-report/internal/dialect"
)

const (
	DefaultLogFile = "utr.log"
	EnvPrefix      = "UTR"
)

// Config holds the settings shared by every command, resolved from flags,
// UTR_* environment variables and defaults.
type Config struct {
	LogLevel    string
	LogFile     string
	CatalogPath string
	Workers     int
}

// NewConfigFromViper reads the persistent settings bound by the root command.
func NewConfigFromViper() *Config {
	return &Config{
		LogLevel:    viper.GetString("log-level"),
		LogFile:     viper.GetString("log-file"),
		CatalogPath: viper.GetString("catalog"),
		Workers:     viper.GetInt("workers"),
	}
}

// Catalog loads the catalog file, or returns the built-in catalog when no
// file is configured.
func (c *Config) Catalog() (*catalog.Catalog, error) {
	if c.CatalogPath == "" {
		return catalog.Default(), nil
	}
	data, err := os.ReadFile(c.CatalogPath)
	if err != nil {
		return nil, errors.Wrapf(err, "reading catalog %s", c.CatalogPath)
	}
	cat, err := catalog.Load(data)
	if err != nil {
		return nil, errors.Wrapf(err, "loading catalog %s", c.CatalogPath)
	}
	return cat, nil
}

// Registry creates the dialect registry with every built-in adapter, the
// configured catalog and the standard logger.
func (c *Config) Registry() (*dialect.Registry, error) {
	cat, err := c.Catalog()
	if err != nil {
		return nil, err
	}
	return dialect.NewDefaultRegistry(
		dialect.WithLogger(log.StandardLogger()),
		dialect.WithCatalog(cat),
	), nil
}
