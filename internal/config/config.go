// Package config loads the YAML configuration file from which a vexlake
// CLI invocation reads its index settings and object-store backend.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nvandessel/vexlake/internal/objectstore"
	"github.com/nvandessel/vexlake/internal/vxerr"
)

// IndexConfig mirrors vectorindex.Config's tunables for YAML loading.
type IndexConfig struct {
	Dimension      int     `yaml:"dimension"`
	M              int     `yaml:"m"`
	MMax0          int     `yaml:"m_max_0"`
	EfConstruction int     `yaml:"ef_construction"`
	Ml             float64 `yaml:"ml"`
}

// StorageConfig selects and configures the object-store backend. Backend
// is "memory" or "s3"; the S3 fields mirror objectstore.S3Config and are
// only read when Backend == "s3".
type StorageConfig struct {
	Backend         string `yaml:"backend"`
	Endpoint        string `yaml:"endpoint"`
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	ForcePathStyle  bool   `yaml:"force_path_style"`
}

// Config is the top-level vexlake.yaml document.
type Config struct {
	Index   IndexConfig   `yaml:"index"`
	Storage StorageConfig `yaml:"storage"`
}

// Default returns the configuration used when no vexlake.yaml is present:
// dimension 128, default HNSW tunables, in-memory storage.
func Default() Config {
	return Config{
		Index: IndexConfig{Dimension: 128},
		Storage: StorageConfig{
			Backend: "memory",
		},
	}
}

// Load reads and parses the YAML document at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, vxerr.Wrap(vxerr.InvalidConfig, err, "read config %s", path)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, vxerr.Wrap(vxerr.InvalidConfig, err, "parse config %s", path)
	}
	return cfg, nil
}

// objectstoreS3Config adapts StorageConfig to objectstore.S3Config.
func (c StorageConfig) objectstoreS3Config() objectstore.S3Config {
	return objectstore.S3Config{
		Endpoint:        c.Endpoint,
		Bucket:          c.Bucket,
		Region:          c.Region,
		AccessKeyID:     c.AccessKeyID,
		SecretAccessKey: c.SecretAccessKey,
		ForcePathStyle:  c.ForcePathStyle,
	}
}

// S3Config exposes the adapted S3 settings for callers building a store.
func (c StorageConfig) S3Config() (objectstore.S3Config, error) {
	if c.Bucket == "" {
		return objectstore.S3Config{}, vxerr.New(vxerr.InvalidConfig, "storage.bucket is required for backend %q", c.Backend)
	}
	return c.objectstoreS3Config(), nil
}

// Validate checks that Backend names a supported store.
func (c StorageConfig) Validate() error {
	switch c.Backend {
	case "memory", "s3", "":
		return nil
	default:
		return vxerr.New(vxerr.InvalidConfig, "unknown storage backend %q", c.Backend)
	}
}
