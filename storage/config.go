package storage

import "github.com/kbukum/fileflow/validation"

// Provider constants for supported storage backends.
const (
	ProviderLocal  = "local"
	ProviderS3     = "s3"
	ProviderMemory = "memory"
)

// Default configuration values.
const (
	DefaultProvider = ProviderLocal
	DefaultRegion   = "us-east-1"
)

// Config holds storage configuration. One Config describes the connection
// settings; Bucket is filled per lookup for object stores.
type Config struct {
	// Provider selects the storage backend: "local", "s3" or "memory".
	Provider string `yaml:"provider" mapstructure:"provider" json:"provider"`

	// BasePath is the directory relative local paths resolve against.
	// Empty means the working directory.
	BasePath string `yaml:"base_path" mapstructure:"base_path" json:"base_path"`

	// Bucket is the S3 bucket name.
	Bucket string `yaml:"bucket" mapstructure:"bucket" json:"bucket"`

	// Region is the AWS region for S3.
	Region string `yaml:"region" mapstructure:"region" json:"region"`

	// Endpoint is a custom S3-compatible endpoint (e.g. MinIO).
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint" json:"endpoint"`

	// AccessKey is the AWS access key ID. Empty uses the default chain.
	AccessKey string `yaml:"access_key" mapstructure:"access_key" json:"access_key"`

	// SecretKey is the AWS secret access key.
	SecretKey string `yaml:"secret_key" mapstructure:"secret_key" json:"secret_key"`

	// ForcePathStyle forces path-style URLs instead of virtual-hosted-style.
	ForcePathStyle bool `yaml:"force_path_style" mapstructure:"force_path_style" json:"force_path_style"`
}

// ApplyDefaults fills in zero-valued fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Provider == "" {
		c.Provider = DefaultProvider
	}
	if c.Region == "" {
		c.Region = DefaultRegion
	}
}

// Validate checks that the configuration is valid for the selected provider.
func (c *Config) Validate() error {
	v := validation.New().OneOf("storage.provider", c.Provider, ProviderLocal, ProviderS3, ProviderMemory)
	if c.Provider == ProviderS3 {
		v.Required("storage.bucket", c.Bucket).
			Required("storage.region", c.Region).
			Check((c.AccessKey == "") == (c.SecretKey == ""), "storage.access_key", "must be set together with secret_key")
	}
	return v.Validate()
}

// ForBucket returns a copy of c addressing bucket over S3.
func (c Config) ForBucket(bucket string) Config {
	c.Provider = ProviderS3
	c.Bucket = bucket
	return c
}
