// Package config loads fileflow configuration.
//
// It uses Viper to read a YAML file and overlay environment variables, and
// godotenv to pull in an optional .env file first. Environment variables
// override file values when they carry the service prefix, with underscores
// standing for nesting (e.g. FILEFLOW_PROBE_MAX_ATTEMPTS).
//
// # Usage
//
//	var cfg MyConfig
//	err := config.LoadConfig("fileflow", &cfg, config.WithConfigFile("fileflow.yml"))
package config
