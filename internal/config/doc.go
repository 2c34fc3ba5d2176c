// Package config loads the quickchat CLI configuration: a TOML file, a
// working-directory .env file and QUICKCHAT_* environment overrides. It also
// opens the configured key/value backend.
//
// Example config.toml:
//
//	data_dir  = "/home/me/.local/share/quickchat"
//	backend   = "sqlite"
//	log_level = "DEBUG"
//
//	[providers.anthropic]
//	base_url = "http://localhost:8080/v1"
package config
