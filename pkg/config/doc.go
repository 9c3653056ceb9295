// Package config provides configuration management for the signatories service.
//
// Values are layered: built-in defaults, then the YAML file
// $SIGNATORIES_CONFIG_PATH/signatories.yml (default /etc/signatories), then
// environment variables. Each attribute remembers which layer set it.
//
// # Key Configuration Options
//
//   - SIGNATORIES_CERTIFICATE_BASE_URL: Base URL of the certificates resource
//   - SIGNATORIES_LANGUAGE: Language of the editor prompts (en, fr)
//   - SIGNATORIES_LOG_LEVEL: Logging verbosity
//   - DATABASE_URL: Database connection
//   - PORT: Server listen port
package config
