// Package config provides configuration management for docvault.
//
// Configuration is read once at startup and handed to the components that
// need it; nothing in docvault reads configuration from global state.
//
// # Configuration Sources
//
// Values are resolved in this order, later sources winning:
//
//   - Built-in defaults
//   - The YAML file docvault.yml in DOCVAULT_CONFIG_PATH
//   - Environment variables
//
// # Key Configuration Options
//
//   - DATABASE_URL: PostgreSQL connection string
//   - DOCVAULT_TOKEN_SECRET (or JWT_SECRET): token signing key, required
//   - DOCVAULT_TOKEN_TTL: token lifetime in seconds (default 3600)
//   - DOCVAULT_PROCESSOR_URL: ingestion processor endpoint
//   - DOCVAULT_PROCESSOR_TIMEOUT: processor call timeout in seconds (default 30)
//   - DOCVAULT_ENFORCE_ROLES: gate writes on the caller's role
//   - PORT, BIND_ADDRESS: server listen address
package config
