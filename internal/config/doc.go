// Package config loads ambient process configuration from environment
// variables with sensible defaults.
//
// Environment Variables:
//   - WEBAPPS_LOG_LEVEL: log level (default "info")
//   - WEBAPPS_LOG_DEV: development console logging (default false)
//   - WEBAPPS_DATA_DIR: launcher record directory override
//   - WEBAPPS_DOWNLOAD_DIR: download directory override
package config
