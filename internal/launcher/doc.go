// Package launcher defines the persisted per-app launcher record and its
// on-disk store.
//
// One TOML file per app, named by the sanitized app id, lives under the
// user's data directory. The editor process owns every field; the webview
// host writes back only the last visited URL and the usage counters.
package launcher
