// Package ipc dispatches messages posted by injected page scripts.
//
// Pages reach the host through a single message handler. Every payload is
// JSON with a "type" discriminator; the gateway decodes it, checks the
// relevant policy gate, and hands the work to the notification or session
// layer. Unknown types and malformed payloads are dropped silently so a
// hostile page can never break the host by posting garbage.
package ipc
