// Package policy turns a launcher record into enforced runtime restrictions.
//
// Two surfaces are produced:
//   - synchronous allow/deny decisions for the engine's navigation,
//     new-window, and download hooks
//   - an ordered set of guard scripts injected at document-creation time,
//     before any page script can observe the unpatched APIs
//
// Decision functions capture only read-only policy data so they stay
// trivially testable in isolation.
package policy
