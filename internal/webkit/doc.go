// Package webkit hosts a launcher's window on WebKitGTK.
//
// The engine itself is compiled only with the webkit build tag because it
// needs cgo and the GTK stack. Everything the engine consumes, the Options
// assembled from a launcher record and the injected scripts, is plain Go
// and stays testable on any platform. Builds without the tag get a stub
// engine that reports the toolkit as unavailable.
package webkit
