//go:build webkit

package webkit

/*
#include <stdlib.h>
#include <glib.h>
*/
import "C"

import (
	"go.uber.org/zap"
)

//export goDecidePolicy
func goDecidePolicy(id C.ulong, uri *C.char, newWindow C.gboolean) C.gboolean {
	e := lookupEngine(uintptr(id))
	if e == nil {
		return C.gboolean(0)
	}
	target := C.GoString(uri)
	if newWindow != 0 {
		if e.decisions.AllowNewWindow(target) {
			e.log.Debug("Routing new window into current view", zap.String("url", target))
			e.loadURL(target)
			return C.gboolean(1)
		}
		return C.gboolean(0)
	}
	if e.decisions.AllowNavigation(target) {
		return C.gboolean(1)
	}
	return C.gboolean(0)
}

//export goDecideDownloadDest
func goDecideDownloadDest(id C.ulong, uri, suggested *C.char) *C.char {
	e := lookupEngine(uintptr(id))
	if e == nil {
		return nil
	}
	dest, ok := e.decisions.DecideDownload(C.GoString(uri), C.GoString(suggested))
	if !ok {
		return nil
	}
	e.log.Info("Accepting download", zap.String("dest", dest))
	return C.CString(dest)
}

//export goWindowClose
func goWindowClose(id C.ulong) C.gboolean {
	e := lookupEngine(uintptr(id))
	if e == nil || !e.opts.MinimizeToBackground {
		return C.gboolean(0)
	}
	e.log.Debug("Window close hidden to background")
	return C.gboolean(1)
}

//export goDecidePermission
func goDecidePermission(id C.ulong, kind *C.char) C.gboolean {
	e := lookupEngine(uintptr(id))
	if e == nil {
		return C.gboolean(0)
	}
	k := C.GoString(kind)
	allowed := e.allowPermission(k)
	e.log.Debug("Permission request", zap.String("kind", k), zap.Bool("allowed", allowed))
	return boolToGboolean(allowed)
}

//export goScriptMessage
func goScriptMessage(id C.ulong, json *C.char) {
	e := lookupEngine(uintptr(id))
	if e == nil {
		return
	}
	e.onMessage(C.GoString(json))
}
