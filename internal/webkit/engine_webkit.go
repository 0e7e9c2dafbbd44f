//go:build webkit

package webkit

/*
#cgo pkg-config: webkit2gtk-4.1 gtk+-3.0
#include <stdlib.h>
#include <gtk/gtk.h>
#include <webkit2/webkit2.h>
#include <glib-object.h>
#include <jsc/jsc.h>

static GtkWidget* new_window() { return gtk_window_new(GTK_WINDOW_TOPLEVEL); }

static WebKitWebView* as_webview(GtkWidget* w) { return WEBKIT_WEB_VIEW(w); }

static WebKitWebsiteDataManager* make_wdm(const gchar* data, const gchar* cache) {
    return webkit_website_data_manager_new("base-data-directory", data, "base-cache-directory", cache, NULL);
}

extern gboolean goDecidePolicy(unsigned long id, char* uri, gboolean new_window);
extern char* goDecideDownloadDest(unsigned long id, char* uri, char* suggested);
extern gboolean goWindowClose(unsigned long id);
extern gboolean goDecidePermission(unsigned long id, char* kind);
extern void goScriptMessage(unsigned long id, char* json);

gboolean on_decide_policy(WebKitWebView* view, WebKitPolicyDecision* decision, WebKitPolicyDecisionType type, gpointer user_data) {
    (void)view;
    if (type != WEBKIT_POLICY_DECISION_TYPE_NAVIGATION_ACTION && type != WEBKIT_POLICY_DECISION_TYPE_NEW_WINDOW_ACTION) {
        return FALSE;
    }
    WebKitNavigationPolicyDecision* nav = WEBKIT_NAVIGATION_POLICY_DECISION(decision);
    WebKitNavigationAction* action = webkit_navigation_policy_decision_get_navigation_action(nav);
    WebKitURIRequest* req = webkit_navigation_action_get_request(action);
    const gchar* uri = req ? webkit_uri_request_get_uri(req) : "";
    gboolean new_window = type == WEBKIT_POLICY_DECISION_TYPE_NEW_WINDOW_ACTION;
    gboolean allow = goDecidePolicy((unsigned long)user_data, (char*)uri, new_window);
    if (new_window) {
        /* New windows never open; allowed targets are loaded into the
           existing view from the Go side. */
        webkit_policy_decision_ignore(decision);
    } else if (allow) {
        webkit_policy_decision_use(decision);
    } else {
        webkit_policy_decision_ignore(decision);
    }
    return TRUE;
}

gboolean on_decide_destination(WebKitDownload* download, const gchar* suggested, gpointer user_data) {
    WebKitURIRequest* req = webkit_download_get_request(download);
    const gchar* uri = req ? webkit_uri_request_get_uri(req) : "";
    char* dest = goDecideDownloadDest((unsigned long)user_data, (char*)uri, (char*)suggested);
    if (!dest) {
        webkit_download_cancel(download);
        return TRUE;
    }
    gchar* dest_uri = g_filename_to_uri(dest, NULL, NULL);
    if (dest_uri) {
        webkit_download_set_destination(download, dest_uri);
        g_free(dest_uri);
    } else {
        webkit_download_cancel(download);
    }
    free(dest);
    return TRUE;
}

void on_download_started(WebKitWebContext* ctx, WebKitDownload* download, gpointer user_data) {
    (void)ctx;
    g_signal_connect(download, "decide-destination", G_CALLBACK(on_decide_destination), user_data);
}

gboolean on_delete_event(GtkWidget* w, GdkEvent* e, gpointer user_data) {
    (void)e;
    if (goWindowClose((unsigned long)user_data)) {
        gtk_widget_hide(w);
        return TRUE;
    }
    gtk_main_quit();
    return TRUE;
}

gboolean on_permission_request(WebKitWebView* view, WebKitPermissionRequest* request, gpointer user_data) {
    (void)view;
    const char* kind = "";
    if (WEBKIT_IS_GEOLOCATION_PERMISSION_REQUEST(request)) {
        kind = "geolocation";
    } else if (WEBKIT_IS_NOTIFICATION_PERMISSION_REQUEST(request)) {
        kind = "notification";
    } else if (WEBKIT_IS_USER_MEDIA_PERMISSION_REQUEST(request)) {
        WebKitUserMediaPermissionRequest* um = WEBKIT_USER_MEDIA_PERMISSION_REQUEST(request);
        kind = webkit_user_media_permission_is_for_video_device(um) ? "camera" : "microphone";
    }
    if (goDecidePermission((unsigned long)user_data, (char*)kind)) {
        webkit_permission_request_allow(request);
    } else {
        webkit_permission_request_deny(request);
    }
    return TRUE;
}

void on_script_message(WebKitUserContentManager* m, WebKitJavascriptResult* r, gpointer user_data) {
    (void)m;
    JSCValue* v = webkit_javascript_result_get_js_value(r);
    gchar* s = jsc_value_to_string(v);
    goScriptMessage((unsigned long)user_data, s);
    g_free(s);
}

static void connect_engine_signals(GtkWidget* win, WebKitWebView* view, WebKitWebContext* ctx, WebKitUserContentManager* ucm, unsigned long id) {
    g_signal_connect(view, "decide-policy", G_CALLBACK(on_decide_policy), (gpointer)id);
    g_signal_connect(view, "permission-request", G_CALLBACK(on_permission_request), (gpointer)id);
    g_signal_connect(ctx, "download-started", G_CALLBACK(on_download_started), (gpointer)id);
    g_signal_connect(win, "delete-event", G_CALLBACK(on_delete_event), (gpointer)id);
    g_signal_connect(ucm, "script-message-received::ipc", G_CALLBACK(on_script_message), (gpointer)id);
}
*/
import "C"

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"unsafe"

	"go.uber.org/zap"

	"github.com/olafkfreund/cosmic-ext-web-apps/internal/logging"
	"github.com/olafkfreund/cosmic-ext-web-apps/internal/policy"
)

// Engine hosts one app window on WebKitGTK. It must be created and run on
// the main goroutine; GTK is not thread-safe.
type Engine struct {
	opts      Options
	decisions *policy.Decisions
	onMessage func(string)
	log       *logging.Logger

	id   uintptr
	win  *C.GtkWidget
	view *C.WebKitWebView
}

var engines = struct {
	sync.Mutex
	byID map[uintptr]*Engine
	next uintptr
}{byID: make(map[uintptr]*Engine)}

func registerEngine(e *Engine) uintptr {
	engines.Lock()
	defer engines.Unlock()
	engines.next++
	engines.byID[engines.next] = e
	return engines.next
}

func lookupEngine(id uintptr) *Engine {
	engines.Lock()
	defer engines.Unlock()
	return engines.byID[id]
}

// New builds the native window, web context, and content manager and wires
// the policy gates. decisions and onMessage must be non-nil.
func New(opts Options, decisions *policy.Decisions, onMessage func(string), log *logging.Logger) (*Engine, error) {
	if log == nil {
		log = logging.NewNop()
	}
	if C.gtk_init_check(nil, nil) == 0 {
		return nil, errors.New("failed to initialize GTK")
	}

	var wdm *C.WebKitWebsiteDataManager
	if opts.Ephemeral {
		wdm = C.webkit_website_data_manager_new_ephemeral()
	} else {
		dataDir := opts.ProfileDir
		if dataDir == "" {
			dataDir = filepath.Join(os.TempDir(), "webapp-profile")
		}
		cacheDir := filepath.Join(dataDir, "cache")
		if err := os.MkdirAll(cacheDir, 0o755); err != nil {
			return nil, err
		}
		cData := C.CString(dataDir)
		cCache := C.CString(cacheDir)
		wdm = C.make_wdm((*C.gchar)(cData), (*C.gchar)(cCache))
		C.free(unsafe.Pointer(cData))
		C.free(unsafe.Pointer(cCache))
	}
	if wdm == nil {
		return nil, errors.New("failed to create website data manager")
	}

	ctx := C.webkit_web_context_new_with_website_data_manager(wdm)
	if ctx == nil {
		return nil, errors.New("failed to create web context")
	}

	if cm := C.webkit_web_context_get_cookie_manager(ctx); cm != nil {
		if !opts.Ephemeral {
			cookiePath := filepath.Join(opts.ProfileDir, "cookies.sqlite")
			cCookie := C.CString(cookiePath)
			C.webkit_cookie_manager_set_persistent_storage(cm, (*C.gchar)(cCookie), C.WEBKIT_COOKIE_PERSISTENT_STORAGE_SQLITE)
			C.free(unsafe.Pointer(cCookie))
		}
		acceptPolicy := C.WebKitCookieAcceptPolicy(C.WEBKIT_COOKIE_POLICY_ACCEPT_ALWAYS)
		if opts.BlockThirdPartyCookies {
			acceptPolicy = C.WEBKIT_COOKIE_POLICY_ACCEPT_NO_THIRD_PARTY
		}
		C.webkit_cookie_manager_set_accept_policy(cm, acceptPolicy)
	}

	viewWidget := C.webkit_web_view_new_with_context(ctx)
	if viewWidget == nil {
		return nil, errors.New("failed to create web view")
	}
	view := C.as_webview(viewWidget)

	win := C.new_window()
	if win == nil {
		return nil, errors.New("failed to create window")
	}
	C.gtk_container_add((*C.GtkContainer)(unsafe.Pointer(win)), viewWidget)
	C.gtk_window_set_default_size((*C.GtkWindow)(unsafe.Pointer(win)), C.gint(opts.Width), C.gint(opts.Height))
	C.gtk_window_set_decorated((*C.GtkWindow)(unsafe.Pointer(win)), boolToGboolean(opts.Decorated))
	cTitle := C.CString(opts.Title)
	C.gtk_window_set_title((*C.GtkWindow)(unsafe.Pointer(win)), (*C.gchar)(cTitle))
	C.free(unsafe.Pointer(cTitle))

	if opts.UserAgent != "" {
		if settings := C.webkit_web_view_get_settings(view); settings != nil {
			cUA := C.CString(opts.UserAgent)
			C.webkit_settings_set_user_agent(settings, (*C.gchar)(cUA))
			C.free(unsafe.Pointer(cUA))
		}
	}

	e := &Engine{
		opts:      opts,
		decisions: decisions,
		onMessage: onMessage,
		log:       log,
		win:       win,
		view:      view,
	}
	e.id = registerEngine(e)

	ucm := C.webkit_web_view_get_user_content_manager(view)
	if ucm == nil {
		return nil, errors.New("failed to get user content manager")
	}
	cHandler := C.CString("ipc")
	C.webkit_user_content_manager_register_script_message_handler(ucm, (*C.gchar)(cHandler))
	C.free(unsafe.Pointer(cHandler))

	for _, script := range opts.Scripts {
		cSrc := C.CString(script.Source)
		us := C.webkit_user_script_new((*C.gchar)(cSrc), C.WEBKIT_USER_CONTENT_INJECT_ALL_FRAMES, C.WEBKIT_USER_SCRIPT_INJECT_AT_DOCUMENT_START, nil, nil)
		C.free(unsafe.Pointer(cSrc))
		if us != nil {
			C.webkit_user_content_manager_add_script(ucm, us)
			C.webkit_user_script_unref(us)
		}
		log.Debug("Injected user script", zap.String("script", script.Name))
	}

	C.connect_engine_signals(win, view, ctx, ucm, C.ulong(e.id))

	return e, nil
}

// Run shows the window, loads the start URL, and enters the GTK main loop.
// It blocks until the window quits.
func (e *Engine) Run() {
	C.gtk_widget_show_all(e.win)
	if e.opts.StartURL != "" {
		e.loadURL(e.opts.StartURL)
	}
	C.gtk_main()
}

// Quit stops the main loop. Safe to call from the main goroutine only.
func (e *Engine) Quit() {
	C.gtk_main_quit()
}

func (e *Engine) loadURL(raw string) {
	cURL := C.CString(raw)
	defer C.free(unsafe.Pointer(cURL))
	C.webkit_web_view_load_uri(e.view, (*C.gchar)(cURL))
}

func (e *Engine) allowPermission(kind string) bool {
	switch kind {
	case "camera":
		return e.opts.AllowCamera
	case "microphone":
		return e.opts.AllowMicrophone
	case "geolocation":
		return e.opts.AllowGeolocation
	case "notification":
		return e.opts.AllowNotifications
	default:
		return false
	}
}

func boolToGboolean(b bool) C.gboolean {
	if b {
		return C.gboolean(1)
	}
	return C.gboolean(0)
}
