package policy

import (
	"fmt"
	"strings"

	"github.com/olafkfreund/cosmic-ext-web-apps/internal/launcher"
)

// Script is one guard fragment installed into the engine before any page
// content executes.
type Script struct {
	Name   string
	Source string
}

// Synthesize compiles a launcher record into its ordered guard scripts.
// Fragments for disabled allow-by-default policies are omitted entirely.
// Permission and privacy guards come before custom CSS/JS so author-supplied
// content can never observe an unpatched API.
func Synthesize(l *launcher.Launcher, selectors []string) []Script {
	var scripts []Script
	add := func(name, source string) {
		scripts = append(scripts, Script{Name: name, Source: source})
	}

	// Uniform message channel for every guard below.
	add("ipc-bridge", ipcBridgeScript)

	if !l.Permissions.Camera || !l.Permissions.Microphone {
		add("media-capture-guard", fmt.Sprintf(mediaCaptureGuardScript,
			!l.Permissions.Camera, !l.Permissions.Microphone))
	}
	if !l.Permissions.Geolocation {
		add("geolocation-guard", geolocationGuardScript)
	}
	if l.Permissions.Notifications {
		add("notification-forward", notificationForwardScript)
	} else {
		add("notification-deny", notificationDenyScript)
	}

	if l.Content.ContentBlocking {
		add("content-blocking", contentBlockingScript(selectors))
	}
	if l.Content.BlockThirdPartyCookies {
		add("cookie-guard", cookieGuardScript)
	}
	if l.Content.BlockWebRTC {
		add("webrtc-guard", webRTCGuardScript)
	}

	add("media-session", mediaSessionScript)
	add("badge-watcher", badgeWatcherScript)

	if css := strings.TrimSpace(l.CustomCSS); css != "" {
		add("custom-css", customCSSScript(l.CustomCSS))
	}
	if js := strings.TrimSpace(l.CustomJS); js != "" {
		// Verbatim and unescaped: only the local config author can set this.
		add("custom-js", l.CustomJS)
	}

	if zoom := l.Rendering.ZoomLevel; zoom != 0 && zoom != 1.0 {
		add("zoom", fmt.Sprintf(zoomScript, clamp(zoom, launcher.MinZoom, launcher.MaxZoom)))
	}

	if l.Session.RestoreSession {
		add("session-report", sessionReportScript)
	}
	if l.Rendering.AutoDarkMode {
		add("auto-dark-mode", autoDarkModeScript)
	}

	return scripts
}

// escapeTemplateLiteral keeps author CSS syntactically safe inside the
// injected backtick template.
func escapeTemplateLiteral(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "`", "\\`")
	return s
}

func customCSSScript(css string) string {
	return fmt.Sprintf(
		"(function(){var s=document.createElement('style');s.textContent=`%s`;(document.head||document.documentElement).appendChild(s)})()",
		escapeTemplateLiteral(css))
}

func contentBlockingScript(selectors []string) string {
	if len(selectors) == 0 {
		selectors = DefaultAdSelectors()
	}
	quoted := make([]string, len(selectors))
	for i, sel := range selectors {
		quoted[i] = "'" + strings.ReplaceAll(strings.ReplaceAll(sel, `\`, `\\`), "'", `\'`) + "'"
	}
	return fmt.Sprintf(contentBlockingScriptTemplate, strings.Join(quoted, ","))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

const ipcBridgeScript = `(function(){
    if (window.ipc && window.ipc.postMessage) return;
    window.ipc = {
        postMessage: function(msg) {
            try {
                window.webkit.messageHandlers.ipc.postMessage(msg);
            } catch(e) {}
        }
    };
})()`

// Verb placeholders: block video, block audio.
const mediaCaptureGuardScript = `(function(){
    var blockVideo = %t;
    var blockAudio = %t;
    var origGetUserMedia = navigator.mediaDevices && navigator.mediaDevices.getUserMedia;
    if (origGetUserMedia) {
        navigator.mediaDevices.getUserMedia = function(constraints) {
            if (blockVideo && constraints && constraints.video) {
                return Promise.reject(new DOMException('Camera access denied by app settings', 'NotAllowedError'));
            }
            if (blockAudio && constraints && constraints.audio) {
                return Promise.reject(new DOMException('Microphone access denied by app settings', 'NotAllowedError'));
            }
            return origGetUserMedia.call(navigator.mediaDevices, constraints);
        };
    }
})()`

const geolocationGuardScript = `(function(){
    navigator.geolocation.getCurrentPosition = function(s, e) {
        if (e) e({ code: 1, message: 'Geolocation denied by app settings', PERMISSION_DENIED: 1 });
    };
    navigator.geolocation.watchPosition = function(s, e) {
        if (e) e({ code: 1, message: 'Geolocation denied by app settings', PERMISSION_DENIED: 1 });
        return 0;
    };
})()`

const notificationDenyScript = `(function(){
    window.Notification = class {
        constructor() { throw new DOMException('Notifications denied by app settings', 'NotAllowedError'); }
        static get permission() { return 'denied'; }
        static requestPermission() { return Promise.resolve('denied'); }
    };
})()`

const notificationForwardScript = `(function(){
    window.Notification = class extends EventTarget {
        constructor(title, options) {
            super();
            window.ipc.postMessage(JSON.stringify({
                type: 'notification',
                title: title || '',
                body: (options && options.body) || ''
            }));
        }
        static get permission() { return 'granted'; }
        static requestPermission() { return Promise.resolve('granted'); }
    };
})()`

// Verb placeholder: comma-joined quoted selector list.
const contentBlockingScriptTemplate = `(function(){
    var adSelectors = [%s];
    function removeAds() {
        adSelectors.forEach(function(sel) {
            document.querySelectorAll(sel).forEach(function(el) { el.remove(); });
        });
    }
    removeAds();
    new MutationObserver(removeAds).observe(
        document.body || document.documentElement,
        { childList: true, subtree: true }
    );
})()`

const cookieGuardScript = `(function(){
    try {
        Object.defineProperty(document, 'cookie', {
            get: function() {
                return document._firstPartyCookies || '';
            },
            set: function(val) {
                if (!val.includes('domain=') || val.includes(window.location.hostname)) {
                    document._firstPartyCookies = val;
                }
            }
        });
    } catch(e) {}
})()`

const webRTCGuardScript = `(function(){
    window.RTCPeerConnection = undefined;
    window.webkitRTCPeerConnection = undefined;
    window.mozRTCPeerConnection = undefined;
    if (navigator.mediaDevices) {
        navigator.mediaDevices.enumerateDevices = function() {
            return Promise.resolve([]);
        };
    }
})()`

const mediaSessionScript = `(function(){
    function wireMediaSession() {
        var media = document.querySelector('video, audio');
        if (!media) return;

        if ('mediaSession' in navigator) {
            navigator.mediaSession.setActionHandler('play', function() { media.play(); });
            navigator.mediaSession.setActionHandler('pause', function() { media.pause(); });
            navigator.mediaSession.setActionHandler('seekbackward', function() { media.currentTime = Math.max(0, media.currentTime - 10); });
            navigator.mediaSession.setActionHandler('seekforward', function() { media.currentTime += 10; });

            media.addEventListener('play', function() {
                window.ipc.postMessage(JSON.stringify({type:'media', state:'playing'}));
            });
            media.addEventListener('pause', function() {
                window.ipc.postMessage(JSON.stringify({type:'media', state:'paused'}));
            });
        }
    }

    wireMediaSession();
    var observer = new MutationObserver(function() { wireMediaSession(); });
    observer.observe(document.body || document.documentElement, { childList: true, subtree: true });
})()`

const badgeWatcherScript = `(function(){
    var lastBadge = 0;
    function checkBadge() {
        var match = document.title.match(/[\(\[](\d+)[\)\]]/);
        var count = match ? parseInt(match[1]) : 0;
        if (count !== lastBadge) {
            lastBadge = count;
            window.ipc.postMessage(JSON.stringify({type:'badge', count: count}));
        }
    }

    if (navigator.setAppBadge) {
        var origSetBadge = navigator.setAppBadge.bind(navigator);
        navigator.setAppBadge = function(count) {
            window.ipc.postMessage(JSON.stringify({type:'badge', count: count || 0}));
            return origSetBadge(count);
        };
    }
    if (navigator.clearAppBadge) {
        var origClearBadge = navigator.clearAppBadge.bind(navigator);
        navigator.clearAppBadge = function() {
            window.ipc.postMessage(JSON.stringify({type:'badge', count: 0}));
            return origClearBadge();
        };
    }

    checkBadge();
    var titleEl = document.querySelector('title');
    if (titleEl) {
        new MutationObserver(checkBadge).observe(titleEl, { childList: true });
    }
    setInterval(checkBadge, 5000);
})()`

// Verb placeholder: clamped zoom level.
const zoomScript = `(function(){
    function applyZoom() { document.body.style.zoom = '%g'; }
    if (document.body) { applyZoom(); }
    else { document.addEventListener('DOMContentLoaded', applyZoom); }
})()`

const sessionReportScript = `(function(){
    setInterval(function() {
        window.ipc.postMessage(JSON.stringify({
            type: 'save_url',
            url: window.location.href
        }));
    }, 30000);
    window.addEventListener('beforeunload', function() {
        window.ipc.postMessage(JSON.stringify({
            type: 'save_url',
            url: window.location.href
        }));
    });
})()`

const autoDarkModeScript = `(function(){
    var style = document.createElement('style');
    style.textContent = '@media (prefers-color-scheme: dark) { html { filter: invert(1) hue-rotate(180deg); } img, video, canvas, svg { filter: invert(1) hue-rotate(180deg); } }';
    (document.head || document.documentElement).appendChild(style);
    var meta = document.querySelector('meta[name="color-scheme"]');
    if (!meta) {
        meta = document.createElement('meta');
        meta.name = 'color-scheme';
        (document.head || document.documentElement).appendChild(meta);
    }
    meta.content = 'dark light';
})()`
