package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/olafkfreund/cosmic-ext-web-apps/internal/config"
	"github.com/olafkfreund/cosmic-ext-web-apps/internal/ipc"
	"github.com/olafkfreund/cosmic-ext-web-apps/internal/launcher"
	"github.com/olafkfreund/cosmic-ext-web-apps/internal/logging"
	"github.com/olafkfreund/cosmic-ext-web-apps/internal/notify"
	"github.com/olafkfreund/cosmic-ext-web-apps/internal/policy"
	"github.com/olafkfreund/cosmic-ext-web-apps/internal/session"
	"github.com/olafkfreund/cosmic-ext-web-apps/internal/webkit"
)

func main() {
	appID := flag.String("id", "", "App id of the launcher record to host")
	private := flag.Bool("private", false, "Force an ephemeral session regardless of stored settings")
	flag.Parse()

	if *appID == "" {
		fmt.Fprintln(os.Stderr, "usage: webview --id <app-id> [--private]")
		os.Exit(2)
	}

	cfg := config.LoadOrDefault()
	log, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
		OutputPaths: []string{"stderr"},
	})
	if err != nil {
		log = logging.NewDefault()
	}
	defer func() { _ = log.Sync() }()

	if err := run(*appID, *private, cfg, log); err != nil {
		log.Error("Fatal", zap.Error(err))
		os.Exit(1)
	}
}

func run(appID string, private bool, cfg *config.Config, log *logging.Logger) error {
	store := launcher.NewStore(launcher.DataDir(cfg.Storage.DataDir), log)

	l, err := store.Load(appID)
	if err != nil {
		return fmt.Errorf("load launcher %q: %w", appID, err)
	}
	if private {
		l.Privacy.PrivateMode = true
	}

	// An empty URL is a valid record; the window opens without navigating.
	// Anything else must pass the scheme gate before the engine sees it.
	if l.URL != "" && !policy.IsSafeURL(l.URL) {
		return fmt.Errorf("refusing to open unsafe URL %q", l.URL)
	}

	// Proxy env must be in place before the toolkit spawns network threads.
	if l.ProxyURL != "" {
		for _, key := range []string{"http_proxy", "https_proxy", "HTTP_PROXY", "HTTPS_PROXY"} {
			if err := os.Setenv(key, l.ProxyURL); err != nil {
				return fmt.Errorf("set proxy environment: %w", err)
			}
		}
		log.Info("Routing through proxy", zap.String("proxy", l.ProxyURL))
	}

	store.RecordLaunch(appID)

	selectors := policy.DefaultAdSelectors()
	if l.Content.ContentBlocking {
		loaded, err := policy.LoadSelectors(store.SelectorsPath())
		if err != nil {
			log.Warn("Falling back to built-in blocking selectors", zap.Error(err))
		}
		selectors = loaded
	}
	scripts := policy.Synthesize(l, selectors)

	var notifier ipc.Notifier
	if l.Permissions.Notifications {
		n, err := notify.NewDBusNotifier(l.Title(), l.Icon, log)
		if err != nil {
			log.Warn("Desktop notifications unavailable", zap.Error(err))
		} else {
			defer func() { _ = n.Close() }()
			notifier = n
		}
	}

	var saver *session.Saver
	if l.Session.RestoreSession && !l.Privacy.PrivateMode {
		saver = session.NewSaver(store, appID, log)
		defer saver.Close()
	}

	gateway := ipc.NewGateway(ipc.Config{
		AppTitle:             l.Title(),
		ForwardNotifications: l.Permissions.Notifications && notifier != nil,
		RestoreSession:       saver != nil,
	}, notifier, saver, log)

	decisions := policy.NewDecisions(cfg.ResolveDownloadDir(), log)
	opts := webkit.BuildOptions(l, scripts, private, store.ProfileDir(appID))

	engine, err := webkit.New(opts, decisions, gateway.Handle, log)
	if err != nil {
		return fmt.Errorf("create engine: %w", err)
	}

	log.Info("Hosting web app",
		zap.String("app_id", appID),
		zap.String("url", opts.StartURL),
		zap.Bool("ephemeral", opts.Ephemeral))

	engine.Run()
	return nil
}
