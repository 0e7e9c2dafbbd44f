package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pelletier/go-toml/v2"

	"github.com/olafkfreund/cosmic-ext-web-apps/internal/config"
	"github.com/olafkfreund/cosmic-ext-web-apps/internal/launcher"
	"github.com/olafkfreund/cosmic-ext-web-apps/internal/logging"
	"github.com/olafkfreund/cosmic-ext-web-apps/internal/policy"
)

const usageText = `usage: webapps <command> [flags]

commands:
  create   create a launcher record
  list     list launcher records
  show     print one launcher record
  delete   delete a launcher record

run "webapps <command> -h" for command flags
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usageText)
		os.Exit(2)
	}

	cfg := config.LoadOrDefault()
	log := logging.NewNop()
	if cfg.Logging.Development {
		log = logging.NewDevelopment()
	}
	store := launcher.NewStore(launcher.DataDir(cfg.Storage.DataDir), log)

	var err error
	switch os.Args[1] {
	case "create":
		err = runCreate(store, os.Args[2:])
	case "list":
		err = runList(store)
	case "show":
		err = runShow(store, os.Args[2:])
	case "delete":
		err = runDelete(store, os.Args[2:])
	case "-h", "--help", "help":
		fmt.Print(usageText)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", os.Args[1], usageText)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func runCreate(store *launcher.Store, args []string) error {
	fs := flag.NewFlagSet("create", flag.ExitOnError)
	name := fs.String("name", "", "Display name (required)")
	rawURL := fs.String("url", "", "Start page URL")
	icon := fs.String("icon", "", "Icon name or path")
	category := fs.String("category", "", "Desktop menu category")

	width := fs.Float64("width", launcher.DefaultWindowWidth, "Window width")
	height := fs.Float64("height", launcher.DefaultWindowHeight, "Window height")
	noDecorations := fs.Bool("no-decorations", false, "Hide window decorations")

	persistent := fs.Bool("persistent", true, "Keep site data between launches")
	private := fs.Bool("private", false, "Always run with an ephemeral session")
	simulateMobile := fs.Bool("simulate-mobile", false, "Report a mobile browser")
	userAgent := fs.String("user-agent", "", "Custom user agent string")

	camera := fs.Bool("camera", false, "Allow camera access")
	microphone := fs.Bool("microphone", false, "Allow microphone access")
	geolocation := fs.Bool("geolocation", false, "Allow geolocation access")
	notifications := fs.Bool("notifications", false, "Forward web notifications to the desktop")

	contentBlocking := fs.Bool("content-blocking", false, "Strip known ad elements")
	blockCookies := fs.Bool("block-third-party-cookies", false, "Drop third-party cookies")
	blockWebRTC := fs.Bool("block-webrtc", false, "Disable WebRTC")

	proxy := fs.String("proxy", "", "Proxy URL for all traffic")
	zoom := fs.Float64("zoom", 1.0, "Page zoom level")
	autoDark := fs.Bool("auto-dark", false, "Request dark color scheme from sites")
	restore := fs.Bool("restore-session", false, "Reopen the last visited page")
	minimize := fs.Bool("minimize-to-background", false, "Keep running when the window closes")
	schemes := fs.String("schemes", "", "Comma-separated extra URL schemes to register")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if strings.TrimSpace(*name) == "" {
		return fmt.Errorf("--name is required")
	}
	if *rawURL != "" && !policy.IsSafeURL(*rawURL) {
		return fmt.Errorf("URL %q is not http or https", *rawURL)
	}

	l := launcher.New(newAppID(*name), *name)
	l.URL = *rawURL
	l.Icon = *icon
	l.Category = *category
	l.Window.Width = *width
	l.Window.Height = *height
	l.Window.Decorations = !*noDecorations
	l.Persistent = *persistent
	l.Privacy.PrivateMode = *private
	l.Privacy.SimulateMobile = *simulateMobile
	if *userAgent != "" {
		l.Privacy.UserAgent = launcher.UserAgent{Kind: launcher.UACustom, Custom: *userAgent}
	}
	l.Permissions = launcher.Permissions{
		Camera:        *camera,
		Microphone:    *microphone,
		Geolocation:   *geolocation,
		Notifications: *notifications,
	}
	l.Content = launcher.ContentPolicy{
		ContentBlocking:        *contentBlocking,
		BlockThirdPartyCookies: *blockCookies,
		BlockWebRTC:            *blockWebRTC,
	}
	l.ProxyURL = *proxy
	l.Rendering.ZoomLevel = *zoom
	l.Rendering.AutoDarkMode = *autoDark
	l.Session.RestoreSession = *restore
	l.Session.MinimizeToBackground = *minimize
	l.URLSchemes = launcher.ParseSchemes(*schemes)

	if err := store.Save(l); err != nil {
		return err
	}
	fmt.Println(l.AppID)
	return nil
}

func runList(store *launcher.Store) error {
	apps, err := store.List()
	if err != nil {
		return err
	}
	if len(apps) == 0 {
		fmt.Println("no web apps configured")
		return nil
	}
	for _, l := range apps {
		last := "never"
		if l.Usage.LastLaunched > 0 {
			last = time.Unix(l.Usage.LastLaunched, 0).Format("2006-01-02 15:04")
		}
		fmt.Printf("%-24s %-24s launches=%d last=%s\n", l.AppID, l.Title(), l.Usage.LaunchCount, last)
	}
	return nil
}

func runShow(store *launcher.Store, args []string) error {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: webapps show <app-id>")
	}
	l, err := store.Load(fs.Arg(0))
	if err != nil {
		return err
	}
	out, err := toml.Marshal(l)
	if err != nil {
		return err
	}
	fmt.Print(string(out))
	return nil
}

func runDelete(store *launcher.Store, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	wipe := fs.Bool("data", false, "Also remove the app's site data profile")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: webapps delete [--data] <app-id>")
	}
	appID := fs.Arg(0)
	if *wipe {
		if err := store.ClearData(appID); err != nil {
			return err
		}
	}
	return store.Delete(appID)
}

// newAppID derives a stable id from the display name plus a short random
// suffix so two apps may share a name.
func newAppID(name string) string {
	stem := launcher.SanitizeAppID(strings.ReplaceAll(strings.ToLower(name), " ", "-"))
	if stem == "" {
		stem = "webapp"
	}
	return stem + "-" + uuid.NewString()[:8]
}
