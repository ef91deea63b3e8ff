// Package main lists local subtitle files and loads them into a running
// Kodi instance.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"kodi-localsubs-go/internal/app"
	"kodi-localsubs-go/pkg/config"
	"kodi-localsubs-go/pkg/logging"
	"kodi-localsubs-go/pkg/services"
	"kodi-localsubs-go/pkg/tui"
)

const usage = `usage: localsubs [flags] [list | apply <path> | pick]`

func main() {
	cfg, args, err := config.Parse("localsubs", os.Args[1:], os.Stderr, config.SubtitleFlags)
	if errors.Is(err, flag.ErrHelp) {
		fmt.Fprintln(os.Stderr, usage)
		return
	}
	if err != nil {
		logging.New("info", false, nil).Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	application, err := app.New(cfg)
	if err != nil {
		logging.New(cfg.LogLevel, cfg.LogJSON, nil).Error("failed to initialize application", "error", err)
		os.Exit(1)
	}
	defer application.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, application, args); err != nil {
		application.Ctx.Log.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, a *app.App, args []string) error {
	action := "list"
	if len(args) > 0 {
		action = args[0]
	}
	subs := a.Ctx.Subtitles

	switch action {
	case "list":
		items, err := subs.List(ctx)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		for _, s := range items {
			fmt.Fprintf(w, "%s\t%s\t%s\n", s.Label, s.LangName, s.Path)
		}
		return w.Flush()

	case "apply":
		if len(args) < 2 {
			return fmt.Errorf("apply needs a subtitle path\n%s", usage)
		}
		return subs.Apply(ctx, args[1])

	case "pick":
		items, err := subs.List(ctx)
		if err != nil {
			return err
		}
		title := fmt.Sprintf("%s v%s (%s)", services.NotificationTitle, a.Ctx.Config.AddonVersion, subs.Dir())
		return tui.Run(tui.NewPicker(ctx, title, items, subs.Apply))

	default:
		return fmt.Errorf("unknown action %q\n%s", action, usage)
	}
}
