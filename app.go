package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"batterytext/internal/anim"
	"batterytext/internal/config"
	"batterytext/internal/indicator"
	"batterytext/internal/logging"
	"batterytext/internal/service"
	"batterytext/internal/service/battery"
	"batterytext/internal/settings"
	"batterytext/internal/ui"
)

// textScale enlarges the battery text relative to the theme text size.
const textScale = 1.5

// sources opens the settings store and the battery controller, both
// delivering their callbacks through dispatch.
func sources(ctx context.Context, conf *config.Config, log zerolog.Logger, dispatch func(func())) (*settings.File, *battery.Controller, battery.Reader, error) {
	path, err := conf.SettingsPath()
	if err != nil {
		return nil, nil, nil, err
	}
	store, err := settings.OpenFile(path,
		settings.WithDispatcher(dispatch),
		settings.WithLogger(log.With().Str("component", "settings").Logger()))
	if err != nil {
		return nil, nil, nil, err
	}

	reader, err := service.NewReader(ctx, conf)
	if err != nil {
		return nil, nil, nil, err
	}
	ctl := battery.NewController(reader,
		battery.WithInterval(conf.Interval()),
		battery.WithDispatcher(dispatch),
		battery.WithLogger(log.With().Str("component", "battery").Logger()))
	return store, ctl, reader, nil
}

// attach binds w to its sources and starts following the colour settings.
// The returned func undoes it.
func attach(w *indicator.Widget, conf *config.Config, store settings.Store, ctl *battery.Controller, header *ui.Header) func() {
	w.SetForceShown(conf.ForceShow)
	w.SetBatteryStateRegistrar(ctl)
	w.OnAttached()
	w.SetTextColor(header.Get())
	stopColors := ui.FollowColors(store, w, header)
	return func() {
		stopColors()
		w.OnDetached()
	}
}

func runGUI(conf *config.Config, confPath string, log zerolog.Logger, hide bool) error {
	ctx, cancel := context.WithCancel(logging.WithContext(context.Background(), log))
	defer cancel()

	myApp := app.NewWithID("com.batterytext.indicator")
	myWindow := myApp.NewWindow("Battery Text")

	myApp.SetIcon(resourceIconSvg)
	myWindow.SetIcon(resourceIconSvg)

	if desk, ok := myApp.(desktop.App); ok {
		menu := fyne.NewMenu("Battery Text",
			fyne.NewMenuItem("Display", func() { myWindow.Show() }),
			fyne.NewMenuItem("Quit", func() { myApp.Quit() }),
		)
		desk.SetSystemTrayMenu(menu)
		desk.SetSystemTrayIcon(resourceIconSvg)
	}

	myWindow.SetCloseIntercept(func() {
		myWindow.Hide()
	})

	store, ctl, reader, err := sources(ctx, conf, log, fyne.Do)
	if err != nil {
		return err
	}
	defer func() {
		if err := service.CloseReader(reader); err != nil {
			log.Debug().Err(err).Msg("Error closing battery reader")
		}
	}()

	users := settings.CurrentUser{}
	view := ui.NewTextView()
	w := indicator.New(view, store, users, ui.Scheduler{},
		indicator.WithLogger(log.With().Str("component", "indicator").Logger()),
		indicator.WithLocale(conf.Language()),
		indicator.WithResources(ui.ThemeResources{Scale: textScale}))

	header := ui.NewHeader(conf.Header)
	detach := attach(w, conf, store, ctl, header)
	defer detach()

	state := ui.NewAppState()
	ctl.AddStateChangedCallback(state)
	defer ctl.RemoveStateChangedCallback(state)

	panel := &ui.Panel{
		Widget:   w,
		View:     view,
		State:    state,
		Store:    store,
		Users:    users,
		Conf:     conf,
		ConfPath: confPath,
		Log:      log,
	}
	myWindow.SetContent(container.NewPadded(panel.CreateContent(header)))
	myWindow.Resize(fyne.NewSize(320, 480))

	settingsChanged := make(chan fyne.Settings, 1)
	myApp.Settings().AddChangeListener(settingsChanged)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-settingsChanged:
				fyne.Do(w.OnConfigurationChanged)
			}
		}
	}()

	go func() {
		if err := service.Run(ctx, ctl, store); err != nil {
			log.Error().Err(err).Msg("Service loop stopped")
		}
	}()

	if hide {
		myApp.Run()
	} else {
		myWindow.ShowAndRun()
	}
	return nil
}

func runCLI(conf *config.Config, log zerolog.Logger, out io.Writer) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logging.WithContext(ctx, log)

	loop := service.NewEventLoop(64)
	store, ctl, reader, err := sources(ctx, conf, log, loop.Dispatch)
	if err != nil {
		return err
	}
	defer func() { _ = service.CloseReader(reader) }()

	// Nothing runs concurrently with the widget until the loops start, so
	// it is set up here and only touched from the event loop afterwards.
	w := indicator.New(ui.NewTerminalView(out), store, settings.CurrentUser{}, anim.NewTicker(loop.Dispatch),
		indicator.WithLogger(log.With().Str("component", "indicator").Logger()),
		indicator.WithLocale(conf.Language()))
	detach := attach(w, conf, store, ctl, ui.NewHeader(conf.Header))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return loop.Run(ctx) })
	g.Go(func() error { return service.Run(ctx, ctl, store) })
	err = g.Wait()

	detach()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
