// Package app wires one editor session together: configuration, logging,
// the terminal device, the config watcher, and the main event loop.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"

	"github.com/edvik/inkwell/internal/config"
	"github.com/edvik/inkwell/internal/editor"
	"github.com/edvik/inkwell/internal/script"
	"github.com/edvik/inkwell/internal/terminal"
)

// Name is the program name shown in the welcome banner.
const Name = "inkwell"

// Version is stamped by the build.
var Version = "0.1.0"

// ErrQuit reports a user-requested exit. Run returns it on a normal quit
// and main treats it as a clean exit.
var ErrQuit = editor.ErrQuit

// Options configures the application.
type Options struct {
	// ConfigPath overrides the default configuration file location.
	ConfigPath string

	// LogFile overrides the log destination from config.
	LogFile string

	// LogLevel overrides the log verbosity from config.
	LogLevel string

	// File is opened on startup when set.
	File string
}

// App coordinates one editor session. All editor state is mutated on the
// event-loop goroutine; the only other goroutines are the config watcher
// and its bridge, which feed back in through the terminal event queue.
type App struct {
	opts Options

	cfg      *config.Config
	cfgPath  string
	keymap   config.Keymap
	bindings terminal.Bindings

	logger  *Logger
	logFile *os.File

	device  *terminal.Device
	editor  *editor.Editor
	watcher *config.Watcher

	started      atomic.Bool
	shutdownOnce sync.Once
}

// New loads configuration, the keymap, and the init script, and prepares
// logging. Everything degrades to defaults rather than failing: a broken
// config file must never prevent editing. The terminal is not touched
// until Run.
func New(opts Options) (*App, error) {
	a := &App{opts: opts}

	var pathErr error
	a.cfgPath = opts.ConfigPath
	if a.cfgPath == "" {
		a.cfgPath, pathErr = config.DefaultPath()
	}

	var cfgErr error
	if a.cfgPath != "" {
		a.cfg, cfgErr = config.Load(a.cfgPath)
	} else {
		a.cfg = config.Default()
	}

	var keymapErr error
	a.keymap = config.DefaultKeymap()
	if a.cfgPath != "" {
		a.keymap, keymapErr = config.LoadKeymap(filepath.Join(filepath.Dir(a.cfgPath), "keymap.yaml"))
	}

	var scriptErr error
	if a.cfgPath != "" {
		scriptErr = script.RunInit(a.cfg, filepath.Join(filepath.Dir(a.cfgPath), "init.lua"))
	}

	a.setupLogging()

	if pathErr != nil {
		a.logger.Warn("no user config dir, using built-in defaults: %v", pathErr)
	}
	if cfgErr != nil {
		a.logger.Warn("config fell back to defaults: %v", cfgErr)
	}
	if keymapErr != nil {
		a.logger.Warn("keymap fell back to defaults: %v", keymapErr)
	}
	if scriptErr != nil {
		a.logger.Warn("init script failed: %v", scriptErr)
	}

	bindings, err := terminal.CompileKeymap(a.keymap)
	if err != nil {
		a.logger.Warn("keymap rejected, using defaults: %v", err)
		a.keymap = config.DefaultKeymap()
		bindings = terminal.DefaultBindings()
	}
	a.bindings = bindings

	a.logger.Info("starting %s %s", Name, Version)
	return a, nil
}

// setupLogging opens the log file. The tty is the editor surface, so when
// no file can be opened logging is disabled rather than spilled to stderr.
func (a *App) setupLogging() {
	level := a.cfg.Log.Level
	if a.opts.LogLevel != "" {
		level = a.opts.LogLevel
	}
	path := a.cfg.Log.File
	if a.opts.LogFile != "" {
		path = a.opts.LogFile
	}
	if path == "" {
		path = defaultLogPath()
	}

	a.logger = NullLogger
	if path == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	a.logFile = f
	a.logger = NewLogger(f, ParseLogLevel(level)).WithField("session", uuid.NewString())
}

// defaultLogPath is the user cache location, or empty when the environment
// provides no cache dir.
func defaultLogPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "inkwell", "inkwell.log")
}

// SetDevice injects the terminal device. Tests pass a simulation-backed
// device; main passes the real terminal.
func (a *App) SetDevice(d *terminal.Device) { a.device = d }

// Run takes over the terminal and processes events until the user quits.
// It returns editor.ErrQuit on a normal quit.
func (a *App) Run() error {
	if err := a.start(); err != nil {
		return err
	}
	defer a.Shutdown()
	return a.loop()
}

// start initializes the terminal and builds the editor session.
func (a *App) start() error {
	if a.device == nil {
		d, err := terminal.New()
		if err != nil {
			return err
		}
		a.device = d
	}
	if err := a.device.Init(); err != nil {
		return fmt.Errorf("initializing terminal: %w", err)
	}
	a.started.Store(true)

	a.editor = editor.New(a.device, editor.Options{
		Welcome:           fmt.Sprintf("%s editor -- version %s", Name, Version),
		Theme:             terminal.NewTheme(a.cfg.Theme),
		Keymap:            a.keymap,
		QuitConfirmations: a.cfg.Editor.QuitConfirmations,
	})
	if a.opts.File != "" {
		a.editor.Load(a.opts.File)
		a.logger.Info("opened %s", a.opts.File)
	}

	a.startWatcher()
	a.logger.Info("session started")
	return nil
}

// loop is one blocking event read per turn, fully processed before the
// next read.
func (a *App) loop() error {
	for {
		a.editor.Refresh()
		ev := a.device.PollEvent()
		if ev == nil {
			return nil
		}
		if err := a.handleEvent(ev); err != nil {
			return err
		}
	}
}

// handleEvent routes one terminal event. Reload events are synthetic,
// posted by the watcher bridge; everything else decodes to a command.
func (a *App) handleEvent(ev tcell.Event) error {
	if re, ok := ev.(*terminal.ConfigReloadEvent); ok {
		a.applyConfig(re.Config())
		return nil
	}
	cmd, ok := terminal.Decode(ev, a.bindings)
	if !ok {
		return nil
	}
	return a.editor.Process(cmd)
}

// applyConfig applies a reloaded configuration. The keymap file is not
// watched, so bindings stay as they were at startup.
func (a *App) applyConfig(cfg *config.Config) {
	a.cfg = cfg
	if a.opts.LogLevel == "" {
		a.logger.SetLevel(ParseLogLevel(cfg.Log.Level))
	}
	a.editor.SetTheme(terminal.NewTheme(cfg.Theme))
	a.editor.SetQuitConfirmations(cfg.Editor.QuitConfirmations)
	a.logger.Info("configuration reloaded")
}

// startWatcher begins config hot reload. Watch failures are logged and
// the session continues without reload.
func (a *App) startWatcher() {
	if a.cfgPath == "" {
		return
	}
	w, err := config.Watch(a.cfgPath)
	if err != nil {
		a.logger.Warn("config watch unavailable: %v", err)
		return
	}
	a.watcher = w
	go a.forwardReloads(w)
}

// forwardReloads turns watcher deliveries into terminal events so config
// changes are applied on the event-loop goroutine, one per turn.
func (a *App) forwardReloads(w *config.Watcher) {
	log := a.logger.WithComponent("config-watcher")
	reloads, errs := w.Reloads(), w.Errors()
	for reloads != nil || errs != nil {
		select {
		case cfg, ok := <-reloads:
			if !ok {
				reloads = nil
				continue
			}
			a.device.PostReload(cfg)
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			log.Warn("reload failed: %v", err)
		}
	}
}

// Shutdown releases the terminal and stops background work. It is safe to
// call from a signal handler and more than once.
func (a *App) Shutdown() {
	a.shutdownOnce.Do(func() {
		if a.watcher != nil {
			_ = a.watcher.Close()
		}
		if a.started.Load() && a.device != nil {
			a.device.Fini()
		}
		a.logger.Info("session ended")
		if a.logFile != nil {
			_ = a.logFile.Close()
		}
	})
}
