// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of evcon

package view

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
	"go.uber.org/zap"

	"github.com/evcon/evcon/internal/config"
	"github.com/evcon/evcon/internal/dao"
	"github.com/evcon/evcon/internal/resource"
	"github.com/evcon/evcon/internal/ui"
)

const (
	// FlashDelay sets the flash auto-clear delay.
	FlashDelay = 5 * time.Second

	mainPage = "main"
)

// Flash handles flash messages in the application.
type Flash struct {
	*tview.TextView
	app    *App
	cancel context.CancelFunc
	mx     sync.Mutex
}

// NewFlash creates a new Flash instance.
func NewFlash(app *App) *Flash {
	f := &Flash{
		TextView: tview.NewTextView(),
		app:      app,
	}
	f.SetDynamicColors(true)
	f.SetTextAlign(tview.AlignLeft)
	f.SetBorderPadding(0, 0, 1, 1)
	return f
}

// Info displays an informational message.
func (f *Flash) Info(msg string) {
	f.setMessage(resource.LevelInfo, msg)
}

// Infof displays a formatted informational message.
func (f *Flash) Infof(format string, args ...any) {
	f.Info(fmt.Sprintf(format, args...))
}

// Warn displays a warning message.
func (f *Flash) Warn(msg string) {
	f.setMessage(resource.LevelWarn, msg)
}

// Warnf displays a formatted warning message.
func (f *Flash) Warnf(format string, args ...any) {
	f.Warn(fmt.Sprintf(format, args...))
}

// Err displays an error message.
func (f *Flash) Err(err error) {
	if err != nil {
		f.setMessage(resource.LevelError, err.Error())
	}
}

// Errf displays a formatted error message.
func (f *Flash) Errf(format string, args ...any) {
	f.setMessage(resource.LevelError, fmt.Sprintf(format, args...))
}

// Clear clears the flash message.
func (f *Flash) Clear() {
	f.mx.Lock()
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	f.mx.Unlock()

	f.app.QueueUpdateDraw(func() {
		f.TextView.Clear()
	})
}

func (f *Flash) setMessage(level resource.Level, msg string) {
	if msg == "" {
		f.Clear()
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	f.mx.Lock()
	if f.cancel != nil {
		f.cancel()
	}
	f.cancel = cancel
	f.mx.Unlock()

	f.app.QueueUpdateDraw(func() {
		f.TextView.Clear()
		f.SetTextColor(flashColor(level))
		fmt.Fprintf(f.TextView, "%s %s", flashPrefix(level), msg)
	})

	go f.autoClear(ctx)
}

func (f *Flash) autoClear(ctx context.Context) {
	select {
	case <-ctx.Done():
	case <-time.After(FlashDelay):
		f.Clear()
	}
}

func flashColor(level resource.Level) tcell.Color {
	switch level {
	case resource.LevelWarn:
		return tcell.ColorYellow
	case resource.LevelError:
		return tcell.ColorRed
	default:
		return tcell.ColorGreen
	}
}

func flashPrefix(level resource.Level) string {
	switch level {
	case resource.LevelWarn:
		return "[WARN]"
	case resource.LevelError:
		return "[ERROR]"
	default:
		return "[INFO]"
	}
}

// App represents the main application container. It is the prompter the
// grids talk to.
type App struct {
	*tview.Application

	version string
	Main    *tview.Pages
	Content *ui.Pages
	config  *config.Config
	deps    resource.Deps
	log     *zap.Logger
	command *Command
	hotKeys *config.HotKeys
	cmdBar  *ui.CmdBar
	menu    *ui.Menu
	crumbs  *ui.Crumbs
	info    *SessionInfo
	flash   *Flash
	editor  EditorRunner
	ctx     context.Context
	cancel  context.CancelFunc
	running bool
	mx      sync.RWMutex
}

var _ resource.Prompter = (*App)(nil)

// NewApp creates a new application. The prompter of deps is the application.
func NewApp(cfg *config.Config, deps resource.Deps, version string) *App {
	a := App{
		Application: tview.NewApplication(),
		version:     version,
		Main:        tview.NewPages(),
		Content:     ui.NewPages(),
		config:      cfg,
		log:         deps.Log,
		hotKeys:     config.NewHotKeys(),
		cmdBar:      ui.NewCmdBar(),
		menu:        ui.NewMenu(),
		info:        NewSessionInfo(),
	}
	if a.log == nil {
		a.log = zap.NewNop()
	}
	deps.Prompter = &a
	a.deps = deps
	a.flash = NewFlash(&a)
	a.crumbs = ui.NewCrumbs(a.Content.Stack)
	a.editor = SuspendRunner(a.Application)
	a.ctx, a.cancel = context.WithCancel(context.Background())
	a.Content.Stack.AddListener(a.menu)
	a.Content.Stack.AddListener(a.crumbs)

	return &a
}

// Init loads the aliases and hot keys and builds the layout.
func (a *App) Init() error {
	aliases := config.NewAliases()
	if err := aliases.Load(); err != nil {
		a.log.Warn("Unable to load aliases", zap.Error(err))
	}
	if err := a.hotKeys.Load(); err != nil {
		a.log.Warn("Unable to load hot keys", zap.Error(err))
	}
	a.command = NewCommand(a, aliases)
	a.cmdBar.SetCommands(a.command.Names())

	a.cmdBar.SetActiveFn(func(active bool) {
		if active {
			a.SetFocus(a.cmdBar)
			return
		}
		a.focusContent()
	})
	a.cmdBar.SetCommandFn(func(cmd string) {
		if err := a.command.Run(cmd); err != nil {
			a.flash.Err(err)
		}
	})
	a.cmdBar.SetSearchFn(a.search)
	a.cmdBar.SetCancelFn(func() { a.search("") })

	if s, ok := a.deps.Auth.(interface{ Session() dao.UserSession }); ok {
		a.info.SetSession(a.deps.Factory.Tenant(), s.Session(), a.version)
	}
	a.Application.SetInputCapture(a.keyboard)
	a.Application.EnableMouse(a.config.Evcon.UI.EnableMouse)
	a.Main.AddPage(mainPage, a.layout(), true, true)
	a.SetRoot(a.Main, true)

	return nil
}

func (a *App) layout() *tview.Flex {
	header := tview.NewFlex().SetDirection(tview.FlexColumn).
		AddItem(a.info, 40, 0, false).
		AddItem(a.menu, 0, 1, false)

	main := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(header, 7, 0, false).
		AddItem(a.cmdBar, 3, 0, false).
		AddItem(a.Content, 0, 1, true)
	if !a.config.Evcon.UI.Crumbsless {
		main.AddItem(a.crumbs, 1, 0, false)
	}

	return main.AddItem(a.flash, 1, 0, false)
}

// Run shows the start grid and runs the event loop until ctx is done or the
// user quits.
func (a *App) Run(ctx context.Context) error {
	a.mx.Lock()
	a.running = true
	a.mx.Unlock()

	go func() {
		select {
		case <-ctx.Done():
			a.Stop()
		case <-a.ctx.Done():
		}
	}()
	if err := a.command.Run(a.config.Evcon.StartView()); err != nil {
		a.flash.Errf("Unable to show %q: %v", a.config.Evcon.StartView(), err)
		if err := a.command.Run(config.DefaultView); err != nil {
			return err
		}
	}

	defer a.Content.Stack.Clear()

	return a.Application.Run()
}

// Stop stops the application.
func (a *App) Stop() {
	a.mx.Lock()
	defer a.mx.Unlock()

	if !a.running {
		return
	}
	a.running = false
	a.cancel()
	a.Application.Stop()
}

// IsRunning returns whether the application is currently running.
func (a *App) IsRunning() bool {
	a.mx.RLock()
	defer a.mx.RUnlock()

	return a.running
}

// Context is cancelled once the application stops.
func (a *App) Context() context.Context {
	return a.ctx
}

// QueueUpdateDraw queues a function to be executed on the UI thread.
func (a *App) QueueUpdateDraw(fn func()) {
	go a.Application.QueueUpdateDraw(fn)
}

// IsReadOnly returns true when the grids must not change server data.
func (a *App) IsReadOnly() bool {
	return a.config.Evcon.IsReadOnly()
}

// Confirm asks a yes/no question and blocks until the user answered or ctx
// is done.
func (a *App) Confirm(ctx context.Context, title, msg string) bool {
	answer := make(chan bool, 1)
	var dlg *ui.Confirm
	a.QueueUpdateDraw(func() {
		dlg = ui.NewConfirm(a.Main, title, msg, func(yes bool) { answer <- yes })
		dlg.SetDangerous(true)
		dlg.Show()
	})

	select {
	case yes := <-answer:
		return yes
	case <-ctx.Done():
		a.QueueUpdateDraw(func() {
			if dlg != nil {
				dlg.Cancel()
			}
		})
		return false
	}
}

// Flash shows a message in the flash bar.
func (a *App) Flash(level resource.Level, msg string) {
	if level == resource.LevelError {
		a.log.Debug("Flash error", zap.String("message", msg))
	}
	a.flash.setMessage(level, msg)
}

// Edit opens the JSON rendition of in in the external editor and decodes the
// result into out.
func (a *App) Edit(ctx context.Context, title string, in, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s, err := NewEditSession(title, in, a.editor)
	if err != nil {
		return err
	}

	return s.Run(out)
}

// Show pushes a read only view of obj.
func (a *App) Show(title string, obj any) {
	a.QueueUpdateDraw(func() {
		d := NewDetails(title, obj)
		d.SetBackFn(a.back)
		a.inject(d)
	})
}

// inject initializes c and pushes it on the content stack.
func (a *App) inject(c ui.Component) {
	if err := c.Init(a.ctx); err != nil {
		a.flash.Errf("Unable to show %s: %v", c.Name(), err)
		return
	}
	a.Content.Push(c)
	a.focusContent()
}

// back pops the top view, the last one stays.
func (a *App) back() {
	if a.Content.StackSize() > 1 {
		a.Content.Pop()
		a.focusContent()
	}
}

func (a *App) focusContent() {
	if c := a.Content.Current(); c != nil {
		a.SetFocus(c)
		return
	}
	a.SetFocus(a.Content)
}

// RefreshHints redraws the menu from the top view hints.
func (a *App) RefreshHints() {
	if c := a.Content.Current(); c != nil {
		a.menu.HydrateMenu(c.Hints())
	}
}

// Searcher is implemented by views supporting a free text search.
type Searcher interface {
	Search(string)
}

// InputCapturer is implemented by views editing text, global keys are not
// handled while they are on top.
type InputCapturer interface {
	CapturesInput() bool
}

func (a *App) search(text string) {
	if s, ok := a.Content.Current().(Searcher); ok {
		s.Search(text)
	}
}

func (a *App) keyboard(evt *tcell.EventKey) *tcell.EventKey {
	if a.cmdBar.IsActive() {
		return evt
	}
	if name, _ := a.Main.GetFrontPage(); name != mainPage {
		return evt
	}
	if evt.Key() == tcell.KeyCtrlC {
		a.Stop()
		return nil
	}
	if c, ok := a.Content.Current().(InputCapturer); ok && c.CapturesInput() {
		return evt
	}

	switch ui.AsKey(evt) {
	case ui.KeyColon:
		a.cmdBar.Activate(ui.ModeCommand)
		return nil
	case ui.KeySlash:
		if _, ok := a.Content.Current().(Searcher); ok {
			a.cmdBar.Activate(ui.ModeSearch)
		}
		return nil
	case ui.KeyHelp:
		if err := a.command.Run(helpCmd); err != nil {
			a.flash.Err(err)
		}
		return nil
	case ui.KeyQ:
		if a.Content.StackSize() > 1 {
			return evt
		}
		a.Stop()
		return nil
	case tcell.KeyEsc:
		a.back()
		return nil
	}
	if cmd, ok := a.hotKey(evt); ok {
		if err := a.command.Run(cmd); err != nil {
			a.flash.Err(err)
		}
		return nil
	}

	return evt
}

func (a *App) hotKey(evt *tcell.EventKey) (string, bool) {
	name := ui.KeyName(ui.AsKey(evt))
	for _, n := range a.hotKeys.Names() {
		if hk := a.hotKeys.Get(n); hk != nil && hk.ShortCut == name {
			return hk.Command, true
		}
	}

	return "", false
}
