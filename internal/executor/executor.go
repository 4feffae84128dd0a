package executor

import (
	"context"
	"fmt"
	"time"

	"gameday-assistant/internal/command"
	"gameday-assistant/internal/types"
)

// Navigator dispatches navigation by route name.
type Navigator interface {
	IsReady() bool
	Navigate(route string, params map[string]any)
}

// AppState mutates app mode.
type AppState interface {
	EnterGameDay(intent string)
	ExitGameDay()
	GoToPhase(phase string)
	SetNewsFilter(filter string)
	SetShopCategory(category string)
}

// Route names and tabs the executor navigates to.
const (
	RouteMain          = "Main"
	RouteLiveOpsDetail = "LiveOpsDetail"
	RouteGameDayHome   = "GameDayHome"

	TabHome   = "Home"
	TabTicket = "Ticket"
	TabNews   = "News"
	TabShop   = "Shop"
	TabStats  = "Stats"

	ScreenDashboard = "Dashboard"
)

// DefaultFlipDelay is how long ticket.flipPass waits before signalling the
// ticket screen, leaving time for the tab transition.
const DefaultFlipDelay = 350 * time.Millisecond

var phaseScreens = map[string]string{
	"journey": "GameDayJourney",
	"arrival": "GameDayArrival",
	"entry":   "GameDayEntry",
	"live":    "GameDayLive",
	"post":    "GameDayPost",
}

// PhaseScreen maps a game day intent or phase to its screen, defaulting to
// the game day hub.
func PhaseScreen(phase string) string {
	if s, ok := phaseScreens[phase]; ok {
		return s
	}
	return RouteGameDayHome
}

// Result is the outcome of executing one action. Execute never returns a Go
// error; failures are reported here so one bad action cannot abort a batch.
type Result struct {
	OK      bool   `json:"ok"`
	Error   string `json:"error,omitempty"`
	Blocked bool   `json:"blocked,omitempty"`
}

// Deps are the collaborators an Executor acts on.
type Deps struct {
	Navigator Navigator
	AppState  AppState
	Flip      *FlipBridge
	Scheduler Scheduler
	FlipDelay time.Duration
}

type handler func(ctx context.Context, a types.Action) Result

// Executor maps action types to side effects.
type Executor struct {
	deps     Deps
	handlers map[string]handler
}

func New(deps Deps) *Executor {
	if deps.Flip == nil {
		deps.Flip = NewFlipBridge()
	}
	if deps.Scheduler == nil {
		deps.Scheduler = TimerScheduler{}
	}
	if deps.FlipDelay <= 0 {
		deps.FlipDelay = DefaultFlipDelay
	}
	e := &Executor{deps: deps}
	e.handlers = map[string]handler{
		command.NavigateHome:      e.tab(TabHome),
		command.NavigateTicket:    e.tab(TabTicket),
		command.NavigateNews:      e.tab(TabNews),
		command.NavigateShop:      e.tab(TabShop),
		command.NavigateStats:     e.tab(TabStats),
		command.OpenLiveOpsDetail: e.openLiveOps,
		command.GameDayEnter:      e.enterGameDay,
		command.GameDayExit:       e.exitGameDay,
		command.GameDayGoToPhase:  e.goToPhase,
		command.TicketFlipPass:    e.flipPass,
		command.NewsSetFilter:     e.setNewsFilter,
		command.ShopSetCategory:   e.setShopCategory,
	}
	return e
}

// Flip returns the bridge ticket.flipPass signals through.
func (e *Executor) Flip() *FlipBridge { return e.deps.Flip }

// Execute runs a. Unknown types yield an unsupported-command result.
func (e *Executor) Execute(ctx context.Context, a types.Action) Result {
	h, ok := e.handlers[a.Type]
	if !ok {
		return Result{OK: false, Error: "Unsupported command: " + a.Type}
	}
	if err := ctx.Err(); err != nil {
		return Result{OK: false, Error: err.Error()}
	}
	return h(ctx, a)
}

func (e *Executor) navigate(route string, params map[string]any) bool {
	nav := e.deps.Navigator
	if nav == nil || !nav.IsReady() {
		return false
	}
	nav.Navigate(route, params)
	return true
}

func (e *Executor) navigateTab(tab string) bool {
	params := map[string]any{"screen": tab}
	if tab == TabHome {
		params["params"] = map[string]any{"screen": ScreenDashboard}
	}
	return e.navigate(RouteMain, params)
}

func navResult(ok bool) Result {
	if !ok {
		return Result{OK: false, Error: "Navigator not ready"}
	}
	return Result{OK: true}
}

func (e *Executor) tab(tab string) handler {
	return func(context.Context, types.Action) Result {
		return navResult(e.navigateTab(tab))
	}
}

func (e *Executor) openLiveOps(_ context.Context, a types.Action) Result {
	opID, ok := a.PayloadString("opId")
	if !ok {
		opID = "parking"
	}
	return navResult(e.navigate(RouteLiveOpsDetail, map[string]any{"opId": opID}))
}

func (e *Executor) enterGameDay(_ context.Context, a types.Action) Result {
	intent, ok := a.PayloadString("intent")
	if !ok {
		intent = "journey"
	}
	if st := e.deps.AppState; st != nil {
		st.EnterGameDay(intent)
	}
	return navResult(e.navigate(PhaseScreen(intent), nil))
}

func (e *Executor) exitGameDay(context.Context, types.Action) Result {
	if st := e.deps.AppState; st != nil {
		st.ExitGameDay()
	}
	return navResult(e.navigateTab(TabHome))
}

func (e *Executor) goToPhase(_ context.Context, a types.Action) Result {
	phase, ok := a.PayloadString("phase")
	if !ok {
		return Result{OK: false, Error: "Missing phase"}
	}
	if st := e.deps.AppState; st != nil {
		st.GoToPhase(phase)
	}
	return navResult(e.navigate(PhaseScreen(phase), nil))
}

// flipPass opens the ticket tab and, after FlipDelay, signals the ticket
// screen through the bridge. It succeeds if either half can take effect.
func (e *Executor) flipPass(context.Context, types.Action) Result {
	navigated := e.navigateTab(TabTicket)
	bridge := e.deps.Flip
	e.deps.Scheduler.AfterFunc(e.deps.FlipDelay, func() { bridge.Trigger() })
	if navigated || bridge.Installed() {
		return Result{OK: true}
	}
	return Result{OK: false, Error: "Navigator not ready"}
}

func (e *Executor) setNewsFilter(_ context.Context, a types.Action) Result {
	filter, ok := a.PayloadString("filter")
	if !ok {
		filter = "All"
	}
	if st := e.deps.AppState; st != nil {
		st.SetNewsFilter(filter)
	}
	return navResult(e.navigateTab(TabNews))
}

func (e *Executor) setShopCategory(_ context.Context, a types.Action) Result {
	category, ok := a.PayloadString("category")
	if !ok {
		category = "All"
	}
	if st := e.deps.AppState; st != nil {
		st.SetShopCategory(category)
	}
	return navResult(e.navigateTab(TabShop))
}

func (r Result) String() string {
	switch {
	case r.Blocked:
		return "blocked"
	case r.OK:
		return "ok"
	default:
		return fmt.Sprintf("failed: %s", r.Error)
	}
}
