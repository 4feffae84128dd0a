// Package assistant drives one conversation: it records turns, asks a
// responder for a reply, gates the returned actions through the risk policy
// and runs the approved ones in order.
package assistant

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"gameday-assistant/internal/command"
	"gameday-assistant/internal/executor"
	"gameday-assistant/internal/policy"
	"gameday-assistant/internal/responder"
	"gameday-assistant/internal/snapshot"
	"gameday-assistant/internal/telemetry"
	"gameday-assistant/internal/types"
)

// OfflineMessage is the advisory shown when the remote responder failed and
// the local one answered instead.
const OfflineMessage = "Assistant is offline, showing quick suggestions instead."

const (
	DefaultCooldown     = 10 * time.Minute
	DefaultDisplayLimit = 30
)

// FieldSource provides the current app state a snapshot is built from.
type FieldSource interface {
	Fields() snapshot.Fields
}

// Deps are the collaborators of an Assistant. Local defaults to the mock
// responder.
type Deps struct {
	Remote    responder.Responder
	Local     responder.Responder
	Navigator executor.Navigator
	AppState  executor.AppState
	Source    FieldSource
}

// State is the externally visible status of the assistant.
type State struct {
	Enabled          bool                     `json:"enabled"`
	Visible          bool                     `json:"visible"`
	Thinking         bool                     `json:"thinking"`
	Unread           bool                     `json:"unread"`
	LastError        string                   `json:"lastError,omitempty"`
	LastResponse     *types.AssistantResponse `json:"lastResponse,omitempty"`
	ProactiveEnabled bool                     `json:"proactiveEnabled"`
	HistorySize      int                      `json:"historySize"`
}

// ActionOutcome reports a user-triggered action.
type ActionOutcome struct {
	OK      bool         `json:"ok"`
	Blocked bool         `json:"blocked,omitempty"`
	Error   string       `json:"error,omitempty"`
	Action  types.Action `json:"action"`
}

type Assistant struct {
	mu           sync.Mutex
	history      []types.ConversationEntry
	enabled      bool
	visible      bool
	thinking     bool
	unread       bool
	lastError    string
	lastResponse *types.AssistantResponse
	proactive    bool

	displayLimit int
	cooldown     time.Duration
	limiter      *rate.Limiter

	remote    responder.Responder
	local     responder.Responder
	source    FieldSource
	exec      *executor.Executor
	flip      *executor.FlipBridge
	scheduler executor.Scheduler
	flipDelay time.Duration

	sessionID string
	logger    *zap.Logger
	sink      telemetry.Sink
	now       func() time.Time
}

type Option func(*Assistant)

func WithLogger(l *zap.Logger) Option { return func(a *Assistant) { a.logger = l } }

func WithSink(s telemetry.Sink) Option { return func(a *Assistant) { a.sink = s } }

// WithClock replaces time.Now for entry timestamps, action ids and the
// proactive cooldown.
func WithClock(now func() time.Time) Option { return func(a *Assistant) { a.now = now } }

// WithCooldown sets the minimum gap between proactive suggestions. Zero or
// less disables the gap.
func WithCooldown(d time.Duration) Option { return func(a *Assistant) { a.cooldown = d } }

func WithDisplayLimit(n int) Option { return func(a *Assistant) { a.displayLimit = n } }

func WithEnabled(v bool) Option { return func(a *Assistant) { a.enabled = v } }

func WithProactive(v bool) Option { return func(a *Assistant) { a.proactive = v } }

func WithSessionID(id string) Option { return func(a *Assistant) { a.sessionID = id } }

func WithScheduler(s executor.Scheduler) Option { return func(a *Assistant) { a.scheduler = s } }

func WithFlipDelay(d time.Duration) Option { return func(a *Assistant) { a.flipDelay = d } }

func New(deps Deps, opts ...Option) *Assistant {
	a := &Assistant{
		enabled:      true,
		proactive:    true,
		displayLimit: DefaultDisplayLimit,
		cooldown:     DefaultCooldown,
		remote:       deps.Remote,
		local:        deps.Local,
		source:       deps.Source,
		flip:         executor.NewFlipBridge(),
		logger:       zap.NewNop(),
		sink:         telemetry.Nop{},
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.local == nil {
		a.local = responder.NewMockResponder()
	}
	if a.remote == nil {
		a.remote = a.local
	}
	limit := rate.Inf
	if a.cooldown > 0 {
		limit = rate.Every(a.cooldown)
	}
	a.limiter = rate.NewLimiter(limit, 1)
	a.exec = executor.New(executor.Deps{
		Navigator: deps.Navigator,
		AppState:  deps.AppState,
		Flip:      a.flip,
		Scheduler: a.scheduler,
		FlipDelay: a.flipDelay,
	})
	return a
}

// Flip returns the bridge the ticket screen registers its flip handler on.
func (a *Assistant) Flip() *executor.FlipBridge { return a.flip }

// Snapshot builds a fresh snapshot from the current app state.
func (a *Assistant) Snapshot() snapshot.AppSnapshot {
	var f snapshot.Fields
	if a.source != nil {
		f = a.source.Fields()
	}
	return snapshot.Build(f)
}

// SendInput runs one turn and returns the shaped reply, or nil when the
// assistant is disabled. It never fails: a remote error falls back to the
// local responder and sets an advisory LastError.
//
// Overlapping calls are not serialized. User entries keep submission order,
// assistant entries land in resolution order, and the first call to finish
// clears Thinking.
func (a *Assistant) SendInput(ctx context.Context, in types.Input) *types.AssistantResponse {
	in = in.Normalized()

	a.mu.Lock()
	if !a.enabled {
		a.mu.Unlock()
		return nil
	}
	a.lastError = ""
	a.thinking = true
	a.unread = false
	a.history = append(a.history, a.newEntryLocked(types.RoleUser, in.Mode, summarize(in)))
	a.mu.Unlock()

	snap := a.Snapshot()
	req := responder.Request{Input: in, Snapshot: snap}

	resp, err := a.remote.Respond(ctx, req)
	if err != nil {
		a.logger.Warn("remote responder failed, using local", zap.Error(err))
		a.emit(ctx, telemetry.ProxyFallback, telemetry.WithSnapshot(map[string]any{"mode": string(in.Mode)}, &snap))
		resp, err = a.local.Respond(ctx, req)
		if err != nil {
			a.logger.Error("local responder failed", zap.Error(err))
		}
		a.mu.Lock()
		a.lastError = OfflineMessage
		a.mu.Unlock()
	} else {
		a.emit(ctx, telemetry.ProxySuccess, telemetry.WithSnapshot(map[string]any{"mode": string(in.Mode)}, &snap))
	}

	shaped := resp.Shaped()
	for i, act := range shaped.Actions {
		shaped.Actions[i] = a.prepare(act)
	}

	a.mu.Lock()
	entry := a.newEntryLocked(types.RoleAssistant, types.ModeText, shaped.Message)
	entry.Cards = shaped.Cards
	entry.Actions = shaped.Actions
	a.history = append(a.history, entry)
	last := shaped
	a.lastResponse = &last
	a.mu.Unlock()

	for _, act := range shaped.Actions {
		if !policy.CanAutoExecute(act) {
			continue
		}
		res := a.exec.Execute(ctx, act)
		a.logger.Debug("auto-executed action",
			zap.String("type", act.Type), zap.Stringer("result", res))
		a.emitAction(ctx, telemetry.ActionExecuted, act, res)
	}

	a.mu.Lock()
	a.thinking = false
	a.mu.Unlock()
	a.Observe()

	return &shaped
}

// ExecuteAction runs a user-selected action. The action is enriched again and
// refused when the policy requires confirmation.
func (a *Assistant) ExecuteAction(ctx context.Context, act types.Action) ActionOutcome {
	d := policy.Decide(a.prepare(act))
	if d.Block {
		a.emitAction(ctx, telemetry.ActionBlocked, d.Action, executor.Result{Blocked: true})
		return ActionOutcome{OK: false, Blocked: true, Action: d.Action}
	}
	res := a.exec.Execute(ctx, d.Action)
	a.emitAction(ctx, telemetry.ActionExecuted, d.Action, res)
	return ActionOutcome{OK: res.OK, Error: res.Error, Action: d.Action}
}

// prepare resolves policy first so that the defaults filled in by
// normalization cannot mark a sensitive action as low risk.
func (a *Assistant) prepare(act types.Action) types.Action {
	return command.NormalizeAt(policy.Enrich(act), a.now())
}

// Observe offers a proactive suggestion for the current screen. It is called
// on every relevant state change and fires at most once per cooldown window.
func (a *Assistant) Observe() {
	a.mu.Lock()
	ready := a.enabled && a.proactive && !a.thinking
	a.mu.Unlock()
	if !ready {
		return
	}

	snap := a.Snapshot()
	sug := snapshot.ProactiveSuggestion(&snap)
	if sug == nil {
		return
	}

	a.mu.Lock()
	if !a.enabled || !a.proactive || a.thinking || !a.limiter.AllowN(a.now(), 1) {
		a.mu.Unlock()
		return
	}
	entry := a.newEntryLocked(types.RoleAssistant, types.ModeText, sug.Message)
	entry.Cards = sug.Cards
	entry.Actions = make([]types.Action, 0, len(sug.Actions))
	for _, act := range sug.Actions {
		entry.Actions = append(entry.Actions, a.prepare(act))
	}
	entry.Proactive = true
	a.history = append(a.history, entry)
	a.unread = true
	a.mu.Unlock()

	a.emit(context.Background(), telemetry.ProactiveSuggestion,
		telemetry.WithSnapshot(map[string]any{"actions": len(entry.Actions)}, &snap))
}

func (a *Assistant) Open() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.visible = true
}

func (a *Assistant) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.visible = false
}

// ClearHistory empties the conversation. The proactive cooldown is kept.
func (a *Assistant) ClearHistory() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.history = nil
	a.lastResponse = nil
	a.lastError = ""
	a.unread = false
}

func (a *Assistant) SetProactiveEnabled(v bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.proactive = v
}

func (a *Assistant) SetEnabled(v bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = v
}

func (a *Assistant) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return State{
		Enabled:          a.enabled,
		Visible:          a.visible,
		Thinking:         a.thinking,
		Unread:           a.unread,
		LastError:        a.lastError,
		LastResponse:     a.lastResponse,
		ProactiveEnabled: a.proactive,
		HistorySize:      len(a.history),
	}
}

// History returns at most the display limit of most recent entries.
func (a *Assistant) History() []types.ConversationEntry {
	a.mu.Lock()
	defer a.mu.Unlock()
	h := a.history
	if a.displayLimit > 0 && len(h) > a.displayLimit {
		h = h[len(h)-a.displayLimit:]
	}
	return append([]types.ConversationEntry(nil), h...)
}

func (a *Assistant) FullHistory() []types.ConversationEntry {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]types.ConversationEntry(nil), a.history...)
}

func (a *Assistant) newEntryLocked(role types.Role, mode types.Mode, text string) types.ConversationEntry {
	return types.ConversationEntry{
		ID:        uuid.NewString(),
		Role:      role,
		Mode:      mode,
		Text:      text,
		Cards:     []types.Card{},
		CreatedAt: a.now(),
	}
}

func summarize(in types.Input) string {
	if strings.TrimSpace(in.Text) != "" {
		return in.Text
	}
	switch in.Mode {
	case types.ModeVoice:
		return "[voice message]"
	case types.ModeImage:
		return "[image]"
	}
	return in.Text
}

func (a *Assistant) emit(ctx context.Context, name string, fields map[string]any) {
	a.sink.Emit(ctx, telemetry.Event{Name: name, SessionID: a.sessionID, At: a.now(), Fields: fields})
}

func (a *Assistant) emitAction(ctx context.Context, name string, act types.Action, res executor.Result) {
	fields := telemetry.ActionFields(act)
	fields["ok"] = res.OK
	if res.Error != "" {
		fields["error"] = res.Error
	}
	snap := a.Snapshot()
	a.emit(ctx, name, telemetry.WithSnapshot(fields, &snap))
}
