package executor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"gameday-assistant/internal/command"
	"gameday-assistant/internal/types"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type navCall struct {
	Route  string
	Params map[string]any
}

type fakeNav struct {
	ready bool
	calls []navCall
}

func (n *fakeNav) IsReady() bool { return n.ready }

func (n *fakeNav) Navigate(route string, params map[string]any) {
	n.calls = append(n.calls, navCall{Route: route, Params: params})
}

type fakeState struct {
	calls []string
}

func (s *fakeState) EnterGameDay(intent string) {
	s.calls = append(s.calls, "enter:"+intent)
}

func (s *fakeState) ExitGameDay() {
	s.calls = append(s.calls, "exit")
}

func (s *fakeState) GoToPhase(phase string) {
	s.calls = append(s.calls, "phase:"+phase)
}

func (s *fakeState) SetNewsFilter(f string) {
	s.calls = append(s.calls, "news:"+f)
}

func (s *fakeState) SetShopCategory(c string) {
	s.calls = append(s.calls, "shop:"+c)
}

func newTestExecutor(ready bool) (*Executor, *fakeNav, *fakeState, *ManualScheduler) {
	nav := &fakeNav{ready: ready}
	st := &fakeState{}
	sched := NewManualScheduler()
	ex := New(Deps{Navigator: nav, AppState: st, Scheduler: sched})
	return ex, nav, st, sched
}

func TestNavigateTabs(t *testing.T) {
	tests := []struct {
		typ string
		tab string
	}{
		{command.NavigateTicket, TabTicket},
		{command.NavigateNews, TabNews},
		{command.NavigateShop, TabShop},
		{command.NavigateStats, TabStats},
	}
	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			ex, nav, _, _ := newTestExecutor(true)
			res := ex.Execute(context.Background(), types.Action{Type: tt.typ})
			assert.True(t, res.OK)
			require.Len(t, nav.calls, 1)
			assert.Equal(t, RouteMain, nav.calls[0].Route)
			assert.Equal(t, tt.tab, nav.calls[0].Params["screen"])
		})
	}
}

func TestNavigateHomeIsNested(t *testing.T) {
	ex, nav, _, _ := newTestExecutor(true)
	res := ex.Execute(context.Background(), types.Action{Type: command.NavigateHome})
	assert.True(t, res.OK)
	require.Len(t, nav.calls, 1)
	assert.Equal(t, TabHome, nav.calls[0].Params["screen"])
	assert.Equal(t, map[string]any{"screen": ScreenDashboard}, nav.calls[0].Params["params"])
}

func TestNavigatorNotReady(t *testing.T) {
	ex, nav, _, _ := newTestExecutor(false)
	res := ex.Execute(context.Background(), types.Action{Type: command.NavigateStats})
	assert.False(t, res.OK)
	assert.Empty(t, nav.calls)
}

func TestOpenLiveOpsDetail(t *testing.T) {
	ex, nav, _, _ := newTestExecutor(true)
	ex.Execute(context.Background(), types.Action{Type: command.OpenLiveOpsDetail})
	ex.Execute(context.Background(), types.Action{Type: command.OpenLiveOpsDetail, Payload: map[string]any{"opId": "gates"}})
	require.Len(t, nav.calls, 2)
	assert.Equal(t, navCall{RouteLiveOpsDetail, map[string]any{"opId": "parking"}}, nav.calls[0])
	assert.Equal(t, "gates", nav.calls[1].Params["opId"])
}

func TestGameDayEnter(t *testing.T) {
	ex, nav, st, _ := newTestExecutor(true)
	res := ex.Execute(context.Background(), types.Action{Type: command.GameDayEnter})
	assert.True(t, res.OK)
	assert.Equal(t, []string{"enter:journey"}, st.calls)
	assert.Equal(t, "GameDayJourney", nav.calls[0].Route)

	ex.Execute(context.Background(), types.Action{Type: command.GameDayEnter, Payload: map[string]any{"intent": "tailgate"}})
	assert.Equal(t, "enter:tailgate", st.calls[1])
	assert.Equal(t, RouteGameDayHome, nav.calls[1].Route)
}

func TestGameDayExit(t *testing.T) {
	ex, nav, st, _ := newTestExecutor(true)
	res := ex.Execute(context.Background(), types.Action{Type: command.GameDayExit})
	assert.True(t, res.OK)
	assert.Equal(t, []string{"exit"}, st.calls)
	assert.Equal(t, TabHome, nav.calls[0].Params["screen"])
}

func TestGoToPhaseMissingPhase(t *testing.T) {
	ex, nav, st, _ := newTestExecutor(true)
	res := ex.Execute(context.Background(), types.Action{Type: command.GameDayGoToPhase, Payload: map[string]any{}})
	assert.Equal(t, Result{OK: false, Error: "Missing phase"}, res)
	assert.Empty(t, st.calls)
	assert.Empty(t, nav.calls)
}

func TestGoToPhase(t *testing.T) {
	ex, nav, st, _ := newTestExecutor(true)
	res := ex.Execute(context.Background(), types.Action{Type: command.GameDayGoToPhase, Payload: map[string]any{"phase": "live"}})
	assert.True(t, res.OK)
	assert.Equal(t, []string{"phase:live"}, st.calls)
	assert.Equal(t, "GameDayLive", nav.calls[0].Route)
}

func TestSettersDefaultToAll(t *testing.T) {
	ex, nav, st, _ := newTestExecutor(true)
	ex.Execute(context.Background(), types.Action{Type: command.NewsSetFilter})
	ex.Execute(context.Background(), types.Action{Type: command.ShopSetCategory, Payload: map[string]any{"category": "Jerseys"}})
	assert.Equal(t, []string{"news:All", "shop:Jerseys"}, st.calls)
	assert.Equal(t, TabNews, nav.calls[0].Params["screen"])
	assert.Equal(t, TabShop, nav.calls[1].Params["screen"])
}

func TestUnsupportedCommand(t *testing.T) {
	ex, nav, _, _ := newTestExecutor(true)
	res := ex.Execute(context.Background(), types.Action{Type: "payment.refund"})
	assert.Equal(t, Result{OK: false, Error: "Unsupported command: payment.refund"}, res)
	assert.Empty(t, nav.calls)
}

func TestFlipPassSchedulesTrigger(t *testing.T) {
	ex, nav, _, sched := newTestExecutor(true)
	flips := 0
	unregister := ex.Flip().Register(func() { flips++ })
	defer unregister()

	res := ex.Execute(context.Background(), types.Action{Type: command.TicketFlipPass})
	assert.True(t, res.OK)
	assert.Equal(t, TabTicket, nav.calls[0].Params["screen"])
	assert.Equal(t, 0, flips)
	assert.Equal(t, 1, sched.Pending())

	sched.Advance(DefaultFlipDelay - time.Millisecond)
	assert.Equal(t, 0, flips)
	sched.Advance(time.Millisecond)
	assert.Equal(t, 1, flips)
	assert.Equal(t, 0, sched.Pending())
}

func TestFlipPassOKWhenOnlyHandlerInstalled(t *testing.T) {
	ex, _, _, sched := newTestExecutor(false)
	res := ex.Execute(context.Background(), types.Action{Type: command.TicketFlipPass})
	assert.False(t, res.OK)

	flipped := false
	ex.Flip().Register(func() { flipped = true })
	res = ex.Execute(context.Background(), types.Action{Type: command.TicketFlipPass})
	assert.True(t, res.OK)
	sched.Advance(time.Second)
	assert.True(t, flipped)
}

func TestCancelledContext(t *testing.T) {
	ex, nav, _, _ := newTestExecutor(true)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res := ex.Execute(ctx, types.Action{Type: command.NavigateNews})
	assert.False(t, res.OK)
	assert.Empty(t, nav.calls)
}
