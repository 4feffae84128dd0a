package command

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"gameday-assistant/internal/types"
)

// Command types understood by the executor.
const (
	NavigateHome      = "navigate.home"
	NavigateTicket    = "navigate.ticket"
	NavigateNews      = "navigate.news"
	NavigateShop      = "navigate.shop"
	NavigateStats     = "navigate.stats"
	OpenLiveOpsDetail = "open.liveOpsDetail"
	GameDayEnter      = "gameDay.enter"
	GameDayExit       = "gameDay.exit"
	GameDayGoToPhase  = "gameDay.goToPhase"
	TicketFlipPass    = "ticket.flipPass"
	NewsSetFilter     = "news.setFilter"
	ShopSetCategory   = "shop.setCategory"
)

// Spec describes one command and its payload keys.
type Spec struct {
	Type        string
	Description string
	Required    []string
	Optional    []string
}

var commands = []Spec{
	{Type: NavigateHome, Description: "Open the home dashboard"},
	{Type: NavigateTicket, Description: "Open the ticket tab"},
	{Type: NavigateNews, Description: "Open the news tab"},
	{Type: NavigateShop, Description: "Open the shop tab"},
	{Type: NavigateStats, Description: "Open the stats tab"},
	{Type: OpenLiveOpsDetail, Description: "Open a live operations detail (parking, gates, concessions)", Required: []string{"opId"}},
	{Type: GameDayEnter, Description: "Enter game day mode", Optional: []string{"intent"}},
	{Type: GameDayExit, Description: "Leave game day mode"},
	{Type: GameDayGoToPhase, Description: "Jump to a game day phase", Required: []string{"phase"}},
	{Type: TicketFlipPass, Description: "Show the ticket and flip the pass to its QR side"},
	{Type: NewsSetFilter, Description: "Filter the news feed", Required: []string{"filter"}},
	{Type: ShopSetCategory, Description: "Filter the shop by category", Required: []string{"category"}},
}

var known = func() map[string]Spec {
	m := make(map[string]Spec, len(commands))
	for _, c := range commands {
		m[c.Type] = c
	}
	return m
}()

// Commands lists the command set in declaration order.
func Commands() []Spec {
	out := make([]Spec, len(commands))
	copy(out, commands)
	return out
}

// IsKnown reports whether typ is part of the command set.
func IsKnown(typ string) bool {
	_, ok := known[typ]
	return ok
}

// Normalize fills id, payload, risk and confirmation defaults. Generated ids
// are unique even for actions of one type normalized in the same millisecond.
// The low default is not a safety decision; callers must run the action
// through policy enrichment before acting on it.
func Normalize(a types.Action) types.Action {
	return NormalizeAt(a, time.Now())
}

// NormalizeAt is Normalize with an explicit clock.
func NormalizeAt(a types.Action, now time.Time) types.Action {
	out := a.Clone()
	if out.ID == "" {
		out.ID = fmt.Sprintf("%s-%d-%s", out.Type, now.UnixMilli(), uuid.NewString()[:8])
	}
	if out.Payload == nil {
		out.Payload = map[string]any{}
	}
	if out.Risk == "" {
		out.Risk = types.RiskLow
	}
	if out.RequiresConfirmation == nil {
		out.RequiresConfirmation = types.Bool(false)
	}
	return out
}
