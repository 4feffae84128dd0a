package command

import (
	"strings"

	"gameday-assistant/internal/types"
)

// InferFromText maps free text to candidate actions using keyword rules.
// Rules run in a fixed order and independently of each other, except the
// news filter group where the first matching sub-rule wins. The actions carry
// no id; Normalize assigns one.
func InferFromText(text string) []types.Action {
	m := strings.ToLower(strings.TrimSpace(text))
	out := make([]types.Action, 0, 2)
	if m == "" {
		return out
	}
	add := func(typ string, payload map[string]any) {
		out = append(out, types.Action{Type: typ, Payload: payload})
	}

	// News filter
	if strings.Contains(m, "news") {
		switch {
		case strings.Contains(m, "exclusive"):
			add(NewsSetFilter, map[string]any{"filter": "Exclusive"})
		case containsAny(m, []string{"interview", "video"}):
			add(NewsSetFilter, map[string]any{"filter": "Interviews"})
		default:
			add(NewsSetFilter, map[string]any{"filter": "All"})
		}
	}
	// Live ops
	if strings.Contains(m, "parking") {
		add(OpenLiveOpsDetail, map[string]any{"opId": "parking"})
	}
	if containsAny(m, []string{"gate", "entry"}) {
		add(OpenLiveOpsDetail, map[string]any{"opId": "gates"})
	}
	if containsAny(m, []string{"food", "concession", "beer"}) {
		add(OpenLiveOpsDetail, map[string]any{"opId": "concessions"})
	}
	// Ticket
	if containsAny(m, []string{"ticket", "qr"}) {
		add(NavigateTicket, map[string]any{})
		add(TicketFlipPass, map[string]any{})
	}
	// Shop
	if containsAny(m, []string{"jersey", "kit"}) {
		add(ShopSetCategory, map[string]any{"category": "Jerseys"})
	}
	if containsAny(m, []string{"shop", "merch", "store"}) {
		add(NavigateShop, map[string]any{})
	}
	if containsAny(m, []string{"stats", "standings", "table"}) {
		add(NavigateStats, map[string]any{})
	}
	// Game day
	leaving := containsAny(m, []string{"exit game day", "leave game day", "end game day"})
	if leaving {
		add(GameDayExit, map[string]any{})
	}
	if !leaving && containsAny(m, []string{"game day", "gameday", "matchday"}) {
		add(GameDayEnter, map[string]any{"intent": "journey"})
	}
	if containsAny(m, []string{"home", "dashboard"}) {
		add(NavigateHome, map[string]any{})
	}
	return out
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
