// Package policy classifies assistant actions by risk and decides which ones
// may run without the user confirming them.
//
// Unknown or untyped commands are high risk. The only route to automatic
// execution is membership in the low-risk set with no request for
// confirmation.
package policy

import (
	"strings"

	"gameday-assistant/internal/command"
	"gameday-assistant/internal/types"
)

var highRiskPrefixes = []string{"payment.", "account.", "security.", "profile."}

var lowRisk = map[string]bool{
	command.NavigateHome:      true,
	command.NavigateTicket:    true,
	command.NavigateNews:      true,
	command.NavigateShop:      true,
	command.NavigateStats:     true,
	command.OpenLiveOpsDetail: true,
	command.GameDayEnter:      true,
	command.GameDayExit:       true,
	command.GameDayGoToPhase:  true,
	command.TicketFlipPass:    true,
	command.NewsSetFilter:     true,
	command.ShopSetCategory:   true,
}

// InferRiskByType classifies a command type on its own.
func InferRiskByType(typ string) types.Risk {
	if typ == "" {
		return types.RiskHigh
	}
	for _, p := range highRiskPrefixes {
		if strings.HasPrefix(typ, p) {
			return types.RiskHigh
		}
	}
	if lowRisk[typ] {
		return types.RiskLow
	}
	return types.RiskHigh
}

// Enrich returns a copy of a with risk and confirmation resolved.
//
// An explicit risk is kept after case folding; anything other than low or
// high counts as absent. An explicit confirmation flag is kept. When the
// type itself is high risk and confirmation was not explicitly waived, the
// action is forced to high risk with confirmation required, so a bare
// risk:"low" cannot unlock a sensitive command. Enrich(Enrich(a)) == Enrich(a).
func Enrich(a types.Action) types.Action {
	out := a.Clone()
	typeRisk := InferRiskByType(out.Type)
	out.Risk = parseRisk(out.Risk)
	if out.Risk == "" {
		out.Risk = typeRisk
	}
	if out.RequiresConfirmation == nil {
		if typeRisk == types.RiskHigh {
			out.Risk = types.RiskHigh
		}
		out.RequiresConfirmation = types.Bool(out.Risk == types.RiskHigh)
	}
	return out
}

func parseRisk(r types.Risk) types.Risk {
	switch types.Risk(strings.ToLower(strings.TrimSpace(string(r)))) {
	case types.RiskLow:
		return types.RiskLow
	case types.RiskHigh:
		return types.RiskHigh
	}
	return ""
}

// CanAutoExecute reports whether a may run without confirmation.
func CanAutoExecute(a types.Action) bool {
	e := Enrich(a)
	return e.Risk == types.RiskLow && !e.NeedsConfirmation()
}

// ShouldBlock reports whether a must not run through an automatic path.
func ShouldBlock(a types.Action) bool {
	e := Enrich(a)
	return e.Risk == types.RiskHigh && e.NeedsConfirmation()
}

// Decision is the enriched action with both verdicts.
type Decision struct {
	Action types.Action
	Auto   bool
	Block  bool
}

// Decide enriches a once and evaluates both predicates on the result.
func Decide(a types.Action) Decision {
	e := Enrich(a)
	return Decision{
		Action: e,
		Auto:   CanAutoExecute(e),
		Block:  ShouldBlock(e),
	}
}
