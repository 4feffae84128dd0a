package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gameday-assistant/internal/command"
	"gameday-assistant/internal/types"
)

func TestInferRiskByType(t *testing.T) {
	for _, c := range command.Commands() {
		assert.Equal(t, types.RiskLow, InferRiskByType(c.Type), c.Type)
	}
	for _, typ := range []string{"", "payment.refund", "account.delete", "security.reset", "profile.update", "navigate.settings", "shop.checkout"} {
		assert.Equal(t, types.RiskHigh, InferRiskByType(typ), typ)
	}
}

func actionGrid() []types.Action {
	typesList := []string{"", command.NavigateHome, command.TicketFlipPass, "payment.refund", "unknown.thing"}
	risks := []types.Risk{"", types.RiskLow, types.RiskHigh, "medium", "LOW", " High "}
	confirms := []*bool{nil, types.Bool(false), types.Bool(true)}
	var out []types.Action
	for _, typ := range typesList {
		for _, r := range risks {
			for _, c := range confirms {
				out = append(out, types.Action{Type: typ, Risk: r, RequiresConfirmation: c})
			}
		}
	}
	return out
}

func TestEnrichIdempotent(t *testing.T) {
	for _, a := range actionGrid() {
		once := Enrich(a)
		assert.Equal(t, once, Enrich(once), "%+v", a)
		assert.Contains(t, []types.Risk{types.RiskLow, types.RiskHigh}, once.Risk, "%+v", a)
		assert.NotNil(t, once.RequiresConfirmation)
	}
}

func TestPredicatesNeverBothTrue(t *testing.T) {
	for _, a := range actionGrid() {
		assert.False(t, CanAutoExecute(a) && ShouldBlock(a), "%+v", a)
		if a.RequiresConfirmation == nil {
			e := Enrich(a)
			assert.Equal(t, CanAutoExecute(a), !ShouldBlock(a) && e.Risk == types.RiskLow, "%+v", a)
		}
	}
}

func TestDefaultDenyForUnknownTypes(t *testing.T) {
	e := Enrich(types.Action{Type: "tickets.transfer"})
	assert.Equal(t, types.RiskHigh, e.Risk)
	assert.True(t, e.NeedsConfirmation())
	assert.True(t, ShouldBlock(e))
	assert.False(t, CanAutoExecute(e))
}

func TestKnownCommandAutoExecutes(t *testing.T) {
	a := types.Action{Type: command.OpenLiveOpsDetail, Payload: map[string]any{"opId": "parking"}}
	e := Enrich(a)
	assert.Equal(t, types.RiskLow, e.Risk)
	require.NotNil(t, e.RequiresConfirmation)
	assert.False(t, *e.RequiresConfirmation)
	assert.True(t, CanAutoExecute(a))
}

func TestSensitivePrefixWithoutRisk(t *testing.T) {
	a := types.Action{Type: "payment.refund"}
	assert.True(t, ShouldBlock(a))
	assert.False(t, CanAutoExecute(a))
}

func TestSensitivePrefixWithSpoofedLowRisk(t *testing.T) {
	a := types.Action{Type: "payment.refund", Risk: types.RiskLow}
	assert.True(t, ShouldBlock(a))
	assert.False(t, CanAutoExecute(a))
	assert.Equal(t, types.RiskHigh, Enrich(a).Risk)
}

// A backend that sets both risk:"low" and requiresConfirmation:false is
// trusted as-is. This is the one way a sensitive type can become eligible.
func TestSensitivePrefixWithConfirmationWaived(t *testing.T) {
	a := types.Action{Type: "payment.refund", Risk: types.RiskLow, RequiresConfirmation: types.Bool(false)}
	assert.False(t, ShouldBlock(a))
	assert.True(t, CanAutoExecute(a))

	// waiving confirmation without lowering risk is not enough
	b := types.Action{Type: "payment.refund", RequiresConfirmation: types.Bool(false)}
	assert.False(t, ShouldBlock(b))
	assert.False(t, CanAutoExecute(b))
}

func TestExplicitConfirmationOnLowRisk(t *testing.T) {
	a := types.Action{Type: command.NavigateNews, RequiresConfirmation: types.Bool(true)}
	assert.False(t, CanAutoExecute(a))
	assert.False(t, ShouldBlock(a))
}

func TestDecide(t *testing.T) {
	d := Decide(types.Action{Type: command.NavigateShop})
	assert.True(t, d.Auto)
	assert.False(t, d.Block)
	assert.Equal(t, types.RiskLow, d.Action.Risk)

	d = Decide(types.Action{Type: "account.close"})
	assert.False(t, d.Auto)
	assert.True(t, d.Block)
}

func TestEnrichDoesNotAliasPayload(t *testing.T) {
	a := types.Action{Type: command.NewsSetFilter, Payload: map[string]any{"filter": "All"}}
	e := Enrich(a)
	e.Payload["filter"] = "Exclusive"
	assert.Equal(t, "All", a.Payload["filter"])
}

func TestRiskOutsideTiersIsReclassified(t *testing.T) {
	e := Enrich(types.Action{Type: command.NavigateNews, Risk: "medium"})
	assert.Equal(t, types.RiskLow, e.Risk)
	assert.True(t, CanAutoExecute(e))

	e = Enrich(types.Action{Type: "unknown.thing", Risk: "medium"})
	assert.Equal(t, types.RiskHigh, e.Risk)
	assert.True(t, ShouldBlock(e))
}

func TestRiskIsCaseFolded(t *testing.T) {
	for _, r := range []types.Risk{"LOW", "Low", " low"} {
		a := types.Action{Type: command.NavigateStats, Risk: r}
		assert.Equal(t, types.RiskLow, Enrich(a).Risk, r)
		assert.True(t, CanAutoExecute(a), r)
	}
	a := types.Action{Type: command.NavigateStats, Risk: "HIGH"}
	assert.Equal(t, types.RiskHigh, Enrich(a).Risk)
	assert.True(t, ShouldBlock(a))
}
