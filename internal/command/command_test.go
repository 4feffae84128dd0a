package command

import (
	"encoding/json"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gameday-assistant/internal/types"
)

func TestIsKnown(t *testing.T) {
	for _, c := range Commands() {
		assert.True(t, IsKnown(c.Type), c.Type)
	}
	assert.Len(t, Commands(), 12)
	assert.False(t, IsKnown("payment.refund"))
	assert.False(t, IsKnown(""))
	assert.False(t, IsKnown("Navigate.Home"))
}

func TestNormalizeAtFillsDefaults(t *testing.T) {
	now := time.Date(2026, 10, 16, 18, 0, 0, 0, time.UTC)
	got := NormalizeAt(types.Action{Type: NavigateStats}, now)

	assert.True(t, strings.HasPrefix(got.ID, "navigate.stats-"+strconv.FormatInt(now.UnixMilli(), 10)+"-"), got.ID)
	assert.NotNil(t, got.Payload)
	assert.Equal(t, types.RiskLow, got.Risk)
	require.NotNil(t, got.RequiresConfirmation)
	assert.False(t, *got.RequiresConfirmation)
}

func TestNormalizeAtIDsAreUnique(t *testing.T) {
	now := time.Date(2026, 10, 16, 18, 0, 0, 0, time.UTC)
	acts := InferFromText("where is parking and which gate")
	require.Len(t, acts, 2)
	for _, a := range acts {
		assert.Empty(t, a.ID)
	}
	first := NormalizeAt(acts[0], now)
	second := NormalizeAt(acts[1], now)
	assert.Equal(t, first.Type, second.Type)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestNormalizedActionEncodesEmptyPayload(t *testing.T) {
	b, err := json.Marshal(NormalizeAt(types.Action{Type: NavigateHome}, time.Now()))
	require.NoError(t, err)
	assert.Contains(t, string(b), `"payload":{}`)
}

func TestNormalizeKeepsExplicitFields(t *testing.T) {
	in := types.Action{
		ID:                   "a-1",
		Type:                 OpenLiveOpsDetail,
		Payload:              map[string]any{"opId": "gates"},
		Risk:                 types.RiskHigh,
		RequiresConfirmation: types.Bool(true),
	}
	got := Normalize(in)
	assert.Equal(t, in, got)

	// the input is not aliased
	got.Payload["opId"] = "parking"
	assert.Equal(t, "gates", in.Payload["opId"])
}

func TestInferFromTextRules(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"empty", "   ", nil},
		{"parking", "get me to parking", []string{OpenLiveOpsDetail}},
		{"ticket and qr", "show me ticket and qr", []string{NavigateTicket, TicketFlipPass}},
		{"exclusive news", "any EXCLUSIVE news?", []string{NewsSetFilter}},
		{"jersey shop", "I want a jersey from the shop", []string{ShopSetCategory, NavigateShop}},
		{"enter game day", "start game day", []string{GameDayEnter}},
		{"exit game day", "exit game day and go home", []string{GameDayExit, NavigateHome}},
		{"stats", "league standings", []string{NavigateStats}},
		{"nothing", "hello there", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InferFromText(tt.text)
			typesOf := make([]string, 0, len(got))
			for _, a := range got {
				typesOf = append(typesOf, a.Type)
			}
			if tt.want == nil {
				assert.Empty(t, typesOf)
				return
			}
			assert.Equal(t, tt.want, typesOf)
		})
	}
}

func TestInferFromTextParkingPayload(t *testing.T) {
	got := InferFromText("get me to parking")
	require.Len(t, got, 1)
	assert.Equal(t, "parking", got[0].Payload["opId"])
}

func TestInferFromTextNewsFirstMatchWins(t *testing.T) {
	got := InferFromText("exclusive interview news")
	require.Len(t, got, 1)
	assert.Equal(t, "Exclusive", got[0].Payload["filter"])

	got = InferFromText("news videos")
	require.Len(t, got, 1)
	assert.Equal(t, "Interviews", got[0].Payload["filter"])

	got = InferFromText("latest news")
	require.Len(t, got, 1)
	assert.Equal(t, "All", got[0].Payload["filter"])
}

func TestInferFromTextDeterministic(t *testing.T) {
	text := "Parking, tickets, exclusive news and the jersey shop on game day"
	first := InferFromText(text)
	second := InferFromText(text)
	assert.Equal(t, first, second)
	assert.NotEmpty(t, first)
}
