package dimension

import (
	"testing"

	"github.com/ppiankov/layergraph/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func span(id, text string) model.TextSpan {
	return model.TextSpan{ID: id, Text: text}
}

func TestEngine_Observe_RuleMajorOrder(t *testing.T) {
	spans := []model.TextSpan{
		span("a", "Kitchen sink: use a wrench"),
		span("b", "WARNING: shock hazard"),
		span("c", "Takes 10 minutes"),
		span("d", "   "),
		span("e", "nothing relevant here"),
	}

	obs := NewEngine(nil).Observe(spans)
	require.Len(t, obs, 4)

	var got [][2]string
	for _, o := range obs {
		got = append(got, [2]string{string(o.Axis), o.EvidenceSpan})
	}
	assert.Equal(t, [][2]string{
		{"SafetyRisk", "b"},
		{"ToolsRequired", "a"},
		{"Time", "c"},
		{"Location", "a"},
	}, got)

	assert.Equal(t, "0.85", obs[0].Confidence.String())
	assert.Equal(t, "0.5", obs[3].Confidence.String())
}

func TestEngine_Observe_MultipleAxesPerSpan(t *testing.T) {
	obs := NewEngine(nil).Observe([]model.TextSpan{
		span("x", "Permit fee is $40, allow 2 hours"),
	})

	var axes []model.Axis
	for _, o := range obs {
		axes = append(axes, o.Axis)
		assert.Equal(t, "x", o.EvidenceSpan)
	}
	assert.Equal(t, []model.Axis{model.AxisCompliance, model.AxisCost, model.AxisTime}, axes)
}

func TestEngine_Observe_StableIDs(t *testing.T) {
	spans := []model.TextSpan{span("a", "danger"), span("b", "caution: hot, may burn")}
	first := NewEngine(nil).Observe(spans)
	second := NewEngine(nil).Observe(spans)
	require.Equal(t, first, second)
	assert.NotEqual(t, first[0].ID, first[1].ID)
}

func TestEngine_CustomRules(t *testing.T) {
	e := NewEngine([]AxisRule{{
		Axis:       "Noise",
		Keywords:   []string{"loud"},
		Confidence: decimal.RequireFromString("0.3"),
	}})
	obs := e.Observe([]model.TextSpan{span("a", "LOUD motor"), span("b", "danger")})
	require.Len(t, obs, 1)
	assert.Equal(t, model.Axis("Noise"), obs[0].Axis)
}

func TestAxisIRI(t *testing.T) {
	assert.Equal(t, "https://nkllon.org/dim#SafetyRisk", AxisIRI(model.AxisSafetyRisk))
}

func TestEngine_Summarize(t *testing.T) {
	e := NewEngine(nil)
	obs := e.Observe([]model.TextSpan{
		span("a", "garage"),
		span("b", "danger in the basement"),
		span("c", "hazard"),
	})
	assert.Equal(t, []AxisCount{
		{Axis: model.AxisSafetyRisk, Count: 2},
		{Axis: model.AxisLocation, Count: 2},
	}, e.Summarize(obs))
	assert.Empty(t, e.Summarize(nil))
}
