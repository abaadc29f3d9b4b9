package view

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agenthands/askform/internal/askapi"
)

func TestRender_AnswerOnly(t *testing.T) {
	r := Render(&askapi.Response{Answer: "X is Y", Confidence: 0.842})

	assert.True(t, r.Visible)
	assert.Equal(t, "X is Y", r.Answer)
	assert.Equal(t, "0.842", r.Confidence)
	assert.Equal(t, "-", r.FinalReason)
	assert.Equal(t, Region{}, r.Applicability)
	assert.Equal(t, Region{}, r.Uncertainty)
}

func TestRender_Notes(t *testing.T) {
	r := Render(&askapi.Response{
		ApplicabilityNote: "  Applies to working adults. ",
		UncertaintyNote:   "Income-specific payout tables are incomplete.",
		FinalReason:       "confidence_high",
	})

	assert.Equal(t, Region{
		Text:    "How this applies to your question: Applies to working adults.",
		Visible: true,
	}, r.Applicability)
	assert.Equal(t, Region{
		Text:    "Evidence limits / uncertainty: Income-specific payout tables are incomplete.",
		Visible: true,
	}, r.Uncertainty)
	assert.Equal(t, "confidence_high", r.FinalReason)
}

func TestRender_Nil(t *testing.T) {
	r := Render(nil)
	assert.True(t, r.Visible)
	assert.Empty(t, r.Answer)
	assert.Equal(t, "0.000", r.Confidence)
	assert.Equal(t, "-", r.FinalReason)
}

func TestNote_BlankIsHidden(t *testing.T) {
	for _, v := range []string{"", "   ", "\n\t"} {
		assert.Equal(t, Region{}, Note("Label", v))
	}
}

func TestFormatConfidence(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.000"},
		{math.Copysign(0, -1), "0.000"},
		{0.842, "0.842"},
		{0.87, "0.870"},
		{1, "1.000"},
		{0.12345, "0.123"},
		{0.9996, "1.000"},
		{0.0625, "0.063"},
		{0.5625, "0.563"},
		{0.8125, "0.813"},
		{0.0005, "0.001"},
		{math.NaN(), "0.000"},
		{math.Inf(1), "0.000"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatConfidence(tt.in))
	}
}

func TestState_Transitions(t *testing.T) {
	s := Initial()
	assert.False(t, s.Loading)
	assert.Equal(t, "Ask", s.SubmitLabel)
	assert.False(t, s.Error.Visible)
	assert.False(t, s.Result.Visible)

	s = s.WithLoading(true)
	assert.True(t, s.SubmitDisabled())
	assert.Equal(t, "Asking...", s.SubmitLabel)

	s = s.WithResult(Render(&askapi.Response{Answer: "a", UncertaintyNote: "u"})).WithError("boom")
	s = s.Cleared()
	assert.Equal(t, Region{}, s.Error)
	assert.False(t, s.Result.Visible)
	assert.False(t, s.Result.Uncertainty.Visible)

	s = s.WithLoading(false)
	assert.False(t, s.SubmitDisabled())
	assert.Equal(t, "Ask", s.SubmitLabel)
}

func TestState_WithErrorFallback(t *testing.T) {
	s := Initial().WithError("")
	assert.Equal(t, Region{Text: "Unexpected error while calling API.", Visible: true}, s.Error)

	s = Initial().WithError("internal failure")
	assert.Equal(t, "internal failure", s.Error.Text)
}
