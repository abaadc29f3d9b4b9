// Package view turns /ask responses and failures into the state of the
// query page. Nothing here touches HTTP or templates; the server applies a
// State to the page.
package view

import (
	"fmt"
	"math"
	"strings"

	"github.com/agenthands/askform/internal/askapi"
)

const (
	SubmitLabel  = "Ask"
	LoadingLabel = "Asking..."

	ApplicabilityLabel = "How this applies to your question"
	UncertaintyLabel   = "Evidence limits / uncertainty"

	NoFinalReason = "-"
)

// Region is a block of text on the page that can be hidden.
type Region struct {
	Text    string `json:"text"`
	Visible bool   `json:"visible"`
}

type Result struct {
	Visible       bool     `json:"visible"`
	Answer        string   `json:"answer"`
	Applicability Region   `json:"applicability_note"`
	Uncertainty   Region   `json:"uncertainty_note"`
	Confidence    string   `json:"confidence"`
	FinalReason   string   `json:"final_reason"`
	StateHistory  []string `json:"state_history,omitempty"`
}

// State is everything the page shows for one submission cycle.
type State struct {
	Loading     bool   `json:"loading"`
	SubmitLabel string `json:"submit_label"`
	Error       Region `json:"error"`
	Result      Result `json:"result"`
}

// Initial is the state of a freshly loaded page.
func Initial() State {
	return State{SubmitLabel: SubmitLabel}
}

func (s State) SubmitDisabled() bool {
	return s.Loading
}

func (s State) WithLoading(loading bool) State {
	s.Loading = loading
	s.SubmitLabel = SubmitLabel
	if loading {
		s.SubmitLabel = LoadingLabel
	}
	return s
}

// Cleared hides the error banner, the result panel and both notes.
func (s State) Cleared() State {
	s.Error = Region{}
	s.Result.Visible = false
	s.Result.Applicability.Visible = false
	s.Result.Uncertainty.Visible = false
	return s
}

// WithError shows msg in the error banner, or the generic message when msg
// is blank.
func (s State) WithError(msg string) State {
	if strings.TrimSpace(msg) == "" {
		msg = askapi.GenericErrorMessage
	}
	s.Error = Region{Text: msg, Visible: true}
	return s
}

func (s State) WithResult(r Result) State {
	s.Result = r
	return s
}

// Render maps a response onto the result panel.
func Render(resp *askapi.Response) Result {
	if resp == nil {
		resp = &askapi.Response{}
	}

	finalReason := resp.FinalReason
	if finalReason == "" {
		finalReason = NoFinalReason
	}

	return Result{
		Visible:       true,
		Answer:        resp.Answer,
		Applicability: Note(ApplicabilityLabel, resp.ApplicabilityNote),
		Uncertainty:   Note(UncertaintyLabel, resp.UncertaintyNote),
		Confidence:    FormatConfidence(resp.Confidence),
		FinalReason:   finalReason,
		StateHistory:  resp.StateHistory,
	}
}

// Note is shown as "label: text" only when value has non-blank content.
func Note(label, value string) Region {
	text := strings.TrimSpace(value)
	if text == "" {
		return Region{}
	}
	return Region{Text: label + ": " + text, Visible: true}
}

// FormatConfidence prints v with exactly three decimals. Exact ties round
// away from zero (0.0625 -> "0.063"), where %.3f alone would round to even.
func FormatConfidence(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	if scaled := v * 1000; scaled == math.Trunc(scaled)+math.Copysign(0.5, scaled) {
		v = math.Round(scaled) / 1000
	}
	if v == 0 {
		v = 0 // folds -0
	}
	return fmt.Sprintf("%.3f", v)
}
