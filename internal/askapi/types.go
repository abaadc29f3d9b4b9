package askapi

import (
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Request is the body of POST /ask. Only Query is sent unless the
// optional retrieval overrides are set.
type Request struct {
	Query          string `json:"query"`
	TopK           *int   `json:"top_k,omitempty"`
	TopN           *int   `json:"top_n,omitempty"`
	RequestedYears []int  `json:"requested_years,omitempty"`
}

// Response is the decoded body of a successful /ask call. Every field is
// optional on the wire; missing or mistyped fields decode to zero values.
type Response struct {
	Answer            string
	ApplicabilityNote string
	UncertaintyNote   string
	Confidence        float64
	FinalReason       string
	StateHistory      []string
}

// Health is the body of GET /health.
type Health struct {
	Status   string `json:"status"`
	MCPReady bool   `json:"mcp_ready"`
	Message  string `json:"message"`
}

func (h *Health) OK() bool {
	return h != nil && h.Status == "ok"
}

func decodeResponse(status int, body []byte) (*Response, error) {
	if !gjson.ValidBytes(body) {
		return nil, &DecodeError{StatusCode: status, Reason: "body is not valid JSON"}
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return nil, &DecodeError{StatusCode: status, Reason: "expected a JSON object"}
	}

	resp := &Response{
		Answer:            stringField(root, "answer"),
		ApplicabilityNote: stringField(root, "applicability_note"),
		UncertaintyNote:   stringField(root, "uncertainty_note"),
		Confidence:        numberField(root, "confidence"),
		FinalReason:       stringField(root, "final_reason"),
	}

	if history := root.Get("state_history"); history.IsArray() {
		history.ForEach(func(_, v gjson.Result) bool {
			if v.Type == gjson.String {
				resp.StateHistory = append(resp.StateHistory, v.Str)
			}
			return true
		})
	}

	return resp, nil
}

func decodeHealth(status int, body []byte) (*Health, error) {
	if !gjson.ValidBytes(body) {
		return nil, &DecodeError{StatusCode: status, Reason: "body is not valid JSON"}
	}
	root := gjson.ParseBytes(body)
	return &Health{
		Status:   stringField(root, "status"),
		MCPReady: root.Get("mcp_ready").Type == gjson.True,
		Message:  stringField(root, "message"),
	}, nil
}

// errorDetail extracts the "detail" string from an error body. Anything
// other than a non-empty JSON string yields "".
func errorDetail(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}
	detail := gjson.GetBytes(body, "detail")
	if detail.Type != gjson.String {
		return ""
	}
	return detail.Str
}

func stringField(root gjson.Result, key string) string {
	v := root.Get(key)
	if v.Type != gjson.String {
		return ""
	}
	return v.Str
}

// numberField accepts JSON numbers and numeric strings; everything else,
// including NaN and infinities, is 0.
func numberField(root gjson.Result, key string) float64 {
	v := root.Get(key)

	var n float64
	switch v.Type {
	case gjson.Number:
		n = v.Num
	case gjson.String:
		s := strings.TrimSpace(v.Str)
		if s == "" {
			return 0
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		n = parsed
	default:
		return 0
	}

	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	return n
}
