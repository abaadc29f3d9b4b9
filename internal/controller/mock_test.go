package controller

import (
	"context"

	"github.com/agenthands/askform/internal/askapi"
	"github.com/agenthands/askform/internal/view"
)

type MockAsker struct {
	Response *askapi.Response
	Err      error
	Calls    []askapi.Request

	// OnAsk runs inside Ask, while the controller is still loading.
	OnAsk func()
}

func (m *MockAsker) Ask(ctx context.Context, req askapi.Request) (*askapi.Response, error) {
	m.Calls = append(m.Calls, req)
	if m.OnAsk != nil {
		m.OnAsk()
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Response, nil
}

// RecordingSurface keeps every state the controller applied.
type RecordingSurface struct {
	States []view.State
}

func (r *RecordingSurface) Apply(s view.State) {
	r.States = append(r.States, s)
}

func (r *RecordingSurface) Last() view.State {
	if len(r.States) == 0 {
		return view.State{}
	}
	return r.States[len(r.States)-1]
}
