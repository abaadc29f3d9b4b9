package controller

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/agenthands/askform/internal/askapi"
	"github.com/agenthands/askform/internal/metrics"
	"github.com/agenthands/askform/internal/view"
)

// Asker sends one query to the backend.
type Asker interface {
	Ask(ctx context.Context, req askapi.Request) (*askapi.Response, error)
}

// Surface is the set of page regions a controller drives. Apply receives
// the whole state every time it changes.
type Surface interface {
	Apply(state view.State)
}

// Controller runs the submit cycle of the query form. It owns the current
// view state and pushes every change to its Surface.
type Controller struct {
	asker   Asker
	surface Surface
	logger  *zap.Logger
	state   view.State
}

func New(asker Asker, surface Surface, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Controller{
		asker:   asker,
		surface: surface,
		logger:  logger,
	}
	c.apply(view.Initial())
	return c
}

func (c *Controller) State() view.State {
	return c.state
}

// HandleSubmit runs one submission for the raw text of the query input.
func (c *Controller) HandleSubmit(ctx context.Context, rawQuery string) view.State {
	return c.HandleRequest(ctx, askapi.Request{Query: rawQuery})
}

// HandleRequest is HandleSubmit with the optional retrieval overrides.
// Loading is entered first and always left last, whatever the outcome.
func (c *Controller) HandleRequest(ctx context.Context, req askapi.Request) (final view.State) {
	c.setLoading(true)
	defer func() {
		c.setLoading(false)
		final = c.state
	}()

	c.apply(c.state.Cleared())

	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" {
		c.fail(askapi.ErrEmptyQuery)
		return
	}

	start := time.Now()
	resp, err := c.asker.Ask(ctx, req)
	outcome := outcomeOf(err)
	metrics.AskDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())

	if err != nil {
		c.fail(err)
		return
	}

	if resp == nil {
		resp = &askapi.Response{}
	}
	metrics.Submissions.WithLabelValues(metrics.OutcomeSuccess).Inc()
	c.logger.Debug("ask succeeded",
		zap.Float64("confidence", resp.Confidence),
		zap.String("final_reason", resp.FinalReason),
		zap.Duration("elapsed", time.Since(start)),
	)
	c.apply(c.state.WithResult(view.Render(resp)))
	return
}

func (c *Controller) fail(err error) {
	outcome := outcomeOf(err)
	metrics.Submissions.WithLabelValues(outcome).Inc()

	if outcome == metrics.OutcomeValidation {
		c.logger.Debug("submission rejected", zap.Error(err))
	} else {
		c.logger.Warn("ask failed", zap.String("outcome", outcome), zap.Error(err))
	}

	c.apply(c.state.WithError(err.Error()))
}

func (c *Controller) setLoading(loading bool) {
	if loading {
		metrics.InFlight.Inc()
	} else {
		metrics.InFlight.Dec()
	}
	c.apply(c.state.WithLoading(loading))
}

func (c *Controller) apply(s view.State) {
	c.state = s
	if c.surface != nil {
		c.surface.Apply(s)
	}
}

func outcomeOf(err error) string {
	if err == nil {
		return metrics.OutcomeSuccess
	}

	var (
		verr *askapi.ValidationError
		aerr *askapi.APIError
		terr *askapi.TransportError
		derr *askapi.DecodeError
	)
	switch {
	case errors.As(err, &verr):
		return metrics.OutcomeValidation
	case errors.As(err, &aerr):
		return metrics.OutcomeAPI
	case errors.As(err, &terr):
		return metrics.OutcomeTransport
	case errors.As(err, &derr):
		return metrics.OutcomeDecode
	default:
		return metrics.OutcomeUnknown
	}
}
