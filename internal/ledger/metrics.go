package ledger

import (
	"context"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ntquang22298/study-chain/internal/identity"
)

type metrics struct {
	calls           *prometheus.CounterVec
	connectFailures prometheus.Counter
}

// Instrument decorates gw with call counters registered on reg.
func Instrument(gw Gateway, reg prometheus.Registerer) Gateway {
	m := &metrics{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "studychain",
			Subsystem: "ledger",
			Name:      "calls_total",
			Help:      "Ledger query and invoke calls by function and outcome.",
		}, []string{"kind", "function", "success"}),
		connectFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "studychain",
			Subsystem: "ledger",
			Name:      "connect_failures_total",
			Help:      "Ledger sessions that could not be opened.",
		}),
	}
	reg.MustRegister(m.calls, m.connectFailures)
	return &instrumentedGateway{next: gw, m: m}
}

type instrumentedGateway struct {
	next Gateway
	m    *metrics
}

func (g *instrumentedGateway) Connect(ctx context.Context, id identity.Identity) (Session, error) {
	s, err := g.next.Connect(ctx, id)
	if err != nil || s == nil {
		g.m.connectFailures.Inc()
		return nil, err
	}
	return &instrumentedSession{Session: s, m: g.m}, nil
}

type instrumentedSession struct {
	Session
	m *metrics
}

func (s *instrumentedSession) Query(ctx context.Context, fn string, args ...string) Envelope {
	env := s.Session.Query(ctx, fn, args...)
	s.m.calls.WithLabelValues("query", fn, strconv.FormatBool(env.Success)).Inc()
	return env
}

func (s *instrumentedSession) Invoke(ctx context.Context, fn string, args ...string) Envelope {
	env := s.Session.Invoke(ctx, fn, args...)
	s.m.calls.WithLabelValues("invoke", fn, strconv.FormatBool(env.Success)).Inc()
	return env
}
