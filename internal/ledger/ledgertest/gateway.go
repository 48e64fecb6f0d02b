// Package ledgertest provides an in-memory Gateway whose responses are
// scripted per chaincode function and which records every call it serves.
package ledgertest

import (
	"context"
	"sync"

	"github.com/ntquang22298/study-chain/internal/identity"
	"github.com/ntquang22298/study-chain/internal/ledger"
)

const (
	KindQuery  = "query"
	KindInvoke = "invoke"
)

// Call is one recorded Query or Invoke.
type Call struct {
	Kind     string
	Username string
	Function string
	Args     []string
}

// Gateway is a scripted ledger.Gateway.
type Gateway struct {
	mu         sync.Mutex
	connectErr error
	scripts    map[string][]ledger.Envelope
	calls      []Call
	connects   int
	closes     int
}

func New() *Gateway {
	return &Gateway{scripts: make(map[string][]ledger.Envelope)}
}

// On scripts the envelopes returned by successive calls to fn. The last one
// keeps being returned once the others are used up. Unscripted functions
// return a failed envelope without a message.
func (g *Gateway) On(fn string, envs ...ledger.Envelope) *Gateway {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.scripts[fn] = append(g.scripts[fn], envs...)
	return g
}

// FailConnect makes every Connect fail with err.
func (g *Gateway) FailConnect(err error) *Gateway {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.connectErr = err
	return g
}

func (g *Gateway) Connect(_ context.Context, id identity.Identity) (ledger.Session, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.connects++
	if g.connectErr != nil {
		return nil, g.connectErr
	}
	return &session{g: g, id: id}, nil
}

// Calls returns every recorded call in order.
func (g *Gateway) Calls() []Call {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]Call(nil), g.calls...)
}

func (g *Gateway) Queries() []Call { return g.filter(KindQuery) }

func (g *Gateway) Invokes() []Call { return g.filter(KindInvoke) }

// Connects returns how many sessions were requested, failed ones included.
func (g *Gateway) Connects() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.connects
}

// OpenSessions returns how many successfully opened sessions were not closed.
func (g *Gateway) OpenSessions() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.connectErr != nil {
		return 0
	}
	return g.connects - g.closes
}

func (g *Gateway) filter(kind string) []Call {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []Call
	for _, c := range g.calls {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

func (g *Gateway) serve(kind string, id identity.Identity, fn string, args []string) ledger.Envelope {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, Call{Kind: kind, Username: id.Username, Function: fn, Args: append([]string(nil), args...)})

	script := g.scripts[fn]
	switch len(script) {
	case 0:
		return ledger.Envelope{}
	case 1:
		return script[0]
	}
	g.scripts[fn] = script[1:]
	return script[0]
}

type session struct {
	g  *Gateway
	id identity.Identity
}

func (s *session) Identity() identity.Identity { return s.id }

func (s *session) Query(_ context.Context, fn string, args ...string) ledger.Envelope {
	return s.g.serve(KindQuery, s.id, fn, args)
}

func (s *session) Invoke(_ context.Context, fn string, args ...string) ledger.Envelope {
	return s.g.serve(KindInvoke, s.id, fn, args)
}

func (s *session) Close() error {
	s.g.mu.Lock()
	defer s.g.mu.Unlock()
	s.g.closes++
	return nil
}
