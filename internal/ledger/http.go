package ledger

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/ntquang22298/study-chain/internal/identity"
)

// HTTPOptions locates the gateway node and the academy contract on it.
type HTTPOptions struct {
	URL      string
	Channel  string
	Contract string
	// CACertPath pins the gateway node's CA. Empty means system roots.
	CACertPath string
	// Timeout bounds every single call, including Connect.
	Timeout time.Duration
}

// HTTPGateway talks to a ledger gateway node over its REST API. Each session
// gets its own transport whose TLS client certificate is the caller's
// wallet identity.
type HTTPGateway struct {
	opts    HTTPOptions
	wallet  Wallet
	rootCAs *x509.CertPool
	logger  *zap.Logger
}

// NewHTTPGateway validates opts and loads the pinned CA.
func NewHTTPGateway(opts HTTPOptions, wallet Wallet, logger *zap.Logger) (*HTTPGateway, error) {
	if opts.URL == "" {
		return nil, errors.New("ledger gateway url is required")
	}
	if opts.Channel == "" || opts.Contract == "" {
		return nil, errors.New("ledger channel and contract are required")
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	opts.URL = strings.TrimRight(opts.URL, "/")

	var rootCAs *x509.CertPool
	if opts.CACertPath != "" {
		caCert, err := os.ReadFile(opts.CACertPath)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to open ca cert")
		}
		rootCAs = x509.NewCertPool()
		if !rootCAs.AppendCertsFromPEM(caCert) {
			return nil, errors.Errorf("no certificates found in [%s]", opts.CACertPath)
		}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPGateway{opts: opts, wallet: wallet, rootCAs: rootCAs, logger: logger}, nil
}

// Connect loads the identity from the wallet and checks that the channel is
// reachable with it.
func (g *HTTPGateway) Connect(ctx context.Context, id identity.Identity) (Session, error) {
	cert, err := g.wallet.Credentials(id.Username)
	if err != nil {
		return nil, errors.WithMessage(err, "failed to resolve identity")
	}

	transport := &http.Transport{
		TLSClientConfig: &tls.Config{
			RootCAs:      g.rootCAs,
			Certificates: []tls.Certificate{cert},
			MinVersion:   tls.VersionTLS12,
		},
	}
	s := &httpSession{
		id:        id,
		base:      fmt.Sprintf("%s/v1/channels/%s", g.opts.URL, url.PathEscape(g.opts.Channel)),
		contract:  url.PathEscape(g.opts.Contract),
		timeout:   g.opts.Timeout,
		transport: transport,
		client:    &http.Client{Transport: otelhttp.NewTransport(transport)},
		logger:    g.logger.With(zap.String("identity", id.Username)),
	}

	ctx, cancel := context.WithTimeout(ctx, g.opts.Timeout)
	defer cancel()
	if _, _, err := s.do(ctx, http.MethodGet, s.base, nil); err != nil {
		transport.CloseIdleConnections()
		return nil, errors.WithMessagef(err, "channel [%s] unavailable", g.opts.Channel)
	}
	return s, nil
}

type httpSession struct {
	id        identity.Identity
	base      string
	contract  string
	timeout   time.Duration
	transport *http.Transport
	client    *http.Client
	logger    *zap.Logger
}

type callRequest struct {
	Function string   `json:"function"`
	Args     []string `json:"args"`
	Identity string   `json:"identity"`
}

func (s *httpSession) Identity() identity.Identity { return s.id }

func (s *httpSession) Query(ctx context.Context, fn string, args ...string) Envelope {
	return s.call(ctx, "query", fn, args)
}

func (s *httpSession) Invoke(ctx context.Context, fn string, args ...string) Envelope {
	return s.call(ctx, "invoke", fn, args)
}

func (s *httpSession) Close() error {
	s.transport.CloseIdleConnections()
	return nil
}

func (s *httpSession) call(ctx context.Context, kind, fn string, args []string) Envelope {
	if args == nil {
		args = []string{}
	}
	in, err := json.Marshal(callRequest{Function: fn, Args: args, Identity: s.id.Username})
	if err != nil {
		s.logger.Error("failed to encode ledger call", zap.String("function", fn), zap.Error(err))
		return Envelope{}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	target := fmt.Sprintf("%s/contracts/%s/%s", s.base, s.contract, kind)
	status, body, err := s.do(ctx, http.MethodPost, target, in)
	if err != nil && body == nil {
		s.logger.Warn("ledger call failed", zap.String("kind", kind), zap.String("function", fn), zap.Error(err))
		return Envelope{}
	}

	var env Envelope
	if derr := json.Unmarshal(body, &env); derr != nil {
		s.logger.Warn("undecodable ledger response",
			zap.String("function", fn), zap.Int("status", status), zap.Error(derr))
		return Envelope{}
	}
	if status != http.StatusOK {
		env.Success = false
	}
	s.logger.Debug("ledger call", zap.String("kind", kind), zap.String("function", fn), zap.Bool("success", env.Success))
	return env
}

// do sends a request and returns the body. On a non-200 status the body is
// returned together with an error so that callers may still inspect it.
func (s *httpSession) do(ctx context.Context, method, target string, in []byte) (int, []byte, error) {
	var body io.Reader
	if in != nil {
		body = bytes.NewReader(in)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return 0, nil, errors.Wrapf(err, "failed to create http request to [%s], input length [%d]", target, len(in))
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, nil, errors.Wrapf(err, "failed to process http request to [%s], input length [%d]", target, len(in))
	}
	defer resp.Body.Close()

	buff, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, errors.Wrapf(err, "failed to read response from http request to [%s]", target)
	}
	if resp.StatusCode != http.StatusOK {
		return resp.StatusCode, buff, errors.Errorf("failed to process http request to [%s], status code [%d], status [%s]", target, resp.StatusCode, resp.Status)
	}
	return resp.StatusCode, buff, nil
}
