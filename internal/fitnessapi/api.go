package fitnessapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/2beens/fittracker/internal/telemetry/metrics"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// DefaultBaseURL is where the fitness tracker backend listens when run locally.
const DefaultBaseURL = "http://localhost:5001/api"

const (
	opCreate         = "create"
	opList           = "list"
	opGet            = "get"
	opUpdate         = "update"
	opDelete         = "delete"
	opCalorieSummary = "calorie_summary"
)

// Api talks to the fitness tracker REST API. It holds no state between calls,
// so one instance is created at startup and shared.
type Api struct {
	baseURL        string // http://localhost:5001/api
	httpClient     *http.Client
	metrics        *metrics.Manager
	fullCreateBody bool
}

type Option func(*Api)

// WithFullCreateBody makes Create send the whole encoded workout,
// instead of only the fields a user fills in.
func WithFullCreateBody() Option {
	return func(a *Api) {
		a.fullCreateBody = true
	}
}

func NewApi(
	baseURL string,
	httpClient *http.Client,
	metricsManager *metrics.Manager,
	opts ...Option,
) *Api {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if metricsManager == nil {
		metricsManager = metrics.NewManager("fittracker", "client", prometheus.NewRegistry())
	}

	a := &Api{
		baseURL:    baseURL,
		httpClient: httpClient,
		metrics:    metricsManager,
	}
	for _, opt := range opts {
		opt(a)
	}

	return a
}

// NewTracedHTTPClient returns a client that propagates and records spans for outgoing requests.
func NewTracedHTTPClient() *http.Client {
	return &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}

type response struct {
	status int
	body   []byte
}

func (r *response) isSuccess() bool {
	return r.status >= 200 && r.status <= 299
}

func (a *Api) endpoint(path string, query url.Values) (string, error) {
	u, err := url.Parse(a.baseURL + path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidEndpoint, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("%w: %s", ErrInvalidEndpoint, a.baseURL+path)
	}
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String(), nil
}

func workoutPath(id string) (string, error) {
	if id == "" {
		return "", fmt.Errorf("%w: workout id empty", ErrInvalidEndpoint)
	}
	return "/workouts/" + url.PathEscape(id), nil
}

// do sends a single request and reads the whole response body.
// Only transport level problems are returned as errors, status handling is up to the caller.
func (a *Api) do(
	ctx context.Context,
	operation, method, path string,
	query url.Values,
	body any,
) (*response, error) {
	endpoint, err := a.endpoint(path, query)
	if err != nil {
		return nil, err
	}

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s request body: %w", operation, err)
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidEndpoint, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	log.Debugf("calling fitness api [%s]: %s %s", operation, method, endpoint)

	a.metrics.GaugeInFlightRequests.Inc()
	defer a.metrics.GaugeInFlightRequests.Dec()
	start := time.Now()
	defer func() {
		a.metrics.HistogramRequestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}()

	resp, err := a.httpClient.Do(req)
	if err != nil {
		a.metrics.CounterTransportErrors.WithLabelValues(operation).Inc()
		return nil, &TransportError{Cause: err}
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		a.metrics.CounterTransportErrors.WithLabelValues(operation).Inc()
		return nil, &TransportError{Cause: fmt.Errorf("read response body: %w", err)}
	}

	a.metrics.CounterRequests.WithLabelValues(operation, strconv.Itoa(resp.StatusCode)).Inc()
	log.Tracef("fitness api [%s] responded %d: %s", operation, resp.StatusCode, respBytes)

	return &response{
		status: resp.StatusCode,
		body:   respBytes,
	}, nil
}
