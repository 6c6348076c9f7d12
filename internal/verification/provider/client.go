// Package provider talks to the external company-registry suggestion API
// (DaData findById/party schema) and normalizes its responses into the
// canonical verification result.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"fnsgate/internal/platform/config"
	"fnsgate/internal/verification/inn"
)

const instrumentationName = "fnsgate/internal/verification/provider"

// TransportError reports an upstream communication failure: network error,
// non-2xx status, or a malformed body. It is never cached and is surfaced to
// the caller as a gateway-class error so they may retry.
type TransportError struct {
	Op         string // "request", "status", "decode"
	StatusCode int    // upstream status, zero when the call never completed
	Detail     string // short upstream summary safe to show in error responses
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("registry provider %s failed: status %d: %s", e.Op, e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("registry provider %s failed: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Response mirrors the provider suggestion payload. Only the fields the
// normalizer reads are declared.
type Response struct {
	Suggestions []Suggestion `json:"suggestions"`
}

// Suggestion is one candidate match from the provider.
type Suggestion struct {
	Value string `json:"value"`
	Data  Data   `json:"data"`
}

// Data carries the organization attributes of a suggestion.
type Data struct {
	Name    Name    `json:"name"`
	OGRN    string  `json:"ogrn"`
	OGRNIP  string  `json:"ogrnip"`
	OKVED   string  `json:"okved"`
	OKVEDs  []OKVED `json:"okveds"`
	Address Address `json:"address"`
	State   State   `json:"state"`
}

// Name holds the provider's four name variants.
type Name struct {
	FullWithOPF  string `json:"full_with_opf"`
	ShortWithOPF string `json:"short_with_opf"`
	Full         string `json:"full"`
	Short        string `json:"short"`
}

// OKVED is one entry of the activity-code list.
type OKVED struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Address is the provider's address object.
type Address struct {
	Value string `json:"value"`
}

// State carries the registration status token (ACTIVE, LIQUIDATING, ...).
type State struct {
	Status string `json:"status"`
}

// Client performs a single outbound query per Fetch call. It never retries;
// retry policy, if any, belongs to the caller.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	secretKey  string
}

// NewClient builds a provider client. The configured timeout bounds every
// outbound call, on top of whatever deadline the request context carries.
func NewClient(cfg config.ProviderConfig) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		secretKey:  cfg.SecretKey,
	}
}

// Fetch sends the identifier as the query payload to the provider endpoint.
// The identifier itself is kept out of span attributes, same as the audit
// trail never stores it raw.
func (c *Client) Fetch(ctx context.Context, id inn.INN) (Response, error) {
	ctx, span := otel.Tracer(instrumentationName).Start(ctx, "registry.lookup",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("peer.service", "registry-provider")),
	)
	defer span.End()

	body, err := json.Marshal(map[string]string{"query": id.String()})
	if err != nil {
		return Response{}, fmt.Errorf("marshal provider query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return Response{}, fmt.Errorf("build provider request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Token "+c.apiKey)
	req.Header.Set("X-Secret", c.secretKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return Response{}, &TransportError{Op: "request", Err: err}
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		span.SetStatus(codes.Error, http.StatusText(resp.StatusCode))
		return Response{}, &TransportError{
			Op:         "status",
			StatusCode: resp.StatusCode,
			Detail:     readDetail(resp.Body),
		}
	}

	var decoded Response
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "decode failed")
		return Response{}, &TransportError{Op: "decode", Err: err}
	}
	return decoded, nil
}

// readDetail extracts a short upstream error summary without trusting the
// provider to keep its error bodies small.
func readDetail(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 512))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(raw))
}
