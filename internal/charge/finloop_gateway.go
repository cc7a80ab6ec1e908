package charge

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"flexipay-be/internal/logger"
	"flexipay-be/internal/metrics"

	"go.uber.org/zap"
)

const apiChargesPath = "/api/v2/charges/"

type finloopGateway struct {
	apiKey     string
	secretKey  string
	baseURL    string
	httpClient *http.Client
	stats      *metrics.RequestStats
}

// ----------------- Constructor -----------------

func NewFinloopGateway(apiKey, secretKey, baseURL string) Gateway {
	if apiKey == "" || secretKey == "" {
		logger.L().Warn("Finloop API credentials are empty")
	}

	return &finloopGateway{
		apiKey:    apiKey,
		secretKey: secretKey,
		baseURL:   strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		stats: &metrics.RequestStats{},
	}
}

func (g *finloopGateway) Stats() *metrics.RequestStats {
	return g.stats
}

// ----------------- Send -----------------

// Send performs exactly one round trip. Retrying a charge-creating endpoint
// risks duplicate charges, so retry policy is left to the caller.
func (g *finloopGateway) Send(ctx context.Context, r Request) (Response, error) {
	resp, err := g.send(ctx, r)
	g.stats.Record(err)
	return resp, err
}

func (g *finloopGateway) send(ctx context.Context, r Request) (Response, error) {
	url := g.baseURL + apiChargesPath + r.Path

	log := logger.FromCtx(ctx).With(
		zap.String("url", url),
		zap.String("method", string(r.Method)),
	)

	httpMethod := http.MethodGet
	var payload io.Reader
	if r.Method == MethodCreate {
		httpMethod = http.MethodPost
		if r.Body != nil {
			jsonBody, err := json.Marshal(r.Body)
			if err != nil {
				log.Error("Failed to marshal charge request", zap.Error(err))
				return nil, err
			}
			payload = bytes.NewBuffer(jsonBody)
		}
	}

	req, err := http.NewRequestWithContext(ctx, httpMethod, url, payload)
	if err != nil {
		log.Error("Failed creating request", zap.Error(err))
		return nil, err
	}

	req.SetBasicAuth(g.apiKey, g.secretKey)
	if payload != nil {
		req.Header.Add("Content-Type", "application/json")
	}

	timer := metrics.StartTimer()
	log.Info("Sending charge request to Finloop", zap.Any("body", r.Body))

	httpResp, err := g.httpClient.Do(req)
	if err != nil {
		log.Error("Finloop request failed", zap.Error(err))
		return nil, &TransportError{Err: err}
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		log.Error("Failed to read response body", zap.Error(err))
		return nil, &TransportError{Err: err}
	}

	var decoded Response
	if err := json.Unmarshal(raw, &decoded); err != nil {
		log.Error("Undecodable Finloop response",
			zap.ByteString("raw", raw),
			zap.Error(err),
		)
		return nil, &MalformedResponseError{Raw: string(raw)}
	}

	// A status_code in the decoded body means the gateway rejected the call,
	// whatever the transport status said.
	if rawCode, ok := decoded["status_code"]; ok {
		message, _ := decoded["message"].(string)
		rejected := &GatewayRejectedError{
			StatusCode: asStatusCode(rawCode),
			Message:    message,
		}
		log.Error("Finloop rejected charge call",
			zap.Int("status_code", rejected.StatusCode),
			zap.String("gateway_message", rejected.Message),
		)
		return nil, rejected
	}

	log.Info("Finloop charge call succeeded",
		zap.Int("http_status", httpResp.StatusCode),
		zap.Duration("duration_ms", timer.Duration()),
		zap.Any("response", decoded),
	)

	return decoded, nil
}

func asStatusCode(v interface{}) int {
	switch n := v.(type) {
	case float64:
		if n == math.Trunc(n) {
			return int(n)
		}
	case int:
		return n
	}
	return 0
}
