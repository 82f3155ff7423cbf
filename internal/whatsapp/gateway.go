package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Gateway session status values as reported by the wppconnect-style REST API.
const (
	gatewayConnected = "CONNECTED"
	gatewayQRCode    = "QRCODE"
)

// GatewayTransport drives a WhatsApp HTTP gateway (wppconnect-server API).
// The base URL and session name are injected from config so tests can point
// to a local httptest server.
type GatewayTransport struct {
	baseURL    string
	session    string
	token      string
	httpClient *http.Client
	logger     *zap.Logger

	pollInterval time.Duration

	events chan TransportEvent

	mu        sync.Mutex
	stopWatch chan struct{}
	closed    bool
}

func NewGatewayTransport(baseURL, session, token string, timeout time.Duration, logger *zap.Logger) *GatewayTransport {
	return &GatewayTransport{
		baseURL:      baseURL,
		session:      session,
		token:        token,
		httpClient:   &http.Client{Timeout: timeout},
		logger:       logger,
		pollInterval: 2 * time.Second,
		events:       make(chan TransportEvent, 16),
	}
}

type sessionStatusResponse struct {
	Status string `json:"status"`
	QRCode string `json:"qrcode,omitempty"`
}

type sendMessageRequest struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

type sendMessageResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// Connect starts (or resumes) the gateway session. Stored tokens let a
// previously paired session come up without a QR scan; otherwise the QR
// payload is emitted as a pairing_required event and Connect polls the
// gateway until the operator scans it or ctx expires.
func (g *GatewayTransport) Connect(ctx context.Context) error {
	var start sessionStatusResponse
	if err := g.post(ctx, "start-session", nil, &start); err != nil {
		return fmt.Errorf("start session: %w", err)
	}

	if start.Status == gatewayQRCode {
		g.emit(TransportEvent{Type: TransportPairingRequired, PairingCode: start.QRCode})
		if err := g.waitForPairing(ctx); err != nil {
			return err
		}
	} else if start.Status != gatewayConnected {
		return fmt.Errorf("unexpected session status %q", start.Status)
	}

	g.startWatcher()
	return nil
}

func (g *GatewayTransport) waitForPairing(ctx context.Context) error {
	ticker := time.NewTicker(g.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for pairing: %w", ctx.Err())
		case <-ticker.C:
			var st sessionStatusResponse
			if err := g.get(ctx, "status-session", &st); err != nil {
				return fmt.Errorf("poll session status: %w", err)
			}
			if st.Status == gatewayConnected {
				return nil
			}
		}
	}
}

// startWatcher polls the gateway session status in the background and emits
// a disconnected event as soon as the session is no longer CONNECTED. The
// watcher stops itself after emitting; the next successful Connect starts a
// fresh one.
func (g *GatewayTransport) startWatcher() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return
	}
	if g.stopWatch != nil {
		close(g.stopWatch)
	}
	stop := make(chan struct{})
	g.stopWatch = stop

	go func() {
		ticker := time.NewTicker(g.pollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), g.httpClient.Timeout)
				var st sessionStatusResponse
				err := g.get(ctx, "status-session", &st)
				cancel()
				if err != nil {
					g.logger.Warn("session status poll failed", zap.Error(err))
					continue
				}
				if st.Status != gatewayConnected {
					g.logger.Warn("gateway session dropped", zap.String("status", st.Status))
					g.emit(TransportEvent{Type: TransportDisconnected})
					return
				}
			}
		}
	}()
}

// Send posts the message to the gateway and returns the provider message id.
func (g *GatewayTransport) Send(ctx context.Context, phone, text string) (string, error) {
	var resp sendMessageResponse
	if err := g.post(ctx, "send-message", sendMessageRequest{Phone: phone, Message: text}, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

func (g *GatewayTransport) Events() <-chan TransportEvent {
	return g.events
}

func (g *GatewayTransport) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return nil
	}
	g.closed = true
	if g.stopWatch != nil {
		close(g.stopWatch)
		g.stopWatch = nil
	}
	close(g.events)
	return nil
}

func (g *GatewayTransport) emit(ev TransportEvent) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return
	}
	select {
	case g.events <- ev:
	default:
		g.logger.Warn("transport event dropped: channel full", zap.String("type", string(ev.Type)))
	}
}

func (g *GatewayTransport) url(action string) string {
	return fmt.Sprintf("%s/api/%s/%s", g.baseURL, g.session, action)
}

func (g *GatewayTransport) post(ctx context.Context, action string, payload, out any) error {
	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url(action), body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return g.do(req, out)
}

func (g *GatewayTransport) get(ctx context.Context, action string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.url(action), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return g.do(req, out)
}

func (g *GatewayTransport) do(req *http.Request, out any) error {
	req.Header.Set("Content-Type", "application/json")
	if g.token != "" {
		req.Header.Set("Authorization", "Bearer "+g.token)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("gateway request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected gateway status: %d", resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// compile-time check that GatewayTransport implements Transport
var _ Transport = (*GatewayTransport)(nil)
