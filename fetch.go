package target

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// APIDescriptor declares the data fetch a component performs on mount.
type APIDescriptor struct {
	// URL is the base URL of the API.
	URL string

	// Endpoint is the path requested on mount, resolved against URL.
	Endpoint string

	// Headers are set on every request.
	Headers map[string]string
}

// Session is a component-bound fetch task. Its lifetime follows the owning
// component: Destroy cancels the session's context, and a response that
// arrives after cancellation is dropped instead of touching dead state.
type Session struct {
	desc   APIDescriptor
	client *http.Client
	ctx    context.Context
	cancel context.CancelFunc

	done     chan struct{}
	doneOnce sync.Once
}

// NewSession creates a session for the given descriptor. The request is
// not issued here; the lifecycle driver starts it after the first DOM
// write.
func NewSession(desc APIDescriptor) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		desc:   desc,
		client: &http.Client{Timeout: 30 * time.Second},
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
}

// Wait blocks until the mount request has been fully absorbed or dropped,
// or until the session is cancelled. A session whose component is
// destroyed before it ever mounts never issues a request; cancellation
// releases waiters all the same. The main use is deterministic tests.
func (s *Session) Wait() {
	<-s.done
}

// finish releases Wait. Safe to call from both the fetch goroutine and
// Cancel.
func (s *Session) finish() {
	s.doneOnce.Do(func() { close(s.done) })
}

// Get issues a GET for endpoint (resolved against the descriptor URL) and
// decodes the JSON response body.
func (s *Session) Get(ctx context.Context, endpoint string) (any, error) {
	url := joinURL(s.desc.URL, endpoint)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", url, err)
	}
	req.Header.Set("Accept", "application/json")
	for name, value := range s.desc.Headers {
		req.Header.Set(name, value)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("requesting %s: unexpected status %d", url, resp.StatusCode)
	}

	var data any
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", url, err)
	}
	return data, nil
}

// Cancel marks the session's result as ignore-on-arrival, aborts any
// in-flight request, and releases waiters.
func (s *Session) Cancel() {
	s.cancel()
	s.finish()
}

// startFetch issues the session's mount request. The completion path only
// reaches state through SetState, so a component destroyed mid-flight
// absorbs the result as a no-op.
func (t *Target) startFetch(s *Session) {
	go func() {
		defer s.finish()
		data, err := s.Get(s.ctx, s.desc.Endpoint)
		if s.ctx.Err() != nil {
			return
		}
		if err != nil {
			if t.cfg.Logger {
				Logger().Warn("fetch failed",
					zap.String("name", t.name),
					zap.Error(err))
			}
			t.SetState(map[string]any{
				"data":    nil,
				"loading": false,
				"error":   err.Error(),
				"fetched": true,
			})
			return
		}
		t.SetState(map[string]any{
			"data":    data,
			"loading": false,
			"fetched": true,
		})
	}()
}

func joinURL(base, endpoint string) string {
	if base == "" {
		return endpoint
	}
	if endpoint == "" {
		return base
	}
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(endpoint, "/")
}
