package syncsdk

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Watch subscribes to the signed-in user's profile stream. The first event
// carries the current snapshot; later events are pushed after each
// server-side change. The channel is closed when ctx is cancelled or the
// stream ends; an abnormal termination is reported as a final event with Err
// set.
//
// The subscription uses no client timeout: the stream is long-lived by
// design and lifetime is controlled through ctx.
func (c *Client) Watch(ctx context.Context) (<-chan ProfileEvent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/api/users/me/events", nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	c.authorize(req)

	transport := http.DefaultTransport
	if c.HTTPClient != nil && c.HTTPClient.Transport != nil {
		transport = c.HTTPClient.Transport
	}
	streamClient := &http.Client{Transport: transport}

	resp, err := streamClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("open event stream: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		return nil, parseErrorResponse(resp.StatusCode, body)
	}

	events := make(chan ProfileEvent)
	go c.readEvents(ctx, resp.Body, events)
	return events, nil
}

func (c *Client) readEvents(ctx context.Context, body io.ReadCloser, events chan<- ProfileEvent) {
	defer close(events)
	defer func() {
		_ = body.Close()
	}()

	scanner := bufio.NewScanner(body)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Heartbeats and field lines other than data are ignored.
		data, ok := strings.CutPrefix(line, "data: ")
		if !ok {
			continue
		}

		var profile *UserProfile
		if err := json.Unmarshal([]byte(data), &profile); err != nil {
			c.deliver(ctx, events, ProfileEvent{Err: fmt.Errorf("decode event: %w", err)})
			return
		}

		if !c.deliver(ctx, events, ProfileEvent{Profile: profile}) {
			return
		}
	}

	if err := scanner.Err(); err != nil && ctx.Err() == nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		c.deliver(ctx, events, ProfileEvent{Err: fmt.Errorf("event stream: %w", err)})
	}
}

func (c *Client) deliver(ctx context.Context, events chan<- ProfileEvent, event ProfileEvent) bool {
	select {
	case events <- event:
		return true
	case <-ctx.Done():
		return false
	}
}
