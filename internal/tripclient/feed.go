package tripclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/Stigz/eigernordvan/internal/trip"
	"github.com/Stigz/eigernordvan/internal/version"
)

// FeedURL derives the websocket URL of the live feed from an http(s) base URL.
func FeedURL(baseURL string) (string, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/") + "/trips/feed")
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}

	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported URL scheme %q", u.Scheme)
	}

	return u.String(), nil
}

// Watch subscribes to the live feed and calls fn for every trip logged after
// the subscription started. It blocks until ctx is canceled, the server closes
// the feed, or fn returns an error.
func (c *Client) Watch(ctx context.Context, fn func(trip.Entry) error) error {
	feedURL, err := FeedURL(c.BaseURL)
	if err != nil {
		return NewRequestError("failed to build feed URL", err)
	}

	header := http.Header{}
	header.Set("User-Agent", version.UserAgent())

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, feedURL, header)
	if err != nil {
		return NewNetworkError("failed to open trip feed", err)
	}
	defer func() { _ = conn.Close() }()

	// Unblock ReadMessage when the caller gives up
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return NewNetworkError("trip feed interrupted", err)
		}

		var entry trip.Entry
		if err := json.Unmarshal(data, &entry); err != nil {
			return NewParseError("failed to parse feed entry", err)
		}

		if err := fn(entry); err != nil {
			return err
		}
	}
}
