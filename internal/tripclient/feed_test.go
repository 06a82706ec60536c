package tripclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Stigz/eigernordvan/internal/trip"
)

func TestFeedURL(t *testing.T) {
	tests := []struct {
		base    string
		want    string
		wantErr bool
	}{
		{"http://localhost:8080", "ws://localhost:8080/trips/feed", false},
		{"https://api.example.ch/prod/", "wss://api.example.ch/prod/trips/feed", false},
		{"ws://host", "ws://host/trips/feed", false},
		{"ftp://host", "", true},
	}

	for _, tt := range tests {
		got, err := FeedURL(tt.base)
		if (err != nil) != tt.wantErr {
			t.Errorf("FeedURL(%q) error = %v, wantErr %v", tt.base, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("FeedURL(%q) = %q, want %q", tt.base, got, tt.want)
		}
	}
}

func TestWatch_DeliversEntries(t *testing.T) {
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/trips/feed" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		conn.WriteJSON(trip.Entry{ID: "1", UserName: "Alex", DeltaKM: 54})
		conn.WriteJSON(trip.Entry{ID: "2", UserName: "Sam", DeltaKM: 12})
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		time.Sleep(50 * time.Millisecond)
	}))
	defer server.Close()

	var got []trip.Entry
	client := NewClient(server.URL)
	err := client.Watch(context.Background(), func(e trip.Entry) error {
		got = append(got, e)
		return nil
	})

	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	if len(got) != 2 || got[0].ID != "1" || got[1].UserName != "Sam" {
		t.Errorf("entries = %+v", got)
	}
}

func TestWatch_CallbackErrorStops(t *testing.T) {
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		conn.WriteJSON(trip.Entry{ID: "1"})
		conn.ReadMessage()
	}))
	defer server.Close()

	stop := errors.New("enough")
	err := NewClient(server.URL).Watch(context.Background(), func(trip.Entry) error { return stop })

	if !errors.Is(err, stop) {
		t.Errorf("Watch() error = %v, want callback error", err)
	}
}

func TestWatch_ContextCancel(t *testing.T) {
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		conn.ReadMessage()
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := NewClient(server.URL).Watch(ctx, func(trip.Entry) error { return nil })
	if err != nil {
		t.Errorf("Watch() after cancel error = %v, want nil", err)
	}
}
