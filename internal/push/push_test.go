package push

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGatewaySend_PostsTokenAndPayload(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	g := NewGateway(GatewayOptions{Endpoint: srv.URL, APIKey: "k-1"})
	err := g.Send(context.Background(), "tok-1", Payload{
		Title: "New message",
		Body:  "hello",
		Data:  map[string]string{"chat_id": "c-1"},
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}

	if gotAuth != "key=k-1" {
		t.Fatalf("auth header = %q", gotAuth)
	}
	if gotBody["to"] != "tok-1" {
		t.Fatalf("token not forwarded: %v", gotBody)
	}
	notif, _ := gotBody["notification"].(map[string]any)
	if notif["title"] != "New message" || notif["body"] != "hello" {
		t.Fatalf("notification payload mismatch: %v", notif)
	}
	data, _ := gotBody["data"].(map[string]any)
	if data["chat_id"] != "c-1" {
		t.Fatalf("data payload mismatch: %v", data)
	}
}

func TestGatewaySend_NonSuccessStatusFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	g := NewGateway(GatewayOptions{Endpoint: srv.URL, APIKey: "k-1"})
	if err := g.Send(context.Background(), "tok-1", Payload{Title: "x"}); err == nil {
		t.Fatalf("non-2xx gateway response must be a delivery failure")
	}
}
