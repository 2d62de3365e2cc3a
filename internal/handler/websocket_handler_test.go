package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/obras-hq/obras-backend/internal/websocket"
)

func TestCheckOrigin(t *testing.T) {
	handler := NewWebSocketHandler(websocket.NewHub(), []string{"https://app.obras.example"})

	tests := []struct {
		name   string
		origin string
		want   bool
	}{
		{"no origin header", "", true},
		{"allowed origin", "https://app.obras.example", true},
		{"disallowed origin", "https://evil.example", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/ws", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			if got := handler.checkOrigin(req); got != tt.want {
				t.Errorf("checkOrigin(%q) = %v, want %v", tt.origin, got, tt.want)
			}
		})
	}
}

func TestHandleWS_RejectsPlainHTTP(t *testing.T) {
	e := echo.New()
	hub := websocket.NewHub()
	handler := NewWebSocketHandler(hub, nil)

	// Missing upgrade headers: the upgrader writes its own error response
	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.HandleWS(c); err == nil {
		t.Error("Expected an error for a non-upgrade request")
	}
	if hub.ClientCount() != 0 {
		t.Error("Expected no registered clients")
	}
}
