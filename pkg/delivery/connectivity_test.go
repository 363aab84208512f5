package delivery

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestStatic(t *testing.T) {
	if !Static(true).Online(context.Background()) || Static(false).Online(context.Background()) {
		t.Error("Static returned the wrong value")
	}
}

func TestProbe(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	p, err := NewProbe(srv.URL+"/submit", 0)
	if err != nil {
		t.Fatalf("NewProbe: %v", err)
	}
	if !p.Online(context.Background()) {
		t.Error("Online() = false for a listening server")
	}
	srv.Close()
	if p.Online(context.Background()) {
		t.Error("Online() = true after the server closed")
	}
}

func TestNewProbeDefaultPorts(t *testing.T) {
	tests := map[string]string{
		"https://example.com/x":    "example.com:443",
		"http://example.com/x":     "example.com:80",
		"http://example.com:8080/": "example.com:8080",
	}
	for in, want := range tests {
		p, err := NewProbe(in, 0)
		if err != nil {
			t.Fatalf("NewProbe(%q): %v", in, err)
		}
		if p.Addr() != want {
			t.Errorf("NewProbe(%q).Addr() = %q, want %q", in, p.Addr(), want)
		}
	}
	if _, err := NewProbe("not a url", 0); err == nil {
		t.Error("NewProbe accepted a URL without host")
	}
}
