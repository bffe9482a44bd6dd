package server

import (
	"net"
	"testing"
)

func TestIsLocalhostOrigin(t *testing.T) {
	allowed := []string{
		"http://localhost",
		"http://localhost:7860",
		"https://127.0.0.1:3000",
		"http://app.localhost:5173",
	}
	for _, origin := range allowed {
		if !isLocalhostOrigin(origin) {
			t.Errorf("expected %q to be allowed", origin)
		}
	}

	blocked := []string{
		"https://example.com",
		"http://localhost.evil.com",
		"http://192.168.1.5:8080",
		"not a url at all://",
	}
	for _, origin := range blocked {
		if isLocalhostOrigin(origin) {
			t.Errorf("expected %q to be blocked", origin)
		}
	}
}

func TestCheckPortAvailable(t *testing.T) {
	ln, err := net.Listen("tcp", ":0")
	if err != nil {
		t.Fatalf("listen failed: %v", err)
	}
	defer ln.Close()

	port := ln.Addr().(*net.TCPAddr).Port
	if err := checkPortAvailable(port); err == nil {
		t.Fatalf("expected port %d to be reported busy", port)
	}

	ln.Close()
	if err := checkPortAvailable(port); err != nil {
		t.Fatalf("expected port %d to be free: %v", port, err)
	}
}
