package utils

import (
	"net/http/httptest"
	"testing"
)

func TestParseHostNoPort(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "ip with port", input: "10.0.0.1:8080", expected: "10.0.0.1"},
		{name: "bare ip", input: "10.0.0.1", expected: "10.0.0.1"},
		{name: "ipv6 with port", input: "[::1]:8080", expected: "::1"},
		{name: "empty", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseHostNoPort(tt.input); got != tt.expected {
				t.Errorf("ParseHostNoPort(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFirstForwardedFor(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "single", input: "1.2.3.4", expected: "1.2.3.4"},
		{name: "chain takes first", input: "1.2.3.4, 5.6.7.8", expected: "1.2.3.4"},
		{name: "trims spaces", input: "  1.2.3.4  ", expected: "1.2.3.4"},
		{name: "empty", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FirstForwardedFor(tt.input); got != tt.expected {
				t.Errorf("FirstForwardedFor(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.1:1234"
	r.Header.Set("X-Forwarded-For", "1.2.3.4")

	if got := ClientIP(r, false); got != "10.0.0.1" {
		t.Errorf("ClientIP(trustProxy=false) = %q, want RemoteAddr host", got)
	}
	if got := ClientIP(r, true); got != "1.2.3.4" {
		t.Errorf("ClientIP(trustProxy=true) = %q, want forwarded IP", got)
	}
}
