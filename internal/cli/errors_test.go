package cli

import (
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"testing"
)

func TestConnectionErrorType(t *testing.T) {
	tests := []struct {
		name     string
		errType  ConnectionErrorType
		expected string
	}{
		{"unknown type", ConnectionErrorUnknown, "Connection error"},
		{"TLS type", ConnectionErrorTLS, "TLS certificate error"},
		{"network type", ConnectionErrorNetwork, "Network error"},
		{"timeout type", ConnectionErrorTimeout, "Connection timeout"},
		{"DNS type", ConnectionErrorDNS, "DNS resolution error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.errType.String()
			if result != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestConnectionError(t *testing.T) {
	tests := []struct {
		name     string
		errType  ConnectionErrorType
		reason   string
		contains []string
	}{
		{"TLS", ConnectionErrorTLS, "x509: certificate is not valid", []string{"TLS certificate verification failed", "Self-signed"}},
		{"network", ConnectionErrorNetwork, "connection refused", []string{"Connection failed", "platform.url"}},
		{"timeout", ConnectionErrorTimeout, "context deadline exceeded", []string{"did not answer in time", "platform.timeout"}},
		{"DNS", ConnectionErrorDNS, "no such host", []string{"could not be resolved"}},
		{"unknown", ConnectionErrorUnknown, "some unknown error", []string{"could not be reached"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := &ConnectionError{
				Endpoint: "https://egeria.example.com:9443",
				Type:     tt.errType,
				Reason:   errors.New(tt.reason),
			}
			msg := err.Error()

			if !strings.Contains(msg, "egeria.example.com:9443") {
				t.Error("expected error message to contain endpoint")
			}
			if !strings.Contains(msg, tt.reason) {
				t.Error("expected error message to contain reason")
			}
			for _, want := range tt.contains {
				if !strings.Contains(msg, want) {
					t.Errorf("expected error message to contain %q, got %q", want, msg)
				}
			}
		})
	}

	t.Run("Unwrap returns underlying error", func(t *testing.T) {
		reason := errors.New("connection refused")
		err := &ConnectionError{Endpoint: "https://example.com", Type: ConnectionErrorNetwork, Reason: reason}

		if !errors.Is(err, reason) {
			t.Errorf("expected errors.Is to find %v", reason)
		}
	})
}

func TestClassifyConnectionError(t *testing.T) {
	t.Run("nil error returns nil", func(t *testing.T) {
		if ClassifyConnectionError(nil, "https://example.com") != nil {
			t.Error("expected nil for nil error")
		}
	})

	hostErr := x509.HostnameError{Certificate: &x509.Certificate{}, Host: "example.com"}

	tests := []struct {
		name     string
		err      error
		expected ConnectionErrorType
	}{
		{"x509 message", errors.New("Get https://example.com: x509: certificate is not valid for hostname"), ConnectionErrorTLS},
		{"x509 HostnameError", fmt.Errorf("connection failed: %w", &hostErr), ConnectionErrorTLS},
		{"TLS handshake", errors.New("TLS handshake error: remote error: tls: bad certificate"), ConnectionErrorTLS},
		{"connection refused", errors.New("dial tcp 127.0.0.1:9443: connect: connection refused"), ConnectionErrorNetwork},
		{"deadline", errors.New("context deadline exceeded"), ConnectionErrorTimeout},
		{"DNS", fmt.Errorf("lookup failed: %w", &net.DNSError{Err: "no such host", Name: "nonexistent.example.com"}), ConnectionErrorDNS},
		{"unknown", errors.New("some random error"), ConnectionErrorUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ClassifyConnectionError(tt.err, "https://example.com")
			if result == nil {
				t.Fatal("expected non-nil result")
			}
			if result.Type != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, result.Type)
			}
		})
	}
}

func TestAsConnectionError(t *testing.T) {
	t.Run("transport errors are classified", func(t *testing.T) {
		urlErr := &url.Error{Op: "Post", URL: "https://localhost:9443/x", Err: errors.New("dial tcp: connect: connection refused")}
		err := AsConnectionError(fmt.Errorf("capability failed: %w", urlErr), "https://localhost:9443")

		var connErr *ConnectionError
		if !errors.As(err, &connErr) {
			t.Fatalf("expected ConnectionError, got %T", err)
		}
		if connErr.Type != ConnectionErrorNetwork {
			t.Errorf("expected Network error type, got %v", connErr.Type)
		}
	})

	t.Run("other errors pass through", func(t *testing.T) {
		orig := errors.New("platform returned 404")
		if AsConnectionError(orig, "https://localhost:9443") != orig {
			t.Error("expected error to be returned unchanged")
		}
		if AsConnectionError(nil, "https://localhost:9443") != nil {
			t.Error("expected nil for nil error")
		}
	})
}

func TestIsTLSError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"x509 certificate invalid", errors.New("x509: certificate is invalid"), true},
		{"certificate signed by unknown authority", errors.New("certificate signed by unknown authority"), true},
		{"TLS handshake error", errors.New("TLS handshake failed"), true},
		{"connection refused", errors.New("connection refused"), false},
		{"timeout", errors.New("context deadline exceeded"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := isTLSError(tt.err)
			if result != tt.expected {
				t.Errorf("isTLSError(%v) = %v, want %v", tt.err, result, tt.expected)
			}
		})
	}
}
