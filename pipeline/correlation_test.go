package pipeline

import (
	"context"
	"strings"
	"testing"
)

func TestResolveCorrelationID_PassesThroughValid(t *testing.T) {
	got := ResolveCorrelationID("client-supplied-id")
	if got != "client-supplied-id" {
		t.Errorf("ResolveCorrelationID() = %q, want passthrough", got)
	}
}

func TestResolveCorrelationID_GeneratesWhenEmpty(t *testing.T) {
	got := ResolveCorrelationID("")
	if !strings.HasPrefix(got, "req_") {
		t.Errorf("ResolveCorrelationID(\"\") = %q, want req_ prefix", got)
	}
}

func TestResolveCorrelationID_GeneratesWhenTooLong(t *testing.T) {
	long := strings.Repeat("a", 101)
	got := ResolveCorrelationID(long)
	if got == long {
		t.Error("ResolveCorrelationID() did not reject an over-length id")
	}
}

func TestResolveCorrelationID_GeneratesWhenMalformed(t *testing.T) {
	got := ResolveCorrelationID("bad\nid\x01")
	if got == "bad\nid\x01" {
		t.Error("ResolveCorrelationID() did not reject a non-printable id")
	}
}

func TestWithCorrelationID_RoundTrips(t *testing.T) {
	ctx := WithCorrelationID(context.Background(), "req_abc")
	if got := CorrelationIDFromContext(ctx); got != "req_abc" {
		t.Errorf("CorrelationIDFromContext() = %q, want req_abc", got)
	}
}
