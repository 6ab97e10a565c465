package requestctx

import (
	"context"
	"testing"
)

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := WithRequestID(context.Background(), "web-1")
	if got := RequestIDFromContext(ctx); got != "web-1" {
		t.Fatalf("RequestIDFromContext = %q, want %q", got, "web-1")
	}
}

func TestRequestIDFromContextNil(t *testing.T) {
	if got := RequestIDFromContext(nil); got != "" {
		t.Fatalf("expected empty request id for nil context, got %q", got)
	}
	ctx := WithRequestID(nil, "web-2")
	if got := RequestIDFromContext(ctx); got != "web-2" {
		t.Fatalf("RequestIDFromContext = %q, want %q", got, "web-2")
	}
}

func TestStoryIDFromContext(t *testing.T) {
	if _, ok := StoryIDFromContext(context.Background()); ok {
		t.Fatal("expected no story id")
	}
	if _, ok := StoryIDFromContext(WithStoryID(context.Background(), "")); ok {
		t.Fatal("expected blank story id to be absent")
	}
	ctx := WithStoryID(context.Background(), "story-1")
	got, ok := StoryIDFromContext(ctx)
	if !ok || got != "story-1" {
		t.Fatalf("StoryIDFromContext = %q, %v", got, ok)
	}
}
