package broker

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/alpaca"
)

func TestIsNotFound(t *testing.T) {
	notFound := &alpaca.APIError{StatusCode: 404, Message: "position does not exist"}
	if !IsNotFound(notFound) {
		t.Fatalf("expected 404 to classify as not found")
	}
	if !IsNotFound(fmt.Errorf("fetch position: %w", notFound)) {
		t.Fatalf("expected wrapped 404 to classify as not found")
	}
	if IsNotFound(&alpaca.APIError{StatusCode: 403}) {
		t.Fatalf("403 must not classify as not found")
	}
	if IsNotFound(errors.New("boom")) {
		t.Fatalf("plain error must not classify as not found")
	}
}

func TestWaitForContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := WaitForContext(ctx, time.Minute); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestWaitForContextCompletes(t *testing.T) {
	if err := WaitForContext(context.Background(), time.Millisecond); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}
