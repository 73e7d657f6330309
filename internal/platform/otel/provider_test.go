package otel

import (
	"context"
	"testing"
)

func TestSetup_noopWhenEndpointEmpty(t *testing.T) {
	t.Parallel()

	shutdown, err := Setup(context.Background(), Options{ServiceName: "kiosk-listings", Enabled: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestSetup_noopWhenDisabled(t *testing.T) {
	t.Parallel()

	shutdown, err := Setup(context.Background(), Options{
		ServiceName: "kiosk-listings",
		Endpoint:    "http://localhost:4318",
		Enabled:     false,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestSetup_createsProvider(t *testing.T) {
	// ルーティングされないアドレスなので実際には送信されない
	shutdown, err := Setup(context.Background(), Options{
		ServiceName: "kiosk-listings",
		Endpoint:    "http://192.0.2.1:4318",
		Enabled:     true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}
