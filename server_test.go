package todoagent

import (
	"context"
	"testing"
	"time"

	"pkt.systems/todoagent/httpapi"
	"pkt.systems/todoagent/internal/store"
	"pkt.systems/todoagent/schema"
)

func TestNewRequiresStore(t *testing.T) {
	if _, err := New(ServerConfig{}, ServerDeps{}); err == nil {
		t.Fatalf("expected store requirement error")
	}
}

func TestServerStartStop(t *testing.T) {
	srv, err := New(ServerConfig{
		Service: schema.ServiceConfig{},
		HTTP:    httpapi.Config{Addr: "127.0.0.1:0"},
	}, ServerDeps{Store: store.NewMemory()})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}

	ctx := context.Background()
	if err := srv.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := srv.Start(ctx); err == nil {
		t.Fatalf("expected second start to be rejected")
	}

	done := make(chan error, 1)
	go func() { done <- srv.Wait() }()

	stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Stop(stopCtx); err != nil {
		t.Fatalf("stop: %v", err)
	}

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("wait: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("wait did not return after stop")
	}
}

func TestStopBeforeStart(t *testing.T) {
	srv, err := New(ServerConfig{
		HTTP: httpapi.Config{Addr: "127.0.0.1:0"},
	}, ServerDeps{Store: store.NewMemory()})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	if err := srv.Stop(context.Background()); err != nil {
		t.Fatalf("stop before start: %v", err)
	}
}
