package handler

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func TestHealthHandler_Liveness(t *testing.T) {
	h := NewHealthHandler()
	c, rec := newTestContext(t, http.MethodGet, "/health", "")

	if err := h.Liveness(c); err != nil {
		t.Fatalf("Liveness() error = %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	resp := decodeBody(t, rec)
	if resp["status"] != "ok" {
		t.Errorf("status = %v, want ok", resp["status"])
	}
}

func TestReadinessHandler_DownDependenciesHideDetail(t *testing.T) {
	// Both backends point at closed ports, so both pings fail fast.
	const deadAddr = "127.0.0.1:1"

	mongoClient, err := mongo.Connect(context.Background(), options.Client().
		ApplyURI("mongodb://"+deadAddr).
		SetServerSelectionTimeout(200*time.Millisecond))
	if err != nil {
		t.Fatalf("mongo.Connect() error = %v", err)
	}
	t.Cleanup(func() { _ = mongoClient.Disconnect(context.Background()) })

	rdb := redis.NewClient(&redis.Options{Addr: deadAddr, DialTimeout: 200 * time.Millisecond})
	t.Cleanup(func() { _ = rdb.Close() })

	h := NewReadinessHandler(mongoClient.Database("test"), rdb, zerolog.Nop())
	c, rec := newTestContext(t, http.MethodGet, "/health/ready", "")

	if err := h.Readiness(c); err != nil {
		t.Fatalf("Readiness() error = %v", err)
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}

	resp := decodeBody(t, rec)
	if resp["status"] != "degraded" {
		t.Errorf("status = %v, want degraded", resp["status"])
	}
	deps, ok := resp["dependencies"].(map[string]any)
	if !ok {
		t.Fatalf("dependencies missing from response: %v", resp)
	}
	if deps["mongodb"] != "unhealthy" || deps["redis"] != "unhealthy" {
		t.Errorf("dependencies = %v, want both unhealthy", deps)
	}

	// The probe is unauthenticated: no addresses or driver errors on the wire.
	body := rec.Body.String()
	if strings.Contains(body, deadAddr) || strings.Contains(body, "connection refused") {
		t.Errorf("response leaks connection detail: %s", body)
	}
}
