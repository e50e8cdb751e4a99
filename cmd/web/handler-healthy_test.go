package main

import (
	"net/http"
	"testing"

	"github.com/gymistic/gymistic/internal/e2etest"
	"github.com/gymistic/gymistic/internal/testhelpers"
)

func testLookupEnv(key string) (string, bool) {
	switch key {
	case "GYMISTIC_SQLITE_URL":
		return ":memory:", true
	case "GYMISTIC_ADDR":
		return "localhost:0", true
	default:
		return "", false
	}
}

func Test_application_healthy(t *testing.T) {
	ctx := t.Context()
	server, err := e2etest.StartServer(t, testhelpers.NewWriter(t), testLookupEnv, run)
	if err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}

	client := server.Client()

	var health struct {
		Status string `json:"status"`
	}
	if err = client.GetJSON(ctx, "/api/healthy", &health); err != nil {
		t.Fatalf("Failed to get health: %v", err)
	}
	if got, want := health.Status, "ok"; got != want {
		t.Errorf("Expected status %q, got %q", want, got)
	}

	t.Run("Unknown route returns 404", func(t *testing.T) {
		resp, err := client.Get(ctx, "/api/nonexistent")
		if err != nil {
			t.Fatalf("Failed to get: %v", err)
		}
		defer resp.Body.Close()
		if got, want := resp.StatusCode, http.StatusNotFound; got != want {
			t.Errorf("Expected status %d, got %d", want, got)
		}
	})
}
