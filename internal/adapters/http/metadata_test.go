package http_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	handler "github.com/samirrijal/bilbopass/internal/adapters/http"
	"github.com/samirrijal/bilbopass/internal/adapters/hrdfcsv"
	"github.com/samirrijal/bilbopass/internal/core/timetable"
)

const fixtureDir = "../../../fixtures/hrdf"

func loadFixtureTimetable(t *testing.T) *timetable.Timetable {
	t.Helper()
	raw, err := hrdfcsv.New(fixtureDir).Load(context.Background())
	if err != nil {
		t.Fatalf("load fixture: %v", err)
	}
	return timetable.Build(raw)
}

func setupApp(deps *handler.Dependencies) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	handler.SetupRoutes(app, deps)
	return app
}

func TestMetadataHandler_ReturnsValidityWindow(t *testing.T) {
	deps := &handler.Dependencies{Timetable: loadFixtureTimetable(t)}
	app := setupApp(deps)

	req := httptest.NewRequest("GET", "/metadata", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		StartDate string `json:"start_date"`
		EndDate   string `json:"end_date"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.StartDate != "2026-01-01" {
		t.Errorf("start_date = %q, want 2026-01-01", body.StartDate)
	}
	if body.EndDate != "2026-12-31" {
		t.Errorf("end_date = %q, want 2026-12-31", body.EndDate)
	}
}

func TestHealthHandler_ReturnsHealthy(t *testing.T) {
	app := setupApp(&handler.Dependencies{Timetable: loadFixtureTimetable(t)})

	req := httptest.NewRequest("GET", "/healthz", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&body)
	if body["status"] != "healthy" {
		t.Errorf("expected healthy status, got %v", body["status"])
	}
}

func TestReadyHandler_NoCacheNoPublisher_StillReady(t *testing.T) {
	app := setupApp(&handler.Dependencies{Timetable: loadFixtureTimetable(t)})

	req := httptest.NewRequest("GET", "/readyz", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200 when cache/publisher are simply unconfigured, got %d", resp.StatusCode)
	}
}
