package http_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	handler "github.com/samirrijal/bilbopass/internal/adapters/http"
)

func doGraphQL(t *testing.T, deps *handler.Dependencies, query string) map[string]interface{} {
	t.Helper()
	app := setupApp(deps)

	payload, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest("POST", "/graphql", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	return body
}

func TestGraphQL_PlanJourney(t *testing.T) {
	deps := &handler.Dependencies{Timetable: loadFixtureTimetable(t)}

	query := `{
		planJourney(departureStopId: 8501000, arrivalStopId: 8501005, departureAt: "2026-06-01T07:55:00Z") {
			departureAt
			arrivalAt
			sections { journeyId departureStopId arrivalStopId }
		}
	}`
	body := doGraphQL(t, deps, query)

	if errs, ok := body["errors"]; ok {
		t.Fatalf("unexpected graphql errors: %v", errs)
	}
	data, ok := body["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected data object, got %v", body)
	}
	journey, ok := data["planJourney"].(map[string]interface{})
	if !ok || journey == nil {
		t.Fatalf("expected a planJourney result, got %v", data["planJourney"])
	}
	sections, ok := journey["sections"].([]interface{})
	if !ok || len(sections) == 0 {
		t.Fatalf("expected at least one section, got %v", journey["sections"])
	}
}

func TestGraphQL_PlanJourney_NoRoute_ReturnsNull(t *testing.T) {
	deps := &handler.Dependencies{Timetable: loadFixtureTimetable(t)}

	// departing at the very end of the timetable's validity window leaves
	// no operating day within reach (today's service already ran, and
	// tomorrow is outside the calendar), so no route can be found.
	query := `{
		planJourney(departureStopId: 8501000, arrivalStopId: 8501005, departureAt: "2026-12-31T23:55:00Z") {
			arrivalAt
		}
	}`
	body := doGraphQL(t, deps, query)

	data, ok := body["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected data object, got %v", body)
	}
	if data["planJourney"] != nil {
		t.Errorf("expected no route past the end of the timetable's validity window, got %v", data["planJourney"])
	}
}

func TestGraphQL_Isochrones(t *testing.T) {
	deps := &handler.Dependencies{Timetable: loadFixtureTimetable(t)}

	query := `{
		isochrones(originLatitude: 46.9510, originLongitude: 7.4386, departureAt: "2026-06-01T07:55:00Z", timeLimitMinutes: 20, intervalMinutes: 20) {
			departureStopCoord { lat lng }
			isochrones { timeLimit }
		}
	}`
	body := doGraphQL(t, deps, query)

	if errs, ok := body["errors"]; ok {
		t.Fatalf("unexpected graphql errors: %v", errs)
	}
	data, ok := body["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected data object, got %v", body)
	}
	isoMap, ok := data["isochrones"].(map[string]interface{})
	if !ok || isoMap == nil {
		t.Fatalf("expected an isochrones result, got %v", data["isochrones"])
	}
	isochrones, ok := isoMap["isochrones"].([]interface{})
	if !ok || len(isochrones) != 1 {
		t.Fatalf("expected exactly 1 isochrone, got %v", isoMap["isochrones"])
	}
}
