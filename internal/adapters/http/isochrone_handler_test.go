package http_test

import (
	"encoding/json"
	"net/http/httptest"
	"net/url"
	"testing"

	handler "github.com/samirrijal/bilbopass/internal/adapters/http"
)

func isochroneURL(values url.Values) string {
	return "/isochrones?" + values.Encode()
}

func validIsochroneParams() url.Values {
	v := url.Values{}
	// Close to the fixture's Central stop (LV95 2,600,000 / 1,199,000, near
	// the old Bern observatory the LV95 projection is centred on) so the
	// walk to the nearest stop never exceeds the 20-minute time budget.
	v.Set("origin_point_latitude", "46.9510")
	v.Set("origin_point_longitude", "7.4386")
	v.Set("departure_date", "2026-06-01")
	v.Set("departure_time", "07:55:00")
	v.Set("time_limit", "20")
	v.Set("isochrone_interval", "20")
	v.Set("display_mode", "circles")
	return v
}

func TestIsochroneHandler_HappyPath(t *testing.T) {
	deps := &handler.Dependencies{Timetable: loadFixtureTimetable(t)}
	app := setupApp(deps)

	req := httptest.NewRequest("GET", isochroneURL(validIsochroneParams()), nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		Isochrones []struct {
			TimeLimit int `json:"time_limit"`
		} `json:"isochrones"`
		DepartureStopCoord [2]float64 `json:"departure_stop_coord"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if len(body.Isochrones) != 1 {
		t.Fatalf("expected 1 isochrone for time_limit == isochrone_interval, got %d", len(body.Isochrones))
	}
}

func TestIsochroneHandler_BadDepartureDate(t *testing.T) {
	deps := &handler.Dependencies{Timetable: loadFixtureTimetable(t)}
	app := setupApp(deps)

	v := validIsochroneParams()
	v.Set("departure_date", "not-a-date")
	req := httptest.NewRequest("GET", isochroneURL(v), nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestIsochroneHandler_DepartureDateOutsideValidityWindow(t *testing.T) {
	deps := &handler.Dependencies{Timetable: loadFixtureTimetable(t)}
	app := setupApp(deps)

	v := validIsochroneParams()
	v.Set("departure_date", "2099-01-01")
	req := httptest.NewRequest("GET", isochroneURL(v), nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestIsochroneHandler_TimeLimitNotMultipleOfInterval(t *testing.T) {
	deps := &handler.Dependencies{Timetable: loadFixtureTimetable(t)}
	app := setupApp(deps)

	v := validIsochroneParams()
	v.Set("time_limit", "25")
	v.Set("isochrone_interval", "20")
	req := httptest.NewRequest("GET", isochroneURL(v), nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestIsochroneHandler_InvalidDisplayMode(t *testing.T) {
	deps := &handler.Dependencies{Timetable: loadFixtureTimetable(t)}
	app := setupApp(deps)

	v := validIsochroneParams()
	v.Set("display_mode", "bogus")
	req := httptest.NewRequest("GET", isochroneURL(v), nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestIsochroneHandler_MissingLatitude(t *testing.T) {
	deps := &handler.Dependencies{Timetable: loadFixtureTimetable(t)}
	app := setupApp(deps)

	v := validIsochroneParams()
	v.Del("origin_point_latitude")
	req := httptest.NewRequest("GET", isochroneURL(v), nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}
