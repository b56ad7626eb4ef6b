package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/samirrijal/bilbopass/internal/core/domain"
	"github.com/samirrijal/bilbopass/internal/core/isochrone"
	"github.com/samirrijal/bilbopass/internal/core/routing"
)

// buildSchema creates the GraphQL schema exposing planJourney and
// isochrones over the same use-cases the REST surface serves — an
// alternate transport for the same contract, not a new capability.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	coordType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Coord",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lng": &graphql.Field{Type: graphql.Float},
		},
	})

	sectionType := graphql.NewObject(graphql.ObjectConfig{
		Name: "RouteSection",
		Fields: graphql.Fields{
			"journeyId":       &graphql.Field{Type: graphql.Int},
			"departureStopId": &graphql.Field{Type: graphql.Int},
			"arrivalStopId":   &graphql.Field{Type: graphql.Int},
			"departureAt":     &graphql.Field{Type: graphql.String},
			"arrivalAt":       &graphql.Field{Type: graphql.String},
			"durationMinutes": &graphql.Field{Type: graphql.Int},
		},
	})

	routeResultType := graphql.NewObject(graphql.ObjectConfig{
		Name: "RouteResult",
		Fields: graphql.Fields{
			"departureAt": &graphql.Field{Type: graphql.String},
			"arrivalAt":   &graphql.Field{Type: graphql.String},
			"sections":    &graphql.Field{Type: graphql.NewList(sectionType)},
		},
	})

	isochroneType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Isochrone",
		Fields: graphql.Fields{
			"timeLimit": &graphql.Field{Type: graphql.Int},
			"polygons": &graphql.Field{Type: graphql.NewList(graphql.NewList(coordType))},
		},
	})

	isochroneMapType := graphql.NewObject(graphql.ObjectConfig{
		Name: "IsochroneMap",
		Fields: graphql.Fields{
			"departureStopCoord": &graphql.Field{Type: coordType},
			"boundingBox":        &graphql.Field{Type: graphql.NewList(coordType)},
			"isochrones":         &graphql.Field{Type: graphql.NewList(isochroneType)},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"planJourney": &graphql.Field{
				Type:        routeResultType,
				Description: "Find the best one-to-one journey between two stops",
				Args: graphql.FieldConfigArgument{
					"departureStopId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
					"arrivalStopId":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
					"departureAt":     &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					departureStopID := p.Args["departureStopId"].(int)
					arrivalStopID := p.Args["arrivalStopId"].(int)
					departureAt, err := time.Parse(time.RFC3339, p.Args["departureAt"].(string))
					if err != nil {
						return nil, fmt.Errorf("departureAt must be RFC3339: %w", err)
					}

					result := routing.PlanJourney(deps.Timetable, departureStopID, arrivalStopID, departureAt)
					if result == nil {
						return nil, nil
					}
					return routeResultToGraphQL(*result), nil
				},
			},
			"isochrones": &graphql.Field{
				Type:        isochroneMapType,
				Description: "Compute reachable-area isochrones from an origin point",
				Args: graphql.FieldConfigArgument{
					"originLatitude":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"originLongitude":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"departureAt":       &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"timeLimitMinutes":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
					"intervalMinutes":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
					"displayMode":       &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: "circles"},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					lat := p.Args["originLatitude"].(float64)
					lon := p.Args["originLongitude"].(float64)
					departureAt, err := time.Parse(time.RFC3339, p.Args["departureAt"].(string))
					if err != nil {
						return nil, fmt.Errorf("departureAt must be RFC3339: %w", err)
					}
					timeLimit := time.Duration(p.Args["timeLimitMinutes"].(int)) * time.Minute
					interval := time.Duration(p.Args["intervalMinutes"].(int)) * time.Minute
					mode, ok := isochrone.ParseDisplayMode(p.Args["displayMode"].(string))
					if !ok {
						return nil, fmt.Errorf("displayMode must be \"circles\" or \"contour_line\"")
					}

					result, err := isochrone.ComputeIsochrones(p.Context, deps.Timetable, lat, lon, departureAt, timeLimit, interval, mode)
					if err != nil {
						return nil, err
					}
					return isochroneMapToGraphQL(result), nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

func routeResultToGraphQL(r domain.RouteResult) map[string]interface{} {
	sections := make([]map[string]interface{}, len(r.Sections))
	for i, s := range r.Sections {
		section := map[string]interface{}{
			"departureStopId": s.DepartureStopID,
			"arrivalStopId":   s.ArrivalStopID,
		}
		if s.JourneyID != nil {
			section["journeyId"] = *s.JourneyID
		}
		if s.DepartureAt != nil {
			section["departureAt"] = s.DepartureAt.Format(time.RFC3339)
		}
		if s.ArrivalAt != nil {
			section["arrivalAt"] = s.ArrivalAt.Format(time.RFC3339)
		}
		if s.DurationMinutes != nil {
			section["durationMinutes"] = int(*s.DurationMinutes)
		}
		sections[i] = section
	}
	return map[string]interface{}{
		"departureAt": r.DepartureAt.Format(time.RFC3339),
		"arrivalAt":   r.ArrivalAt.Format(time.RFC3339),
		"sections":    sections,
	}
}

func isochroneMapToGraphQL(m *isochrone.Map) map[string]interface{} {
	isochrones := make([]map[string]interface{}, len(m.Isochrones))
	for i, iso := range m.Isochrones {
		polygons := make([][]map[string]interface{}, len(iso.Polygons))
		for j, ring := range iso.Polygons {
			points := make([]map[string]interface{}, len(ring))
			for k, p := range ring {
				points[k] = map[string]interface{}{"lat": p.Latitude, "lng": p.Longitude}
			}
			polygons[j] = points
		}
		isochrones[i] = map[string]interface{}{"timeLimit": int(iso.TimeLimitMinutes), "polygons": polygons}
	}
	return map[string]interface{}{
		"departureStopCoord": map[string]interface{}{"lat": m.DepartureStopCoord.Latitude, "lng": m.DepartureStopCoord.Longitude},
		"boundingBox": []map[string]interface{}{
			{"lat": m.BoundingBox.Min.Latitude, "lng": m.BoundingBox.Min.Longitude},
			{"lat": m.BoundingBox.Max.Latitude, "lng": m.BoundingBox.Max.Longitude},
		},
		"isochrones": isochrones,
	}
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.Context(),
		})

		return c.JSON(result)
	}
}
