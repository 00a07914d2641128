package httpapi

import (
	"errors"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-dashboard/internal/advice"
	"github.com/i474232898/weather-dashboard/internal/dashboard"
	"github.com/i474232898/weather-dashboard/internal/forecast"
	"github.com/i474232898/weather-dashboard/internal/store"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *dashboard.Service) {
	v1 := app.Group("/api/v1")
	gw := service.Gateway()

	v1.Get("/weather/current", func(c *fiber.Ctx) error {
		q, err := parsePlaceQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		var snap weather.Snapshot
		if q.byName() {
			snap, err = gw.CurrentByName(c.UserContext(), q.City)
		} else {
			snap, err = gw.CurrentByCoords(c.UserContext(), q.lat, q.lon)
		}
		if err != nil {
			return gatewayError("current weather", err)
		}
		return c.JSON(newSnapshotView(snap))
	})

	v1.Get("/weather/forecast", func(c *fiber.Ctx) error {
		q, err := parseCoordQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		samples := gw.Forecast(c.UserContext(), q.lat, q.lon)
		return c.JSON(newForecastView(forecast.Hourly(samples), forecast.Daily(samples)))
	})

	v1.Get("/weather/air-quality", func(c *fiber.Ctx) error {
		q, err := parseCoordQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		return c.JSON(fiber.Map{
			"airQuality": gw.AirQuality(c.UserContext(), q.lat, q.lon),
		})
	})

	v1.Get("/weather/advice", func(c *fiber.Ctx) error {
		q, err := parsePlaceQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		var snap weather.Snapshot
		if q.byName() {
			snap, err = gw.CurrentByName(c.UserContext(), q.City)
		} else {
			snap, err = gw.CurrentByCoords(c.UserContext(), q.lat, q.lon)
		}
		if err != nil {
			return gatewayError("advice", err)
		}
		return c.JSON(adviceView{
			RecommendationSet: advice.Recommend(snap),
			Alert:             advice.AlertFor(snap),
		})
	})

	v1.Get("/places/search", func(c *fiber.Ctx) error {
		q := searchQuery{Q: strings.TrimSpace(c.Query("q"))}
		if err := validate.Struct(q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		matches, err := gw.SearchPlaces(c.UserContext(), q.Q)
		if err != nil {
			return gatewayError("place search", err)
		}
		return c.JSON(matches)
	})

	v1.Get("/dashboard", func(c *fiber.Ctx) error {
		q, err := parsePlaceQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		var report dashboard.Report
		if q.byName() {
			report, err = service.ByName(c.UserContext(), q.City)
		} else {
			report, err = service.ByCoords(c.UserContext(), q.lat, q.lon)
		}
		if err != nil {
			return gatewayError("dashboard", err)
		}
		return c.JSON(newReportView(report))
	})

	v1.Get("/observations/latest", func(c *fiber.Ctx) error {
		locReq, err := parseLocationQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		loc := locReq.toLocation()
		snapshot, err := service.Latest(c.UserContext(), loc)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no observations for requested location")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to load observations")
		}

		return c.JSON(newSnapshotView(snapshot))
	})

	v1.Get("/observations/history", func(c *fiber.Ctx) error {
		var req historyQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		loc := req.Location.toLocation()
		snapshots, err := service.History(c.UserContext(), loc, req.From, req.To)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no observations for requested range")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to load observations")
		}

		views := make([]snapshotView, 0, len(snapshots))
		for _, s := range snapshots {
			views = append(views, newSnapshotView(s))
		}
		return c.JSON(fiber.Map{
			"location":  loc,
			"from":      req.From,
			"to":        req.To,
			"snapshots": views,
		})
	})

	v1.Get("/observations/summary", func(c *fiber.Ctx) error {
		var req historyQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		summary, err := service.Summary(c.UserContext(), req.Location.toLocation(), req.From, req.To)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no observations for requested range")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to summarize observations")
		}
		return c.JSON(summary)
	})
}

// gatewayError maps a gateway failure onto an HTTP error. Not-found places
// surface as 404; every other upstream failure is a bad gateway.
func gatewayError(what string, err error) error {
	if errors.Is(err, weather.ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "city not found")
	}
	log.Printf("ERROR: %s lookup failed: %v", what, err)
	return fiber.NewError(fiber.StatusBadGateway, "failed to fetch weather data")
}

// coordQuery holds latitude/longitude query parameters.
type coordQuery struct {
	Lat string `validate:"required,latitude"`
	Lon string `validate:"required,longitude"`

	lat, lon float64
}

func parseCoordQuery(c *fiber.Ctx) (coordQuery, error) {
	q := coordQuery{
		Lat: strings.TrimSpace(c.Query("lat")),
		Lon: strings.TrimSpace(c.Query("lon")),
	}
	if err := validate.Struct(q); err != nil {
		return q, err
	}
	return q, q.parse()
}

func (q *coordQuery) parse() error {
	var err error
	if q.lat, err = strconv.ParseFloat(q.Lat, 64); err != nil {
		return errors.New("invalid lat parameter")
	}
	if q.lon, err = strconv.ParseFloat(q.Lon, 64); err != nil {
		return errors.New("invalid lon parameter")
	}
	return nil
}

// placeQuery identifies a lookup either by name or by coordinates. A name
// wins when both are given.
type placeQuery struct {
	City string
	coordQuery
}

func (q placeQuery) byName() bool { return q.City != "" }

func parsePlaceQuery(c *fiber.Ctx) (placeQuery, error) {
	q := placeQuery{City: strings.TrimSpace(c.Query("city"))}
	if q.byName() {
		return q, nil
	}
	if c.Query("lat") == "" && c.Query("lon") == "" {
		return q, errors.New("location is required (provide city or lat/lon)")
	}

	coords, err := parseCoordQuery(c)
	if err != nil {
		return q, err
	}
	q.coordQuery = coords
	return q, nil
}

type searchQuery struct {
	Q string `validate:"required,max=100"`
}

// locationQuery holds query parameters for identifying a tracked location.
type locationQuery struct {
	City    string `validate:"required"`
	Country string
}

func (l locationQuery) toLocation() weather.Location {
	return weather.Location{
		City:    l.City,
		Country: l.Country,
	}
}

func parseLocationQuery(c *fiber.Ctx) (locationQuery, error) {
	var q locationQuery

	q.City = c.Query("city")
	q.Country = c.Query("country")

	if err := validate.Struct(q); err != nil {
		return q, err
	}

	return q, nil
}

// historyQuery holds query parameters for the history endpoints.
type historyQuery struct {
	Location locationQuery
	From     time.Time `validate:"required"`
	To       time.Time `validate:"required,gtefield=From"`
}

func (h *historyQuery) bind(c *fiber.Ctx) error {
	loc, err := parseLocationQuery(c)
	if err != nil {
		return err
	}
	h.Location = loc

	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" || toStr == "" {
		return errors.New("from and to query parameters are required")
	}

	from, err := parseTime(fromStr)
	if err != nil {
		return err
	}
	to, err := parseTime(toStr)
	if err != nil {
		return err
	}

	h.From = from
	h.To = to
	return nil
}

// parseTime tries to parse either RFC3339 or Unix seconds.
func parseTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, errors.New("invalid time format; use RFC3339 or unix seconds")
}
