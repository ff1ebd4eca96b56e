package httpapi

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"

	"github.com/i474232898/weather-lookup/internal/geo"
	"github.com/i474232898/weather-lookup/internal/session"
	"github.com/i474232898/weather-lookup/internal/weather"
	"github.com/i474232898/weather-lookup/internal/widget"
)

var validate = validator.New()

// Deps are the collaborators the routes need.
type Deps struct {
	Sessions *session.Store
	// NewWidget builds the orchestrator for a new session bootstrapped from locator.
	NewWidget func(locator geo.Locator) *widget.Orchestrator
	// DefaultLocator is used when a client doesn't report its own geolocation outcome.
	DefaultLocator geo.Locator
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, d Deps) {
	v1 := app.Group("/api/v1")

	v1.Post("/sessions", func(c *fiber.Ctx) error {
		var req createSessionRequest
		if err := bindJSON(c, &req); err != nil {
			return err
		}

		locator, err := req.locator(d.DefaultLocator)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		w := d.NewWidget(locator)
		sess := d.Sessions.Create(w)
		w.Start()

		return c.Status(fiber.StatusCreated).JSON(newSessionResponse(sess))
	})

	v1.Get("/sessions/:id", func(c *fiber.Ctx) error {
		sess, err := lookup(d.Sessions, c)
		if err != nil {
			return err
		}
		return c.JSON(newSessionResponse(sess))
	})

	v1.Put("/sessions/:id/query", func(c *fiber.Ctx) error {
		sess, err := lookup(d.Sessions, c)
		if err != nil {
			return err
		}

		var req queryRequest
		if err := bindJSON(c, &req); err != nil {
			return err
		}

		sess.Widget.SetQuery(req.Text)
		return c.Status(fiber.StatusAccepted).JSON(newSessionResponse(sess))
	})

	v1.Post("/sessions/:id/select", func(c *fiber.Ctx) error {
		sess, err := lookup(d.Sessions, c)
		if err != nil {
			return err
		}

		var req selectRequest
		if err := bindJSON(c, &req); err != nil {
			return err
		}

		ctx := c.UserContext()
		switch {
		case req.Index != nil:
			err = sess.Widget.SelectSuggestion(ctx, *req.Index)
		case req.Lat != nil && req.Lon != nil:
			err = sess.Widget.SelectLocation(ctx, weather.Coordinates{Lat: *req.Lat, Lon: *req.Lon})
		default:
			return fiber.NewError(fiber.StatusBadRequest, "either index or lat and lon are required")
		}
		if errors.Is(err, widget.ErrNoSuggestion) {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		// Fetch failures are reported through the view's error slot.
		return c.JSON(newSessionResponse(sess))
	})

	v1.Delete("/sessions/:id", func(c *fiber.Ctx) error {
		if err := d.Sessions.Delete(c.Params("id")); err != nil {
			if errors.Is(err, session.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "session not found")
			}
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}

// RateLimit rejects requests beyond the limiter's budget with 429.
func RateLimit(lim *rate.Limiter) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !lim.Allow() {
			return fiber.NewError(fiber.StatusTooManyRequests, "too many requests")
		}
		return c.Next()
	}
}

func lookup(store *session.Store, c *fiber.Ctx) (*session.Session, error) {
	sess, err := store.Get(c.Params("id"))
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "session not found")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "failed to load session")
	}
	return sess, nil
}

// bindJSON parses an optional JSON body into dst and validates it.
func bindJSON(c *fiber.Ctx, dst any) error {
	if len(c.Body()) > 0 {
		if err := c.BodyParser(dst); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
	}
	if err := validate.Struct(dst); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return nil
}

type sessionResponse struct {
	ID   string      `json:"id"`
	View widget.View `json:"view"`
}

func newSessionResponse(sess *session.Session) sessionResponse {
	return sessionResponse{ID: sess.ID, View: sess.View()}
}
