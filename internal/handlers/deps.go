// Package handlers provides the JSON API handlers for the finance tracker.
package handlers

import (
	"time"

	"github.com/sirupsen/logrus"

	"finance_tracker/internal/auth"
	"finance_tracker/internal/calendar"
	"finance_tracker/internal/services"
)

// Dependencies holds all handler dependencies.
// This reduces constructor parameter lists and simplifies dependency injection.
type Dependencies struct {
	Services *services.Services
	Verifier *auth.Verifier
	Log      logrus.FieldLogger

	// Clock returns the current calendar day. Handlers never read the wall clock directly.
	Clock func() time.Time

	DemoMode bool
}

// NewDependencies creates a Dependencies container with token auth disabled,
// the standard logger and the real calendar.
// Use the builder pattern to set required dependencies.
func NewDependencies() *Dependencies {
	return &Dependencies{
		Verifier: auth.NewVerifier(""),
		Log:      logrus.StandardLogger(),
		Clock:    calendar.Today,
	}
}

// WithServices sets the service layer.
func (d *Dependencies) WithServices(s *services.Services) *Dependencies {
	d.Services = s
	return d
}

// WithVerifier sets the API token verifier.
func (d *Dependencies) WithVerifier(v *auth.Verifier) *Dependencies {
	d.Verifier = v
	return d
}

// WithLogger sets the logger.
func (d *Dependencies) WithLogger(l logrus.FieldLogger) *Dependencies {
	d.Log = l
	return d
}

// WithClock sets the source of "today".
func (d *Dependencies) WithClock(clock func() time.Time) *Dependencies {
	d.Clock = clock
	return d
}

// WithDemoMode marks the server as a read-mostly demo.
func (d *Dependencies) WithDemoMode(demo bool) *Dependencies {
	d.DemoMode = demo
	return d
}

func (d *Dependencies) today() time.Time {
	return calendar.Day(d.Clock())
}
