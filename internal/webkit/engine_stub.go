//go:build !webkit

package webkit

import (
	"errors"

	"github.com/olafkfreund/cosmic-ext-web-apps/internal/logging"
	"github.com/olafkfreund/cosmic-ext-web-apps/internal/policy"
)

// ErrUnavailable is returned on builds compiled without the webkit tag.
var ErrUnavailable = errors.New("webkit engine not compiled in, rebuild with -tags webkit")

// Engine is a placeholder on builds without the native toolkit.
type Engine struct{}

// New always fails without the webkit build tag.
func New(Options, *policy.Decisions, func(string), *logging.Logger) (*Engine, error) {
	return nil, ErrUnavailable
}

// Run is a no-op on the stub engine.
func (e *Engine) Run() {}

// Quit is a no-op on the stub engine.
func (e *Engine) Quit() {}
