package core

import (
	"strings"

	"pkt.systems/ncmctl/schema"
)

// Controller drives the music client through a Driver. It owns the session handle and
// the result set of the most recent search. It performs no locking; callers serialize
// actions against one controller.
type Controller struct {
	driver  Driver
	sel     schema.Selectors
	timing  schema.Timing
	results *resultSet
}

// NewController builds a controller around a driver session.
func NewController(deps ControllerDeps) *Controller {
	sel := schema.DefaultSelectors()
	if deps.Selectors != nil {
		sel = *deps.Selectors
	}
	return &Controller{
		driver: deps.Driver,
		sel:    sel,
		timing: schema.NormalizeTiming(deps.Timing),
	}
}

func (c *Controller) ready() error {
	if c == nil || c.driver == nil {
		return schema.ErrNotInitialized
	}
	return nil
}

func normalizeSpace(value string) string {
	return strings.Join(strings.Fields(value), " ")
}
