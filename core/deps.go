package core

import "pkt.systems/ncmctl/schema"

// ControllerDeps captures the session handle and optional tuning for a Controller.
type ControllerDeps struct {
	// Driver is the live automation session. A nil driver yields a controller whose
	// every action fails with schema.ErrNotInitialized.
	Driver Driver
	// Selectors overrides the default client layout when non-nil.
	Selectors *schema.Selectors
	Timing    schema.Timing
}
