package core

import "context"

// Node is a driver-specific handle to a rendered element. Handles stay valid until
// the client re-renders the subtree that holds them.
type Node any

// Box is the rendered geometry of an element in viewport pixels.
type Box struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// CenterX returns the horizontal center of the box.
func (b Box) CenterX() float64 { return b.X + b.Width/2 }

// CenterY returns the vertical center of the box.
func (b Box) CenterY() float64 { return b.Y + b.Height/2 }

// Driver is the automation surface the controller needs from a live client session.
type Driver interface {
	// QueryAll returns the displayed elements matching a CSS selector in document
	// order. A nil scope queries the whole document. No match is not an error.
	QueryAll(ctx context.Context, scope Node, selector string) ([]Node, error)
	// Parent returns the parent element of a node.
	Parent(ctx context.Context, node Node) (Node, error)
	// Attribute returns an attribute value, or "" when it is absent.
	Attribute(ctx context.Context, node Node, name string) (string, error)
	// Text returns the rendered text of a node.
	Text(ctx context.Context, node Node) (string, error)
	// Value returns the value property of a form control.
	Value(ctx context.Context, node Node) (string, error)
	// Box returns the rendered geometry of a node.
	Box(ctx context.Context, node Node) (Box, error)

	Click(ctx context.Context, node Node) error
	DoubleClick(ctx context.Context, node Node) error
	// Hover moves the pointer to the center of a node.
	Hover(ctx context.Context, node Node) error
	// MoveTo moves the pointer to viewport coordinates.
	MoveTo(ctx context.Context, x, y float64) error
	// ClickAt clicks at viewport coordinates.
	ClickAt(ctx context.Context, x, y float64) error

	// Clear empties a text input.
	Clear(ctx context.Context, node Node) error
	// Type focuses a node and types text into it.
	Type(ctx context.Context, node Node, text string) error
	// Submit presses Enter in a focused input.
	Submit(ctx context.Context, node Node) error
}
