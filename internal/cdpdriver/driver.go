package cdpdriver

import (
	"context"
	"fmt"

	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"
	"pkt.systems/ncmctl/core"
)

var _ core.Driver = (*Session)(nil)

// ref identifies an element in the page ref registry.
type ref int64

func refOf(n core.Node) (ref, error) {
	r, ok := n.(ref)
	if !ok || r <= 0 {
		return 0, fmt.Errorf("cdpdriver: foreign node %T", n)
	}
	return r, nil
}

func (s *Session) eval(ctx context.Context, out any, body string, args ...any) error {
	expression, err := script(body, args...)
	if err != nil {
		return err
	}
	return s.Evaluate(ctx, expression, out)
}

// QueryAll returns the displayed elements matching selector under scope, or under
// the document when scope is nil.
func (s *Session) QueryAll(ctx context.Context, scope core.Node, selector string) ([]core.Node, error) {
	var scopeRef ref
	if scope != nil {
		r, err := refOf(scope)
		if err != nil {
			return nil, err
		}
		scopeRef = r
	}
	var refs []int64
	if err := s.eval(ctx, &refs, queryAllScript, scopeRef, selector); err != nil {
		return nil, fmt.Errorf("query %q: %w", selector, err)
	}
	nodes := make([]core.Node, 0, len(refs))
	for _, r := range refs {
		nodes = append(nodes, ref(r))
	}
	return nodes, nil
}

func (s *Session) Parent(ctx context.Context, n core.Node) (core.Node, error) {
	r, err := refOf(n)
	if err != nil {
		return nil, err
	}
	var parent int64
	if err := s.eval(ctx, &parent, parentScript, r); err != nil {
		return nil, err
	}
	return ref(parent), nil
}

func (s *Session) Attribute(ctx context.Context, n core.Node, name string) (string, error) {
	return s.stringOf(ctx, n, attributeScript, name)
}

func (s *Session) Text(ctx context.Context, n core.Node) (string, error) {
	return s.stringOf(ctx, n, textScript)
}

func (s *Session) Value(ctx context.Context, n core.Node) (string, error) {
	return s.stringOf(ctx, n, valueScript)
}

func (s *Session) stringOf(ctx context.Context, n core.Node, body string, extra ...any) (string, error) {
	r, err := refOf(n)
	if err != nil {
		return "", err
	}
	var out string
	if err := s.eval(ctx, &out, body, append([]any{r}, extra...)...); err != nil {
		return "", err
	}
	return out, nil
}

type rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (s *Session) Box(ctx context.Context, n core.Node) (core.Box, error) {
	return s.box(ctx, n, false)
}

func (s *Session) box(ctx context.Context, n core.Node, reveal bool) (core.Box, error) {
	r, err := refOf(n)
	if err != nil {
		return core.Box{}, err
	}
	var out rect
	if err := s.eval(ctx, &out, boxScript, r, reveal); err != nil {
		return core.Box{}, err
	}
	return core.Box{X: out.X, Y: out.Y, Width: out.Width, Height: out.Height}, nil
}

// Click moves the pointer onto the element center and clicks there.
func (s *Session) Click(ctx context.Context, n core.Node) error {
	box, err := s.box(ctx, n, true)
	if err != nil {
		return err
	}
	return s.ClickAt(ctx, box.CenterX(), box.CenterY())
}

func (s *Session) DoubleClick(ctx context.Context, n core.Node) error {
	box, err := s.box(ctx, n, true)
	if err != nil {
		return err
	}
	x, y := box.CenterX(), box.CenterY()
	return s.run(ctx, s.opTimeout(),
		moveTo(x, y),
		chromedp.MouseClickXY(x, y),
		chromedp.MouseClickXY(x, y, chromedp.ClickCount(2)),
	)
}

func (s *Session) Hover(ctx context.Context, n core.Node) error {
	box, err := s.box(ctx, n, true)
	if err != nil {
		return err
	}
	return s.MoveTo(ctx, box.CenterX(), box.CenterY())
}

func (s *Session) MoveTo(ctx context.Context, x, y float64) error {
	return s.run(ctx, s.opTimeout(), moveTo(x, y))
}

func (s *Session) ClickAt(ctx context.Context, x, y float64) error {
	return s.run(ctx, s.opTimeout(), moveTo(x, y), chromedp.MouseClickXY(x, y))
}

func (s *Session) Clear(ctx context.Context, n core.Node) error {
	r, err := refOf(n)
	if err != nil {
		return err
	}
	var ok bool
	return s.eval(ctx, &ok, clearScript, r)
}

// Type focuses the element and inserts text as if typed, which also covers input
// methods for non-ASCII keywords.
func (s *Session) Type(ctx context.Context, n core.Node, text string) error {
	if err := s.focus(ctx, n); err != nil {
		return err
	}
	return s.run(ctx, s.opTimeout(), chromedp.ActionFunc(func(ctx context.Context) error {
		return input.InsertText(text).Do(ctx)
	}))
}

func (s *Session) Submit(ctx context.Context, n core.Node) error {
	if err := s.focus(ctx, n); err != nil {
		return err
	}
	return s.run(ctx, s.opTimeout(), chromedp.KeyEvent(kb.Enter))
}

func (s *Session) focus(ctx context.Context, n core.Node) error {
	r, err := refOf(n)
	if err != nil {
		return err
	}
	var ok bool
	return s.eval(ctx, &ok, focusScript, r)
}

func moveTo(x, y float64) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		return input.DispatchMouseEvent(input.MouseMoved, x, y).Do(ctx)
	})
}
