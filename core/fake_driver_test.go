package core

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"testing"
	"time"

	"pkt.systems/ncmctl/schema"
)

type fakeNode struct {
	label    string
	attrs    map[string]string
	text     string
	value    string
	box      Box
	hidden   bool
	parent   *fakeNode
	children map[string][]*fakeNode

	onClick       func()
	onDoubleClick func()
	onHover       func()
}

func newNode(label string) *fakeNode {
	return &fakeNode{label: label, attrs: map[string]string{}, children: map[string][]*fakeNode{}}
}

func (n *fakeNode) add(selector string, kids ...*fakeNode) *fakeNode {
	for _, kid := range kids {
		if kid.parent == nil {
			kid.parent = n
		}
	}
	n.children[selector] = append(n.children[selector], kids...)
	return n
}

func (n *fakeNode) set(selector string, kids ...*fakeNode) {
	delete(n.children, selector)
	n.add(selector, kids...)
}

type pendingChange struct {
	after int
	apply func()
}

// fakeDriver is an in-memory Driver over a tree of fakeNodes. Children are keyed by
// the exact selector string the controller queries with.
type fakeDriver struct {
	root     *fakeNode
	events   []string
	pending  []pendingChange
	queryErr error

	onClickAt func(x, y float64)
	onMoveTo  func(x, y float64)
	onSubmit  func(text string)
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{root: newNode("document")}
}

// later applies fn after n further QueryAll calls, emulating asynchronous rendering.
func (d *fakeDriver) later(n int, fn func()) {
	d.pending = append(d.pending, pendingChange{after: n, apply: fn})
}

func (d *fakeDriver) count(prefix string) int {
	n := 0
	for _, event := range d.events {
		if strings.HasPrefix(event, prefix) {
			n++
		}
	}
	return n
}

func (d *fakeDriver) interactions() int {
	return len(d.events)
}

func (d *fakeDriver) node(n Node) (*fakeNode, error) {
	fn, ok := n.(*fakeNode)
	if !ok || fn == nil {
		return nil, fmt.Errorf("foreign node %T", n)
	}
	return fn, nil
}

func (d *fakeDriver) QueryAll(_ context.Context, scope Node, selector string) ([]Node, error) {
	remaining := d.pending[:0]
	var due []func()
	for _, change := range d.pending {
		change.after--
		if change.after <= 0 {
			due = append(due, change.apply)
			continue
		}
		remaining = append(remaining, change)
	}
	d.pending = remaining
	for _, apply := range due {
		apply()
	}
	if d.queryErr != nil {
		return nil, d.queryErr
	}
	parent := d.root
	if scope != nil {
		fn, err := d.node(scope)
		if err != nil {
			return nil, err
		}
		parent = fn
	}
	var out []Node
	for _, kid := range parent.children[selector] {
		if !kid.hidden {
			out = append(out, kid)
		}
	}
	return out, nil
}

func (d *fakeDriver) Parent(_ context.Context, n Node) (Node, error) {
	fn, err := d.node(n)
	if err != nil {
		return nil, err
	}
	if fn.parent == nil {
		return nil, errors.New("detached node")
	}
	return fn.parent, nil
}

func (d *fakeDriver) Attribute(_ context.Context, n Node, name string) (string, error) {
	fn, err := d.node(n)
	if err != nil {
		return "", err
	}
	return fn.attrs[name], nil
}

func (d *fakeDriver) Text(_ context.Context, n Node) (string, error) {
	fn, err := d.node(n)
	if err != nil {
		return "", err
	}
	return fn.text, nil
}

func (d *fakeDriver) Value(_ context.Context, n Node) (string, error) {
	fn, err := d.node(n)
	if err != nil {
		return "", err
	}
	return fn.value, nil
}

func (d *fakeDriver) Box(_ context.Context, n Node) (Box, error) {
	fn, err := d.node(n)
	if err != nil {
		return Box{}, err
	}
	return fn.box, nil
}

func (d *fakeDriver) Click(_ context.Context, n Node) error {
	fn, err := d.node(n)
	if err != nil {
		return err
	}
	d.events = append(d.events, "click:"+fn.label)
	if fn.onClick != nil {
		fn.onClick()
	}
	return nil
}

func (d *fakeDriver) DoubleClick(_ context.Context, n Node) error {
	fn, err := d.node(n)
	if err != nil {
		return err
	}
	d.events = append(d.events, "dblclick:"+fn.label)
	if fn.onDoubleClick != nil {
		fn.onDoubleClick()
	}
	return nil
}

func (d *fakeDriver) Hover(_ context.Context, n Node) error {
	fn, err := d.node(n)
	if err != nil {
		return err
	}
	d.events = append(d.events, "hover:"+fn.label)
	if fn.onHover != nil {
		fn.onHover()
	}
	return nil
}

func (d *fakeDriver) MoveTo(_ context.Context, x, y float64) error {
	d.events = append(d.events, fmt.Sprintf("move:%g,%g", x, y))
	if d.onMoveTo != nil {
		d.onMoveTo(x, y)
	}
	return nil
}

func (d *fakeDriver) ClickAt(_ context.Context, x, y float64) error {
	d.events = append(d.events, fmt.Sprintf("clickat:%g,%g", x, y))
	if d.onClickAt != nil {
		d.onClickAt(x, y)
	}
	return nil
}

func (d *fakeDriver) Clear(_ context.Context, n Node) error {
	fn, err := d.node(n)
	if err != nil {
		return err
	}
	d.events = append(d.events, "clear:"+fn.label)
	fn.value = ""
	return nil
}

func (d *fakeDriver) Type(_ context.Context, n Node, text string) error {
	fn, err := d.node(n)
	if err != nil {
		return err
	}
	d.events = append(d.events, "type:"+text)
	fn.value += text
	return nil
}

func (d *fakeDriver) Submit(_ context.Context, n Node) error {
	fn, err := d.node(n)
	if err != nil {
		return err
	}
	d.events = append(d.events, "submit:"+fn.value)
	if d.onSubmit != nil {
		d.onSubmit(fn.value)
	}
	return nil
}

var testTiming = schema.Timing{
	ElementTimeout: 60 * time.Millisecond,
	PollInterval:   2 * time.Millisecond,
	SearchTimeout:  120 * time.Millisecond,
}

// playerFixture models the mini player of the client: action bar, volume flyout,
// now-playing labels, playlist drawer and search box.
type playerFixture struct {
	t      *testing.T
	sel    schema.Selectors
	driver *fakeDriver
	ctrl   *Controller

	bar                    *fakeNode
	like, prev, play, next *fakeNode
	volumeButton           *fakeNode
	slider                 *fakeNode
	volumeInput            *fakeNode
}

func newPlayerFixture(t *testing.T, withPlaylist bool) *playerFixture {
	t.Helper()
	sel := schema.DefaultSelectors()
	f := &playerFixture{t: t, sel: sel, driver: newFakeDriver()}
	root := f.driver.root

	f.bar = newNode("bar")
	f.like = newNode("like")
	f.like.attrs[sel.LikedAttribute] = `{"liked":"1"}`
	f.prev = newNode("prev")
	f.play = newNode("play")
	f.play.attrs["class"] = "btn play-btn"
	f.next = newNode("next")
	f.bar.add(sel.ActionButtons, f.like, f.prev, f.play, f.next)
	if withPlaylist {
		root.add(sel.PlayButton, f.play)
	}
	f.play.onClick = func() {
		if f.playing() {
			f.play.attrs["class"] = "btn play-btn"
		} else {
			f.play.attrs["class"] = "btn play-pause-btn"
		}
	}
	f.like.onClick = func() {
		if f.liked() {
			f.like.attrs[sel.LikedAttribute] = `{"liked":"1"}`
		} else {
			f.like.attrs[sel.LikedAttribute] = `{"liked":"0"}`
		}
	}

	f.volumeButton = newNode("volume-button")
	f.slider = newNode("volume-slider")
	f.slider.hidden = true
	f.slider.box = Box{X: 100, Y: 500, Width: 10, Height: 100}
	f.volumeInput = newNode("volume-input")
	f.volumeInput.value = "0.5"
	f.slider.add(sel.VolumeInput, f.volumeInput)
	root.add(sel.VolumeTrigger, f.volumeButton)
	root.add(sel.VolumeSlider, f.slider)
	f.volumeButton.onHover = func() { f.slider.hidden = false }
	f.volumeButton.onClick = func() {
		if !f.slider.hidden {
			f.volumeInput.value = "0"
		}
	}
	f.driver.onMoveTo = func(x, y float64) {
		if x == 0 && y == 0 {
			f.slider.hidden = true
		}
	}
	f.driver.onClickAt = func(x, y float64) {
		box := f.slider.box
		if f.slider.hidden || y < box.Y || y > box.Y+box.Height {
			return
		}
		fraction := (box.Y + box.Height - y) / box.Height
		fraction = max(0.01, min(1, fraction))
		f.volumeInput.value = strconv.FormatFloat(fraction, 'f', 4, 64)
	}

	f.ctrl = NewController(ControllerDeps{Driver: f.driver, Timing: testTiming})
	return f
}

func (f *playerFixture) playing() bool {
	return strings.Contains(f.play.attrs["class"], f.sel.PlayingMarker)
}

func (f *playerFixture) liked() bool {
	return strings.Contains(f.like.attrs[f.sel.LikedAttribute], f.sel.LikedMarker)
}

type fakeRow struct {
	index  string
	name   string
	fields []string
}

type fakeResult struct {
	prompt string
	rows   []fakeRow
	// rowDelay defers rendering the rows by that many queries after the prompt.
	rowDelay int
}

// searchFixture installs a search box whose submissions render a results panel after
// a few queries. Results are keyed by keyword and kind.
type searchFixture struct {
	*playerFixture
	results map[string]map[schema.ResultKind]fakeResult
	delay   int
	panel   *fakeNode
	rows    map[string]*fakeNode
}

func newSearchFixture(t *testing.T) *searchFixture {
	t.Helper()
	f := &searchFixture{
		playerFixture: newPlayerFixture(t, true),
		results:       map[string]map[schema.ResultKind]fakeResult{},
		delay:         3,
		rows:          map[string]*fakeNode{},
	}
	sel := f.sel
	root := f.driver.root
	trigger := newNode("search-trigger")
	input := newNode("search-input")
	input.hidden = true
	trigger.onClick = func() { input.hidden = false }
	root.add(sel.SearchTrigger, trigger)
	root.add(sel.SearchInput, input)
	f.driver.onSubmit = func(text string) {
		f.driver.later(f.delay, func() { f.renderPanel(text) })
	}
	return f
}

func (f *searchFixture) addResult(keyword string, kind schema.ResultKind, result fakeResult) {
	if f.results[keyword] == nil {
		f.results[keyword] = map[schema.ResultKind]fakeResult{}
	}
	f.results[keyword][kind] = result
}

func (f *searchFixture) renderPanel(keyword string) {
	sel := f.sel
	panel := newNode("panel:" + keyword)
	label := newNode("keyword")
	label.text = " " + keyword + "\n"
	panel.add(sel.SearchKeyword, label)
	playAll := newNode("play-all:" + keyword)
	panel.add(sel.SearchPlayAll, playAll)
	for _, kind := range []schema.ResultKind{schema.ResultTrack, schema.ResultPlaylist, schema.ResultAlbum} {
		kindSel, _ := sel.For(kind)
		tab := newNode("tab:" + string(kind))
		kind := kind
		tab.onClick = func() { f.showTab(panel, keyword, kind) }
		panel.add(kindSel.Tab, tab)
	}
	f.panel = panel
	f.driver.root.set(sel.SearchPanel, panel)
}

func (f *searchFixture) showTab(panel *fakeNode, keyword string, kind schema.ResultKind) {
	sel := f.sel
	kindSel, _ := sel.For(kind)
	result := f.results[keyword][kind]
	prompt := newNode("prompt")
	prompt.text = result.prompt
	panel.set(sel.SearchPrompt, prompt)
	panel.set(kindSel.Row)
	if result.rowDelay > 0 {
		f.driver.later(result.rowDelay, func() { f.renderRows(panel, kind, result.rows) })
		return
	}
	f.renderRows(panel, kind, result.rows)
}

func (f *searchFixture) renderRows(panel *fakeNode, kind schema.ResultKind, rows []fakeRow) {
	kindSel, _ := f.sel.For(kind)
	for _, r := range rows {
		row := newNode(string(kind) + ":" + r.index)
		idx := newNode("index")
		idx.text = r.index
		name := newNode("name")
		name.text = r.name
		row.add(kindSel.Index, idx)
		row.add(kindSel.Name, name)
		for i, field := range kindSel.Fields {
			if i >= len(r.fields) {
				break
			}
			value := newNode(field.Label)
			value.text = r.fields[i]
			row.add(field.Selector, value)
		}
		if kindSel.Play != "" {
			play := newNode("row-play:" + r.index)
			play.hidden = true
			row.onHover = func() { play.hidden = false }
			row.add(kindSel.Play, play)
		}
		panel.add(kindSel.Row, row)
		f.rows[string(kind)+":"+r.index] = row
	}
}
