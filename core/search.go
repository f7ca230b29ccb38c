package core

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"pkt.systems/pslog"

	"pkt.systems/ncmctl/internal/format"
	"pkt.systems/ncmctl/internal/logx"
	"pkt.systems/ncmctl/schema"
)

// resultSet is the cached outcome of the most recent search. It is replaced, never
// merged, by every search call.
type resultSet struct {
	listing schema.SearchListing
	anchor  Node
	rows    []resultRow
}

type resultRow struct {
	index string
	node  Node
}

func (r *resultSet) lookup(index string) (Node, bool) {
	for _, row := range r.rows {
		if row.index == index {
			return row.node, true
		}
	}
	return nil, false
}

var digitsPattern = regexp.MustCompile(`[0-9]+`)

// parseResultCount extracts the first run of digits from a result-count prompt. A
// count too large for an int saturates at math.MaxInt.
func parseResultCount(prompt string) (int, bool) {
	match := digitsPattern.FindString(prompt)
	if match == "" {
		return 0, false
	}
	n, err := strconv.Atoi(match)
	if errors.Is(err, strconv.ErrRange) {
		return math.MaxInt, true
	}
	if err != nil {
		return 0, false
	}
	return n, true
}

// SearchMusic searches songs and returns a listing of the rendered rows.
func (c *Controller) SearchMusic(ctx context.Context, keyword string) (string, error) {
	return c.searchListing(ctx, schema.ResultTrack, keyword)
}

// SearchMusicList searches playlists and returns a listing of the rendered rows.
func (c *Controller) SearchMusicList(ctx context.Context, keyword string) (string, error) {
	return c.searchListing(ctx, schema.ResultPlaylist, keyword)
}

// SearchAlbum searches albums and returns a listing of the rendered rows.
func (c *Controller) SearchAlbum(ctx context.Context, keyword string) (string, error) {
	return c.searchListing(ctx, schema.ResultAlbum, keyword)
}

func (c *Controller) searchListing(ctx context.Context, kind schema.ResultKind, keyword string) (string, error) {
	listing, err := c.Search(ctx, kind, keyword)
	if err != nil {
		return "", err
	}
	return format.Listing(listing), nil
}

// Search runs a search, switches to the tab of kind and caches the rendered rows as
// the current result set. A prompt without a count is an empty listing, not an error.
func (c *Controller) Search(ctx context.Context, kind schema.ResultKind, keyword string) (schema.SearchListing, error) {
	if err := c.ready(); err != nil {
		return schema.SearchListing{}, err
	}
	sel, ok := c.sel.For(kind)
	if !ok {
		return schema.SearchListing{}, fmt.Errorf("%w: unknown result kind %q", schema.ErrInvalidArgument, kind)
	}
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return schema.SearchListing{}, fmt.Errorf("%w: empty search keyword", schema.ErrInvalidArgument)
	}
	c.results = nil
	log := logx.WithSearch(logx.WithAction(ctx, "search"), keyword, kind)

	panel, err := c.doSearch(ctx, keyword)
	if err != nil {
		return schema.SearchListing{}, err
	}
	tab, err := c.waitElement(ctx, panel, sel.Tab, string(kind)+" tab")
	if err != nil {
		return schema.SearchListing{}, err
	}
	if err := c.driver.Click(ctx, tab); err != nil {
		return schema.SearchListing{}, fmt.Errorf("open %s tab: %w", kind, err)
	}
	if err := sleep(ctx, c.timing.TabSettle); err != nil {
		return schema.SearchListing{}, err
	}

	prompt, err := WaitFor(ctx, c.timing.ElementTimeout, c.timing.PollInterval, func(ctx context.Context) (string, bool, error) {
		node, found, err := c.first(ctx, panel, c.sel.SearchPrompt)
		if err != nil || !found {
			return "", false, err
		}
		text, err := c.driver.Text(ctx, node)
		return normalizeSpace(text), err == nil, err
	})
	if err != nil {
		return schema.SearchListing{}, fmt.Errorf("result count: %w", err)
	}
	listing := schema.SearchListing{Keyword: keyword, Kind: kind}
	count, ok := parseResultCount(prompt)
	if !ok {
		log.Info("search returned no result", "prompt", prompt)
		c.results = &resultSet{listing: listing, anchor: panel}
		return listing, nil
	}
	listing.Count = count

	hits, rows, err := c.readRows(ctx, panel, sel, log)
	if err != nil {
		return schema.SearchListing{}, err
	}
	if count > 0 && len(rows) == 0 {
		// The prompt renders before the rows; wait for the first indexed row.
		type rendered struct {
			hits []schema.SearchHit
			rows []resultRow
		}
		got, err := WaitFor(ctx, c.timing.ElementTimeout, c.timing.PollInterval, func(ctx context.Context) (rendered, bool, error) {
			hits, rows, err := c.readRows(ctx, panel, sel, log)
			return rendered{hits: hits, rows: rows}, err == nil && len(rows) > 0, err
		})
		if err != nil {
			return schema.SearchListing{}, fmt.Errorf("%s rows for a count of %d: %w", kind, count, err)
		}
		hits, rows = got.hits, got.rows
	}
	listing.Hits = hits
	c.results = &resultSet{listing: listing, anchor: panel, rows: rows}
	log.Info("search results cached", "count", count, "rows", len(rows))
	return listing, nil
}

// readRows reads the rendered rows under panel, skipping rows without an index.
func (c *Controller) readRows(ctx context.Context, panel Node, sel schema.ResultSelectors, log pslog.Logger) ([]schema.SearchHit, []resultRow, error) {
	nodes, err := c.driver.QueryAll(ctx, panel, sel.Row)
	if err != nil {
		return nil, nil, fmt.Errorf("list rows: %w", err)
	}
	var hits []schema.SearchHit
	rows := make([]resultRow, 0, len(nodes))
	for _, node := range nodes {
		hit, err := c.readRow(ctx, node, sel)
		if err != nil {
			return nil, nil, err
		}
		if hit.Index == "" {
			log.Debug("skipping row without index", "name", hit.Name)
			continue
		}
		hits = append(hits, hit)
		rows = append(rows, resultRow{index: hit.Index, node: node})
	}
	return hits, rows, nil
}

func (c *Controller) readRow(ctx context.Context, row Node, sel schema.ResultSelectors) (schema.SearchHit, error) {
	index, err := c.textOf(ctx, row, sel.Index)
	if err != nil {
		return schema.SearchHit{}, fmt.Errorf("read row index: %w", err)
	}
	name, err := c.textOf(ctx, row, sel.Name)
	if err != nil {
		return schema.SearchHit{}, fmt.Errorf("read row name: %w", err)
	}
	hit := schema.SearchHit{Index: index, Name: name}
	for _, field := range sel.Fields {
		value, err := c.textOf(ctx, row, field.Selector)
		if err != nil {
			return schema.SearchHit{}, fmt.Errorf("read row %s: %w", strings.ToLower(field.Label), err)
		}
		hit.Fields = append(hit.Fields, schema.Field{Label: field.Label, Value: value})
	}
	return hit, nil
}

// doSearch submits keyword and waits for a results panel whose keyword label equals
// it, so a panel still showing a previous query is never mistaken for the new one.
func (c *Controller) doSearch(ctx context.Context, keyword string) (Node, error) {
	input, err := c.searchInput(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.driver.Click(ctx, input); err != nil {
		return nil, fmt.Errorf("focus search input: %w", err)
	}
	if err := c.driver.Clear(ctx, input); err != nil {
		return nil, fmt.Errorf("clear search input: %w", err)
	}
	if err := c.driver.Type(ctx, input, keyword); err != nil {
		return nil, fmt.Errorf("type keyword: %w", err)
	}
	if err := c.driver.Submit(ctx, input); err != nil {
		return nil, fmt.Errorf("submit search: %w", err)
	}
	want := normalizeSpace(keyword)
	panel, err := WaitFor(ctx, c.timing.SearchTimeout, c.timing.PollInterval, func(ctx context.Context) (Node, bool, error) {
		panels, err := c.driver.QueryAll(ctx, nil, c.sel.SearchPanel)
		if err != nil {
			return nil, false, err
		}
		for _, panel := range panels {
			label, err := c.textOf(ctx, panel, c.sel.SearchKeyword)
			if err != nil {
				return nil, false, err
			}
			if label == want {
				return panel, true, nil
			}
		}
		return nil, false, nil
	})
	if err != nil {
		if errors.Is(err, schema.ErrNotFound) {
			return nil, fmt.Errorf("%w waiting for results of %q: %v", schema.ErrTimeout, keyword, err)
		}
		return nil, err
	}
	return panel, nil
}

// searchInput returns the search box, opening it through the trigger when hidden.
func (c *Controller) searchInput(ctx context.Context) (Node, error) {
	input, found, err := c.first(ctx, nil, c.sel.SearchInput)
	if err != nil {
		return nil, err
	}
	if found {
		return input, nil
	}
	trigger, err := c.waitElement(ctx, nil, c.sel.SearchTrigger, "search box")
	if err != nil {
		return nil, err
	}
	if err := c.driver.Click(ctx, trigger); err != nil {
		return nil, fmt.Errorf("open search box: %w", err)
	}
	return c.waitElement(ctx, nil, c.sel.SearchInput, "search input")
}

// CurrentResults returns the cached listing of the most recent search.
func (c *Controller) CurrentResults() (schema.SearchListing, bool) {
	if c == nil || c.results == nil {
		return schema.SearchListing{}, false
	}
	return c.results.listing, true
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
	}
	return nil
}
