package core

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Cursor is a lazily paginated, chainable result of a listing query.
//
// The first page is fetched when the cursor is created. Further pages are fetched
// on demand by At, Each and EvaluateFully. Where and Limit reset the cursor and
// fetch again; their arguments accumulate across calls.
type Cursor struct {
	ctx          context.Context
	resourceType *ResourceType

	originalPath string
	nextURL      string
	started      bool
	limit        int // 0 means unlimited
	args         Params

	// readOnly cursors send rawParams verbatim on the first request and cannot be chained.
	readOnly  bool
	rawParams Params

	items    []*Instance
	metadata Record
}

func newCursor(ctx context.Context, t *ResourceType, args Params, limit int) (*Cursor, error) {
	c := &Cursor{
		ctx:          ctx,
		resourceType: t,
		originalPath: t.collectionURL(),
		limit:        limit,
		args:         args.Copy(),
		metadata:     Record{},
	}
	c.reset()
	if err := c.ProcessNextPage(); err != nil {
		return nil, err
	}
	return c, nil
}

func newReadOnlyCursor(ctx context.Context, t *ResourceType, rawParams, args Params, limit int) (*Cursor, error) {
	c := &Cursor{
		ctx:          ctx,
		resourceType: t,
		originalPath: t.collectionURL(),
		limit:        limit,
		args:         args.Copy(),
		readOnly:     true,
		rawParams:    rawParams.Copy(),
		metadata:     Record{},
	}
	c.reset()
	if err := c.ProcessNextPage(); err != nil {
		return nil, err
	}
	return c, nil
}

// newExhaustedCursor returns a cursor that holds nothing and has nothing left to fetch.
func newExhaustedCursor(ctx context.Context, t *ResourceType, args Params, limit int) *Cursor {
	return &Cursor{
		ctx:          ctx,
		resourceType: t,
		originalPath: t.collectionURL(),
		started:      true,
		limit:        limit,
		args:         args.Copy(),
		metadata:     Record{},
	}
}

func (c *Cursor) reset() {
	c.items = nil
	c.started = false
	c.nextURL = c.originalPath
}

// Len returns the number of items fetched so far.
func (c *Cursor) Len() int {
	return len(c.items)
}

// Items returns the items fetched so far.
func (c *Cursor) Items() []*Instance {
	out := make([]*Instance, len(c.items))
	copy(out, c.items)
	return out
}

// Records returns the representations of the items fetched so far.
func (c *Cursor) Records() RecordSet {
	out := make(RecordSet, 0, len(c.items))
	for _, inst := range c.items {
		out = append(out, inst.Representation())
	}
	return out
}

// Fill decodes the items fetched so far into container, a pointer to a slice of structs.
func (c *Cursor) Fill(container any) error {
	return c.Records().Fill(container)
}

// Metadata returns the metadata of the last fetched page.
func (c *Cursor) Metadata() Record {
	return c.metadata
}

// ResourceType returns the type of the items.
func (c *Cursor) ResourceType() *ResourceType {
	return c.resourceType
}

// IterationComplete reports whether nothing more will be fetched:
// the limit has been reached or there is no next page.
func (c *Cursor) IterationComplete() bool {
	return (c.limit > 0 && len(c.items) >= c.limit) || c.nextURL == ""
}

// ProcessNextPage fetches one page and appends its items up to the limit.
// It is a no-op once iteration is complete.
func (c *Cursor) ProcessNextPage() error {
	if c.IterationComplete() {
		return nil
	}
	config := c.resourceType.config
	headers, rest := config.Policy.BuildHeaders(c.args)

	var params Params
	if !c.started {
		if c.readOnly {
			params = c.rawParams
		} else {
			params = config.Policy.BuildParams(c.limit, rest)
		}
	}
	response, err := config.Session.Request(c.ctx, http.MethodGet, c.nextURL, headers, params, nil)
	if err != nil {
		return err
	}
	if !response.IsSuccess() {
		return response.AsError()
	}
	body, err := response.JSON()
	if err != nil {
		return fmt.Errorf("failed to decode page %s: %w", response.URL, err)
	}
	for _, payload := range config.Policy.ExtractList(body) {
		if c.limit > 0 && len(c.items) >= c.limit {
			break
		}
		c.items = append(c.items, c.resourceType.FromJSON(payload))
	}
	c.started = true
	c.nextURL = config.Policy.ExtractNextLink(response)
	c.metadata = config.Policy.ExtractMetadata(response)
	c.clearNextAtLimit()
	return nil
}

// clearNextAtLimit drops the next link once the limit has been reached.
func (c *Cursor) clearNextAtLimit() {
	if c.limit > 0 && len(c.items) >= c.limit {
		c.nextURL = ""
	}
}

// EvaluateFully fetches every remaining page.
func (c *Cursor) EvaluateFully() error {
	for !c.IterationComplete() {
		if err := c.ProcessNextPage(); err != nil {
			return err
		}
	}
	return nil
}

// At returns the item at index i, fetching pages until it is available.
// An index past the last remote item yields an error wrapping ErrIndexOutOfRange.
func (c *Cursor) At(i int) (*Instance, error) {
	if i < 0 {
		return nil, fmt.Errorf("%w: negative index %d", ErrIndexOutOfRange, i)
	}
	for i >= len(c.items) && !c.IterationComplete() {
		if err := c.ProcessNextPage(); err != nil {
			return nil, err
		}
	}
	if i >= len(c.items) {
		return nil, fmt.Errorf("%w: %d (%d items available)", ErrIndexOutOfRange, i, len(c.items))
	}
	return c.items[i], nil
}

// Each calls fn for every item, fetching pages as needed, until fn returns an error.
func (c *Cursor) Each(fn func(i int, inst *Instance) error) error {
	for i := 0; ; i++ {
		inst, err := c.At(i)
		if errors.Is(err, ErrIndexOutOfRange) {
			return nil
		}
		if err != nil {
			return err
		}
		if err = fn(i, inst); err != nil {
			return err
		}
	}
}

// Where merges args into the cursor arguments, resets it and fetches the first page again.
// A "limit" key replaces the limit. A "filtering_arguments" mapping is merged
// key by key into the existing one instead of replacing it.
func (c *Cursor) Where(args Params) (*Cursor, error) {
	if c.readOnly {
		return nil, &RuntimeError{Op: "where", Message: "cannot chain on a read-only cursor"}
	}
	args = args.Copy()
	if raw, ok := args.Pop(ArgLimit); ok {
		limit, err := limitFrom(raw)
		if err != nil {
			return nil, err
		}
		c.limit = limit
	}
	if _, ok := args[ArgFilteringArguments]; ok {
		merged := c.args.StringMap(ArgFilteringArguments)
		for key, op := range args.StringMap(ArgFilteringArguments) {
			merged[key] = op
		}
		c.args[ArgFilteringArguments] = merged
	}
	c.args.UpdateWithout(args, []string{ArgFilteringArguments})
	c.reset()
	return c, c.ProcessNextPage()
}

// Limit changes the limit. A limit not above the number of fetched items
// truncates them in place, anything else resets the cursor and fetches again.
func (c *Cursor) Limit(n int) (*Cursor, error) {
	if c.readOnly {
		return nil, &RuntimeError{Op: "limit", Message: "cannot set a new limit on a read-only cursor"}
	}
	c.limit = n
	if n > 0 && n <= len(c.items) {
		c.items = c.items[:n]
		c.clearNextAtLimit()
		return c, nil
	}
	c.reset()
	return c, c.ProcessNextPage()
}

// FilterBy is shorthand for Where with a single filter.
// An empty operation means "eq". Requires Config.ExperimentalFunctions.
func (c *Cursor) FilterBy(attribute string, value any, operation string) (*Cursor, error) {
	if !c.resourceType.config.ExperimentalFunctions {
		return nil, &RuntimeError{Op: "filter_by_" + attribute, Message: "experimental functions are disabled"}
	}
	if operation == "" {
		operation = DefaultFilterOperation
	}
	return c.Where(Params{
		attribute:             value,
		ArgFilteringArguments: map[string]string{attribute: operation},
	})
}

// SortBy is shorthand for Where(sort=attribute). Requires Config.ExperimentalFunctions.
func (c *Cursor) SortBy(attribute string) (*Cursor, error) {
	if !c.resourceType.config.ExperimentalFunctions {
		return nil, &RuntimeError{Op: "sort_by_" + attribute, Message: "experimental functions are disabled"}
	}
	return c.Where(Params{"sort": attribute})
}

func (c *Cursor) String() string {
	return fmt.Sprintf(
		"Cursor(%s, items=%d, limit=%d, complete=%v, read-only=%v)",
		c.resourceType.Name(), len(c.items), c.limit, c.IterationComplete(), c.readOnly,
	)
}

func limitFrom(raw any) (int, error) {
	if raw == nil {
		return 0, nil
	}
	n, err := toInt(raw)
	if err != nil {
		return 0, &RuntimeError{Op: "limit", Message: fmt.Sprintf("invalid limit %v", raw), Err: err}
	}
	if n < 0 {
		return 0, &RuntimeError{Op: "limit", Message: fmt.Sprintf("invalid limit %d", n)}
	}
	return int(n), nil
}
