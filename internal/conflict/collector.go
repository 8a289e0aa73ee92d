// Package conflict collects the type conflicts reported while inferring
// example values and turns them into log records and summaries.
package conflict

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/usestring/exemplar-mcp/pkg/document"
	"github.com/usestring/exemplar-mcp/pkg/exemplar"
	"github.com/usestring/exemplar-mcp/pkg/jsoncompact"
)

// Example is one observed value of a conflicting field.
type Example struct {
	Value  document.Value
	Type   exemplar.TypeTag
	Parent *document.Object
}

// Entry aggregates every report for one selector. Examples hold the first
// value seen for each distinct type.
type Entry struct {
	Selector    string
	Examples    []Example
	Occurrences int
}

// Types returns the distinct type tags in first-seen order.
func (e Entry) Types() []exemplar.TypeTag {
	out := make([]exemplar.TypeTag, len(e.Examples))
	for i, ex := range e.Examples {
		out[i] = ex.Type
	}
	return out
}

// Truncation records a nested object skipped by the depth limit.
type Truncation struct {
	Selector string
	Depth    int
}

// Collector is a thread-safe exemplar.Reporter. Reports for the same
// selector are merged, so a collector can be shared across several
// inference runs.
type Collector struct {
	mu        sync.Mutex
	entries   map[string]*Entry
	truncated map[string]int
}

var _ exemplar.DepthReporter = (*Collector)(nil)

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{
		entries:   make(map[string]*Entry),
		truncated: make(map[string]int),
	}
}

// AddConflict records candidates under selector.
func (c *Collector) AddConflict(selector string, candidates []exemplar.Candidate) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[selector]
	if !ok {
		entry = &Entry{Selector: selector}
		c.entries[selector] = entry
	}
	entry.Occurrences++

	for _, cand := range candidates {
		if hasType(entry.Examples, cand.Type) {
			continue
		}
		entry.Examples = append(entry.Examples, Example{
			Value:  cand.Value,
			Type:   cand.Type,
			Parent: cand.Parent,
		})
	}
}

// AddTruncated records a nested object skipped at depth.
func (c *Collector) AddTruncated(selector string, depth int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.truncated[selector] = depth
}

// Conflicts returns copies of all entries sorted by selector.
func (c *Collector) Conflicts() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Entry, 0, len(c.entries))
	for _, e := range c.entries {
		cp := *e
		cp.Examples = append([]Example(nil), e.Examples...)
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Selector < out[j].Selector })
	return out
}

// Truncated returns the depth-limited selectors sorted by selector.
func (c *Collector) Truncated() []Truncation {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Truncation, 0, len(c.truncated))
	for sel, depth := range c.truncated {
		out = append(out, Truncation{Selector: sel, Depth: depth})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Selector < out[j].Selector })
	return out
}

// Len returns the number of conflicting selectors.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Reset drops everything collected so far.
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*Entry)
	c.truncated = make(map[string]int)
}

// Log writes one warning per conflicting selector and one per truncated
// selector. Example values are shortened with opts.
func (c *Collector) Log(ctx context.Context, logger *slog.Logger, opts *jsoncompact.Options) {
	if logger == nil {
		logger = slog.Default()
	}
	for _, e := range c.Conflicts() {
		attrs := []any{
			"selector", e.Selector,
			"types", DescribeAll(e.Types()),
			"occurrences", e.Occurrences,
		}
		for _, ex := range e.Examples {
			attrs = append(attrs, slog.String("example."+Describe(ex.Type), jsoncompact.Preview(ex.Value, opts)))
		}
		logger.WarnContext(ctx, "conflicting field types, field omitted from example", attrs...)
	}
	for _, tr := range c.Truncated() {
		logger.WarnContext(ctx, "nested object beyond depth limit, field omitted from example",
			"selector", tr.Selector,
			"depth", tr.Depth,
		)
	}
}

// Summary is a one-line, human readable account of what was collected.
func (c *Collector) Summary() string {
	conflicts := c.Conflicts()
	truncated := c.Truncated()
	if len(conflicts) == 0 && len(truncated) == 0 {
		return "no conflicts"
	}

	p := message.NewPrinter(language.English)
	observations := 0
	for _, e := range conflicts {
		observations += e.Occurrences
	}

	var parts []string
	if len(conflicts) > 0 {
		parts = append(parts, p.Sprintf("%d conflicting %s (%d %s)",
			len(conflicts), plural(len(conflicts), "field", "fields"),
			observations, plural(observations, "report", "reports")))
	}
	if len(truncated) > 0 {
		parts = append(parts, p.Sprintf("%d %s beyond depth limit",
			len(truncated), plural(len(truncated), "field", "fields")))
	}
	return strings.Join(parts, ", ")
}

func hasType(examples []Example, tag exemplar.TypeTag) bool {
	for _, ex := range examples {
		if ex.Type == tag {
			return true
		}
	}
	return false
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
