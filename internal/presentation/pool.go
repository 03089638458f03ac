// Package presentation owns the displayed feed: mutable view state replaced
// on every snapshot, row recycling and terminal rendering.
package presentation

import "sync"

// RowTemplate identifies a row layout. Rows are only recycled within a template.
type RowTemplate int

const (
	// TemplateByline is a row that shows an author.
	TemplateByline RowTemplate = iota
	// TemplatePlain is a row without an author line.
	TemplatePlain
)

// RowPool recycles row values keyed by template.
type RowPool[T any] struct {
	newFn func(RowTemplate) *T
	reset func(*T)
	free  map[RowTemplate][]*T
	mu    sync.Mutex
}

// NewRowPool creates a pool. newFn builds a fresh row for a template and
// reset clears a row before it is reused.
func NewRowPool[T any](newFn func(RowTemplate) *T, reset func(*T)) *RowPool[T] {
	return &RowPool[T]{
		newFn: newFn,
		reset: reset,
		free:  make(map[RowTemplate][]*T),
	}
}

// Get returns a recycled row for tpl, or a new one.
func (p *RowPool[T]) Get(tpl RowTemplate) *T {
	p.mu.Lock()
	defer p.mu.Unlock()

	free := p.free[tpl]
	if n := len(free); n > 0 {
		row := free[n-1]
		p.free[tpl] = free[:n-1]

		return row
	}

	return p.newFn(tpl)
}

// Put hands a row back for reuse.
func (p *RowPool[T]) Put(tpl RowTemplate, row *T) {
	if row == nil {
		return
	}

	if p.reset != nil {
		p.reset(row)
	}

	p.mu.Lock()
	p.free[tpl] = append(p.free[tpl], row)
	p.mu.Unlock()
}

// Idle returns how many rows of tpl are waiting for reuse.
func (p *RowPool[T]) Idle(tpl RowTemplate) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return len(p.free[tpl])
}
