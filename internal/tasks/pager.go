package tasks

import (
	"sync"

	"github.com/desertthunder/taskly/internal/models"
)

// DefaultPageSize is the number of tasks shown per page.
const DefaultPageSize = 4

// Source is the list a [Pager] windows over. [*Store] satisfies it.
type Source interface {
	Tasks() []models.Task
	Subscribe(fn Subscriber)
}

// Pager derives a fixed-size page over a [Source] and keeps its page number valid as the list changes.
//
// The current page always satisfies 1 ≤ page ≤ TotalPages().
type Pager struct {
	mu   sync.Mutex
	src  Source
	size int
	page int
}

// NewPager creates a pager on page 1 and subscribes it to src. Non-positive sizes use [DefaultPageSize].
func NewPager(src Source, size int) *Pager {
	if size <= 0 {
		size = DefaultPageSize
	}

	p := &Pager{src: src, size: size, page: 1}
	src.Subscribe(func(tasks []models.Task) { p.clamp(len(tasks)) })
	return p
}

// TotalPagesFor returns the number of pages needed for n items, never less than 1.
func TotalPagesFor(n, size int) int {
	if size <= 0 {
		size = DefaultPageSize
	}
	if n <= 0 {
		return 1
	}
	return (n + size - 1) / size
}

// PageSize returns the number of tasks per page.
func (p *Pager) PageSize() int { return p.size }

// CurrentPage returns the 1-based page number.
func (p *Pager) CurrentPage() int {
	tasks := p.src.Tasks()

	p.mu.Lock()
	defer p.mu.Unlock()
	p.clampLocked(len(tasks))
	return p.page
}

// TotalPages returns max(1, ceil(n/size)).
func (p *Pager) TotalPages() int {
	return TotalPagesFor(len(p.src.Tasks()), p.size)
}

// VisibleSlice returns the tasks on the current page.
func (p *Pager) VisibleSlice() []models.Task {
	tasks := p.src.Tasks()

	p.mu.Lock()
	defer p.mu.Unlock()
	p.clampLocked(len(tasks))

	start := (p.page - 1) * p.size
	end := min(start+p.size, len(tasks))
	if start >= end {
		return []models.Task{}
	}
	return tasks[start:end]
}

// HasNext reports whether [Pager.Next] would move.
func (p *Pager) HasNext() bool {
	return p.CurrentPage() < p.TotalPages()
}

// HasPrevious reports whether [Pager.Previous] would move.
func (p *Pager) HasPrevious() bool {
	return p.CurrentPage() > 1
}

// Next advances one page. It reports false at the last page.
func (p *Pager) Next() bool {
	total := p.TotalPages()

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.page >= total {
		return false
	}
	p.page++
	return true
}

// Previous goes back one page. It reports false at page 1.
func (p *Pager) Previous() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.page <= 1 {
		return false
	}
	p.page--
	return true
}

// SetPage jumps to page n, clamped into range.
func (p *Pager) SetPage(n int) {
	total := p.TotalPages()

	p.mu.Lock()
	defer p.mu.Unlock()
	p.page = max(1, min(n, total))
}

func (p *Pager) clamp(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clampLocked(n)
}

func (p *Pager) clampLocked(n int) {
	total := TotalPagesFor(n, p.size)
	if p.page > total {
		p.page = total
	}
	if p.page < 1 {
		p.page = 1
	}
}
