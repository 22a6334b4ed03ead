package pagination

const (
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 50
	// MaxLimit caps how many items a single page can return.
	MaxLimit = 200
	// MaxOffset bounds how far a client may skip.
	MaxOffset = 1 << 20
)

// Params holds offset pagination inputs from controllers.
type Params struct {
	Limit  int
	Offset int
}

// NormalizeLimit enforces the configured default and maximum limits.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// Window returns the [start, end) bounds of the page within total items.
// Offsets past the end yield an empty window.
func (p Params) Window(total int) (int, int) {
	limit := NormalizeLimit(p.Limit)
	start := p.Offset
	if start < 0 {
		start = 0
	}
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	return start, end
}

// Page slices items to the window described by p. The result is never nil.
func Page[T any](items []T, p Params) []T {
	start, end := p.Window(len(items))
	out := make([]T, end-start)
	copy(out, items[start:end])
	return out
}
