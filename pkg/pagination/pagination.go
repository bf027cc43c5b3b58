package pagination

import "strconv"

const (
	// DefaultLimit is the page size used when the client does not ask for one.
	DefaultLimit = 25
	// MaxLimit caps how many rows a single list call may return.
	MaxLimit = 100
)

// Params holds offset pagination inputs from controllers.
type Params struct {
	Limit  int
	Offset int
}

// NormalizeLimit enforces the default and maximum limits.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// Parse builds normalized Params from raw query values. Garbage falls back to defaults.
func Parse(limitRaw, offsetRaw string) Params {
	limit, _ := strconv.Atoi(limitRaw)
	offset, err := strconv.Atoi(offsetRaw)
	if err != nil || offset < 0 {
		offset = 0
	}
	return Params{Limit: NormalizeLimit(limit), Offset: offset}
}
