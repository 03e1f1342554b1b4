package server

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/scbrown/hiitfit/internal/record"
)

func parseInt(r *http.Request, key string) (int, error) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, s, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("invalid %s value %q: must be non-negative", key, s)
	}
	return n, nil
}

// parseAnchor reads the "anchor" query parameter, falling back to def.
func parseAnchor(r *http.Request, def func() time.Time) (time.Time, error) {
	s := r.URL.Query().Get("anchor")
	if s == "" {
		return def(), nil
	}
	t, err := record.ParseDate(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid anchor: %w", err)
	}
	return t, nil
}
