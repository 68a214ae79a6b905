package slug

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const maxSlugLen = 80

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Checker is the repository view the allocator needs.
type Checker interface {
	SlugExists(ctx context.Context, slug string) (bool, error)
}

// Derive turns a title into a URL-safe slug: lowercase, runs of
// non-alphanumerics collapsed to single hyphens, trimmed, bounded length.
// The result may be empty when the title carries no usable characters.
func Derive(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = nonAlnum.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > maxSlugLen {
		s = strings.Trim(s[:maxSlugLen], "-")
	}
	return s
}

// Allocator derives slugs and guarantees uniqueness against the repository.
type Allocator struct {
	checker Checker
	now     func() time.Time
}

// NewAllocator wires the repository lookup; now defaults to time.Now.
func NewAllocator(checker Checker, now func() time.Time) *Allocator {
	if now == nil {
		now = time.Now
	}
	return &Allocator{checker: checker, now: now}
}

// Allocate returns the final slug for a title. A collision (or an empty
// derivation) gets a base-36 timestamp fragment, which is unique enough per
// call that no further collision loop is needed. Inserts must use exactly
// the slug returned here.
func (a *Allocator) Allocate(ctx context.Context, title string) (string, error) {
	derived := Derive(title)
	if derived == "" {
		return a.disambiguator(), nil
	}

	exists, err := a.checker.SlugExists(ctx, derived)
	if err != nil {
		return "", fmt.Errorf("check slug %q: %w", derived, err)
	}
	if !exists {
		return derived, nil
	}

	return fmt.Sprintf("%s-%s", derived, a.disambiguator()), nil
}

func (a *Allocator) disambiguator() string {
	return strconv.FormatInt(a.now().UnixMilli(), 36)
}
