package library

import (
	"bytes"
	"cmp"
	"slices"
	"strings"

	"github.com/mmcdole/avalon/internal/domain"
	"github.com/mmcdole/avalon/internal/set"
)

// Page is the sort and limit stage applied after retrieval.
// An empty Order sorts by name.
type Page struct {
	Order  string
	Desc   bool
	Limit  Optional[int]
	Offset int
}

type compareFunc[T any] func(a, b T) int

// entityOrdering returns the comparison for fields every element has
func entityOrdering[T domain.Element](field string) (compareFunc[T], bool) {
	switch field {
	case "", "name":
		return func(a, b T) int { return strings.Compare(a.GetName(), b.GetName()) }, true
	case "id":
		return compareIDs[T], true
	default:
		return nil, false
	}
}

// trackOrdering adds the track-only fields to entityOrdering
func trackOrdering(field string) (compareFunc[domain.Track], bool) {
	switch field {
	case "track_number":
		return func(a, b domain.Track) int { return cmp.Compare(a.TrackNumber, b.TrackNumber) }, true
	case "year":
		return func(a, b domain.Track) int { return cmp.Compare(a.Year, b.Year) }, true
	case "length":
		return func(a, b domain.Track) int { return cmp.Compare(a.Length, b.Length) }, true
	case "album":
		return func(a, b domain.Track) int { return strings.Compare(a.AlbumName, b.AlbumName) }, true
	case "artist":
		return func(a, b domain.Track) int { return strings.Compare(a.ArtistName, b.ArtistName) }, true
	case "genre":
		return func(a, b domain.Track) int { return strings.Compare(a.GenreName, b.GenreName) }, true
	default:
		return entityOrdering[domain.Track](field)
	}
}

func compareIDs[T domain.Element](a, b T) int {
	x, y := a.GetID(), b.GetID()
	return bytes.Compare(x[:], y[:])
}

// present sorts the members of s by page.Order (ties broken by ID) and
// returns the requested window.
func present[T domain.Element](
	s set.Set[T],
	page Page,
	ordering func(field string) (compareFunc[T], bool),
) ([]T, error) {
	compare, ok := ordering(page.Order)
	if !ok {
		return nil, fieldError(domain.ErrInvalidFieldValue, FieldOrder)
	}

	items := s.Slice()
	slices.SortFunc(items, func(a, b T) int {
		c := compare(a, b)
		if c == 0 {
			c = compareIDs(a, b)
		}
		if page.Desc {
			return -c
		}
		return c
	})
	return window(items, page), nil
}

func window[T any](items []T, page Page) []T {
	if page.Offset >= len(items) {
		return []T{}
	}
	items = items[page.Offset:]
	if page.Limit.Set && page.Limit.Value < len(items) {
		items = items[:page.Limit.Value]
	}
	return items
}
