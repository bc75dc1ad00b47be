package library

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/google/uuid"
	"github.com/mmcdole/avalon/internal/domain"
)

// Request field names
const (
	FieldQuery     = "query"
	FieldAlbum     = "album"
	FieldAlbumID   = "album_id"
	FieldArtist    = "artist"
	FieldArtistID  = "artist_id"
	FieldGenre     = "genre"
	FieldGenreID   = "genre_id"
	FieldOrder     = "order"
	FieldDirection = "direction"
	FieldLimit     = "limit"
	FieldOffset    = "offset"
)

var validFields = map[string]bool{
	FieldQuery:     true,
	FieldAlbum:     true,
	FieldAlbumID:   true,
	FieldArtist:    true,
	FieldArtistID:  true,
	FieldGenre:     true,
	FieldGenreID:   true,
	FieldOrder:     true,
	FieldDirection: true,
	FieldLimit:     true,
	FieldOffset:    true,
}

// Sort directions
const (
	DirectionAsc  = "asc"
	DirectionDesc = "desc"
)

// Params is a validated set of request fields, each with a single value.
type Params struct {
	values map[string]string
}

// ParseParams validates raw request values (url.Values or equivalent).
// Unknown names and repeated fields are rejected.
func ParseParams(raw map[string][]string) (Params, error) {
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	// Deterministic error for requests with several problems
	slices.Sort(names)

	values := make(map[string]string, len(raw))
	for _, name := range names {
		if !validFields[name] {
			return Params{}, fieldError(domain.ErrInvalidField, name)
		}
		vs := raw[name]
		if len(vs) > 1 {
			return Params{}, fieldError(domain.ErrDuplicateField, name)
		}
		var v string
		if len(vs) == 1 {
			v = vs[0]
		}
		values[name] = v
	}
	return Params{values: values}, nil
}

// Get returns the value of field and whether it was supplied
func (p Params) Get(field string) (string, bool) {
	v, ok := p.values[field]
	return v, ok
}

// UUID returns the value of field parsed as a UUID
func (p Params) UUID(field string) (Optional[uuid.UUID], error) {
	v, ok := p.values[field]
	if !ok {
		return Optional[uuid.UUID]{}, nil
	}
	id, err := uuid.Parse(v)
	if err != nil {
		return Optional[uuid.UUID]{}, fieldError(domain.ErrInvalidFieldValue, field)
	}
	return Some(id), nil
}

// Int returns the value of field parsed as a non-negative integer
func (p Params) Int(field string) (Optional[int], error) {
	v, ok := p.values[field]
	if !ok {
		return Optional[int]{}, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return Optional[int]{}, fieldError(domain.ErrInvalidFieldValue, field)
	}
	if n < 0 {
		return Optional[int]{}, fieldError(domain.ErrNegativeFieldValue, field)
	}
	return Some(n), nil
}

func (p Params) text(field string) Optional[string] {
	if v, ok := p.values[field]; ok {
		return Some(v)
	}
	return Optional[string]{}
}

// Filter extracts the retrieval criteria
func (p Params) Filter() (Filter, error) {
	f := Filter{
		Query:  p.text(FieldQuery),
		Album:  p.text(FieldAlbum),
		Artist: p.text(FieldArtist),
		Genre:  p.text(FieldGenre),
	}

	var err error
	if f.AlbumID, err = p.UUID(FieldAlbumID); err != nil {
		return Filter{}, err
	}
	if f.ArtistID, err = p.UUID(FieldArtistID); err != nil {
		return Filter{}, err
	}
	if f.GenreID, err = p.UUID(FieldGenreID); err != nil {
		return Filter{}, err
	}
	return f, nil
}

// Page extracts the sort and limit stage settings. The order field is
// checked against the result type when the page is applied.
func (p Params) Page() (Page, error) {
	page := Page{}
	page.Order, _ = p.Get(FieldOrder)

	if dir, ok := p.Get(FieldDirection); ok {
		switch dir {
		case DirectionAsc:
		case DirectionDesc:
			page.Desc = true
		default:
			return Page{}, fieldError(domain.ErrInvalidFieldValue, FieldDirection)
		}
	}

	limit, err := p.Int(FieldLimit)
	if err != nil {
		return Page{}, err
	}
	page.Limit = limit

	offset, err := p.Int(FieldOffset)
	if err != nil {
		return Page{}, err
	}
	page.Offset = offset.Value
	return page, nil
}

func fieldError(sentinel error, field string) error {
	return fmt.Errorf("%w [%s]", sentinel, field)
}

// Optional is a value that may be absent. An Optional that is Set with an
// empty value is still an active criterion.
type Optional[T any] struct {
	Value T
	Set   bool
}

// Some returns a present Optional
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Set: true}
}
