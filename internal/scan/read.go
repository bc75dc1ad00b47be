package scan

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dhowden/tag"
	"github.com/mmcdole/avalon/internal/domain"
)

// ReadFile reads the tags of one audio file
func ReadFile(path string) (domain.Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.Metadata{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return domain.Metadata{}, fmt.Errorf("failed to read tags from %s: %w", path, err)
	}
	return fromTags(path, m), nil
}

// fromTags converts parsed tags into collection metadata. Track and year
// fall back to the raw frames when the typed accessors come back empty,
// which happens with values like "3/12" or full ISO timestamps.
func fromTags(path string, m tag.Metadata) domain.Metadata {
	raw := m.Raw()

	title := strings.TrimSpace(m.Title())
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	track, _ := m.Track()
	if track == 0 {
		track = parseTrack(rawString(raw, "tracknumber", "TRCK", "TRK", "trkn"))
	}

	year := m.Year()
	if year == 0 {
		year = parseYear(rawString(raw, "date", "year", "TDRC", "TYER", "TYE", "©day"))
	}

	return domain.Metadata{
		Path:        path,
		Title:       title,
		Album:       strings.TrimSpace(m.Album()),
		Artist:      strings.TrimSpace(m.Artist()),
		Genre:       strings.TrimSpace(m.Genre()),
		TrackNumber: track,
		Year:        year,
		Length:      parseLength(rawString(raw, "TLEN", "TLE")),
	}
}

// parseTrack accepts "7" and "7/12"; anything else is 0
func parseTrack(val string) int {
	val = strings.TrimSpace(val)
	if i := strings.IndexByte(val, '/'); i >= 0 {
		val = val[:i]
	}
	n, err := strconv.Atoi(val)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// parseYear accepts a bare year, an ISO date, or an ISO timestamp
func parseYear(val string) int {
	val = strings.TrimSpace(val)
	if val == "" {
		return 0
	}
	if n, err := strconv.Atoi(val); err == nil && n >= 0 {
		return n
	}
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02", "2006-01", time.RFC3339} {
		if ts, err := time.Parse(layout, val); err == nil {
			return ts.Year()
		}
	}
	return 0
}

// parseLength converts an ID3 TLEN value (milliseconds) to whole seconds
func parseLength(val string) int {
	ms, err := strconv.Atoi(strings.TrimSpace(val))
	if err != nil || ms < 0 {
		return 0
	}
	return ms / 1000
}

func rawString(raw map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		switch v := raw[k].(type) {
		case string:
			if v != "" {
				return v
			}
		case int:
			return strconv.Itoa(v)
		}
	}
	return ""
}
