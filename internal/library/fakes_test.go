package library

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mmcdole/avalon/internal/domain"
)

var errSourceDown = errors.New("source down")

const (
	timeout = time.Second
	tick    = 5 * time.Millisecond
)

// memSource is an in-memory record store
type memSource struct {
	mu        sync.Mutex
	recs      domain.Records
	failOn    string // "read" or "write" returns errSourceDown
	fetches   atomic.Int32
	gate      chan struct{} // when non-nil, reads block after taking their snapshot
	gateFirst bool          // only the first read blocks on gate
}

func newMemSource(scanned ...domain.Metadata) *memSource {
	return &memSource{recs: domain.BuildRecords(scanned)}
}

func (m *memSource) GetAll(ctx context.Context) (domain.Records, error) {
	m.mu.Lock()
	recs, fail := m.recs, m.failOn == "read"
	m.mu.Unlock()

	n := m.fetches.Add(1)
	if m.gate != nil && (!m.gateFirst || n == 1) {
		<-m.gate
	}
	if fail {
		return domain.Records{}, errSourceDown
	}
	return recs, nil
}

func (m *memSource) ReplaceAll(ctx context.Context, recs domain.Records) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failOn == "write" {
		return errSourceDown
	}
	m.recs = recs
	return nil
}

func (m *memSource) setFail(op string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failOn = op
}

// fakeScanner returns fixed metadata for any root
type fakeScanner struct {
	scanned []domain.Metadata
	err     error
	root    string
}

func (f *fakeScanner) Crawl(ctx context.Context, root string) ([]domain.Metadata, error) {
	f.root = root
	return f.scanned, f.err
}

var greenDay = []domain.Metadata{
	{Path: "/music/dookie/01.mp3", Title: "Basket Case", Album: "Dookie", Artist: "Green Day", Genre: "Punk", TrackNumber: 7, Year: 1994, Length: 181},
	{Path: "/music/dookie/02.mp3", Title: "Longview", Album: "Dookie", Artist: "Green Day", Genre: "Punk", TrackNumber: 4, Year: 1994, Length: 239},
	{Path: "/music/sawdust/01.mp3", Title: "Hurry Up and Wait", Album: "Sawdust", Artist: "Green Day", Genre: "Punk Rock", TrackNumber: 1, Year: 2003, Length: 150},
}

var mixed = append(append([]domain.Metadata{}, greenDay...),
	domain.Metadata{Path: "/music/energy/01.mp3", Title: "Sound System", Album: "Energy", Artist: "Operation Ivy", Genre: "Ska", TrackNumber: 2, Year: 1989, Length: 120},
	domain.Metadata{Path: "/music/energy/02.mp3", Title: "Knowledge", Album: "Energy", Artist: "Operation Ivy", Genre: "Punk", TrackNumber: 3, Year: 1989, Length: 110},
)
