// Package record fans completed resolutions out to the durable sinks. The
// engine fires a convergence callback; the recorder turns it into a SQLite
// row and a journal line without ever failing the lookup that triggered it.
package record

import (
	"log"
	"sync"
	"time"

	"github.com/Artimuz/nightreign-seed-finder-go/internal/journal"
	"github.com/Artimuz/nightreign-seed-finder-go/internal/resolve"
	"github.com/Artimuz/nightreign-seed-finder-go/internal/store"
)

// ResolutionStore is the slice of the store the recorder needs.
type ResolutionStore interface {
	SaveResolution(r *store.Resolution) error
	CountForSession(sessionID, entryID string, since time.Time) (int, error)
}

// JournalWriter appends convergence entries to the audit journal.
type JournalWriter interface {
	Append(e journal.Entry) error
}

// Recorder persists convergences. Writes happen in the background so the
// session's assertion path never blocks on disk; Flush waits for them,
// which only tests and shutdown care about.
type Recorder struct {
	store    ResolutionStore
	journal  JournalWriter
	cooldown time.Duration
	now      func() time.Time

	mu sync.Mutex
	wg sync.WaitGroup
}

// New creates a recorder. journal may be nil when journaling is disabled.
// A cooldown of zero records every convergence, repeats included.
func New(st ResolutionStore, jw JournalWriter, cooldown time.Duration) *Recorder {
	return &Recorder{
		store:    st,
		journal:  jw,
		cooldown: cooldown,
		now:      time.Now,
	}
}

// Record persists one convergence for the given session. Sink failures are
// logged and swallowed: losing a log row must never surface to the player
// mid-run.
func (r *Recorder) Record(sessionID string, conv resolve.Convergence) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.mu.Lock()
		defer r.mu.Unlock()
		r.record(sessionID, conv)
	}()
}

// Flush waits for all in-flight writes.
func (r *Recorder) Flush() {
	r.wg.Wait()
}

func (r *Recorder) record(sessionID string, conv resolve.Convergence) {
	at := r.now().UTC()

	if r.cooldown > 0 {
		n, err := r.store.CountForSession(sessionID, conv.EntryID, at.Add(-r.cooldown))
		if err != nil {
			log.Printf("record: cooldown check error: %v", err)
		} else if n > 0 {
			// Undo-and-redo of the final fact re-fires the same seed;
			// the log wants one row for that, not a row per wiggle.
			return
		}
	}

	mapType := ""
	if conv.Entry != nil {
		mapType = string(conv.Entry.MapType)
	}
	factPath := resolve.EncodePath(conv.FactPath)

	res := &store.Resolution{
		SessionID:       sessionID,
		EntryID:         conv.EntryID,
		MapType:         mapType,
		FactPath:        factPath,
		FactCount:       len(conv.FactPath),
		DurationSeconds: conv.Duration.Seconds(),
		CreatedAt:       at,
	}
	if err := r.store.SaveResolution(res); err != nil {
		log.Printf("record: save resolution error: %v", err)
	}

	if r.journal != nil {
		err := r.journal.Append(journal.Entry{
			SessionID:       sessionID,
			EntryID:         conv.EntryID,
			MapType:         mapType,
			FactPath:        factPath,
			FactCount:       len(conv.FactPath),
			DurationSeconds: conv.Duration.Seconds(),
			At:              at,
		})
		if err != nil {
			log.Printf("record: journal append error: %v", err)
		}
	}
}
