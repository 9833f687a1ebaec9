package scanner

import (
	"context"
	"time"
)

// Watcher runs the scanner continuously: scan, report, wait, scan again.
// Cancellation is honored between passes only; a pass in flight always runs
// to completion so the ledger is never flushed mid-message.
type Watcher struct {
	Scanner  *Scanner
	Interval time.Duration

	// OnPass is called after every pass that discovered new matches. It is
	// where the caller uploads and logs; an upload failure must not stop the
	// loop, so OnPass returns nothing. Local counts keep advancing and catch
	// up once uploads succeed again.
	OnPass func(result *PassResult)
}

// Run loops until ctx is cancelled. Every pass is followed by a full
// Interval wait; a pass that takes longer than the interval delays the next
// one instead of triggering an immediate re-scan. A ledger or counts persist
// failure ends the loop with the error; everything else keeps it running.
func (w *Watcher) Run(ctx context.Context) error {
	for {
		result, err := w.Scanner.Pass()
		if err != nil {
			return err
		}

		if len(result.NewMatches) > 0 && w.OnPass != nil {
			w.OnPass(result)
		}

		timer := time.NewTimer(w.Interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
	}
}
