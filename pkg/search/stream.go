package search

import "time"

// tryPublish is the search task's non-blocking offer to the publisher:
// if the publisher isn't ready to receive right now, the snapshot is
// simply dropped. The search task must never stall waiting on a slow
// consumer.
func tryPublish(raw chan<- Snapshot, snap Snapshot) {
	select {
	case raw <- snap:
	default:
	}
}

// overwritePublish is the single-slot overwrite cell: a full buffered
// channel of capacity 1 is drained (non-blocking) before the new value
// is pushed, so the consumer only ever sees the most recent value and
// the sender never blocks.
func overwritePublish(out chan<- Snapshot, snap Snapshot) {
	select {
	case <-out:
	default:
	}
	out <- snap
}

// runPublisher throttles the raw stream from the search task down to
// at most one snapshot per interval, coalescing writes that land
// inside the window by keeping only the latest as "pending". Terminal
// records (complete/error) bypass throttling entirely and are always
// delivered.
func runPublisher(raw <-chan Snapshot, out chan<- Snapshot, interval time.Duration) {
	defer close(out)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var pending *Snapshot
	for {
		select {
		case snap, ok := <-raw:
			if !ok {
				if pending != nil {
					overwritePublish(out, *pending)
				}
				return
			}
			if snap.Kind != KindSnapshot {
				overwritePublish(out, snap)
				return
			}
			cp := snap
			pending = &cp

		case <-ticker.C:
			if pending != nil {
				overwritePublish(out, *pending)
				pending = nil
			}
		}
	}
}
