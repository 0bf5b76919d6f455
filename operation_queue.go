package stockpile

import (
	"fmt"

	"go.uber.org/zap"
)

type operation struct {
	layout Layout
	init   EntityInit
}

type opQueue struct {
	createOps []operation
}

func (q *opQueue) enqueueCreate(l Layout, init EntityInit) {
	q.createOps = append(q.createOps, operation{layout: l, init: init})
}

func (q *opQueue) len() int {
	return len(q.createOps)
}

func (w *world) processOperationQueue() error {
	if w.opQueue.len() == 0 {
		return nil
	}
	pending := w.opQueue.createOps
	w.opQueue.createOps = nil

	for i, op := range pending {
		if w.Locked() {
			// An init callback locked the world again; the rest waits for the
			// next unlock.
			w.opQueue.createOps = append(pending[i:len(pending):len(pending)], w.opQueue.createOps...)
			return nil
		}
		id, row, err := w.CreateEntity(op.layout)
		if err != nil {
			return fmt.Errorf("failed to process queued entity creation: %w", err)
		}
		if op.init != nil {
			op.init(id, row)
		}
	}
	w.log.Debug("drained operation queue", zap.Int("created", len(pending)))
	return nil
}
