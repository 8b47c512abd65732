package pagerduty

import (
	"context"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// Holder publishes the callback currently in service. Reloads replace the
// whole callback; a published callback is never modified.
type Holder struct {
	v atomic.Pointer[holding]
}

type holding struct {
	cb AlarmCallback
}

// Load returns the current callback, or nil before the first Store.
func (h *Holder) Load() AlarmCallback {
	if hd := h.v.Load(); hd != nil {
		return hd.cb
	}
	return nil
}

func (h *Holder) Store(cb AlarmCallback) {
	h.v.Store(&holding{cb: cb})
}

// Processor drains alert events into the current callback one at a time.
// A failed notification is logged and dropped; re-firing is up to the
// alerting side.
type Processor struct {
	drain     <-chan *AlertEvent
	callbacks *Holder

	log *logrus.Entry
}

func NewProcessor(drain <-chan *AlertEvent, callbacks *Holder) *Processor {
	return &Processor{
		drain:     drain,
		callbacks: callbacks,
		log:       logrus.WithField("system", "processor"),
	}
}

func (p *Processor) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-p.drain:
			if !ok {
				return
			}
			p.processEvent(ctx, ev)
		}
	}
}

func (p *Processor) processEvent(ctx context.Context, ev *AlertEvent) error {
	log := p.log.WithFields(logrus.Fields{
		"stream.id":    ev.Stream.ID,
		"condition.id": ev.Result.ConditionID,
	})

	cb := p.callbacks.Load()
	if cb == nil {
		log.Warn("no callback configured, dropping alert")
		return errNoCallback
	}

	if err := cb.Handle(ctx, *ev); err != nil {
		log.WithFields(logrus.Fields{
			"err":      err,
			"callback": cb.Name(),
			"kind":     KindOf(err).String(),
		}).Error("failed to notify")
		return err
	}

	log.WithField("callback", cb.Name()).Info("notified")
	return nil
}
