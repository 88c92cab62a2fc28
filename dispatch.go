package pixelwalker

import (
	"time"

	"github.com/pixelwalker/go-sdk/packet"
)

// dispatcher paces outgoing writes. Every write passes through the outer
// bucket; chat writes then also pass through the chat bucket, entering it
// only once the outer bucket has released them.
type dispatcher struct {
	outer *Bucket
	chat  *Bucket

	sendInterval  time.Duration
	ownerInterval time.Duration
}

func newDispatcher(cfg Config) *dispatcher {
	return &dispatcher{
		outer:         NewBucket(cfg.SendCapacity, cfg.SendInterval),
		chat:          NewBucket(cfg.ChatCapacity, cfg.ChatInterval),
		sendInterval:  cfg.SendInterval,
		ownerInterval: cfg.OwnerSendInterval,
	}
}

// dispatch queues write according to kind.
func (d *dispatcher) dispatch(kind packet.Kind, write func()) {
	if kind == packet.KindPlayerChat {
		d.outer.Queue(func() { d.chat.Queue(write, false) }, true)
		return
	}
	d.outer.Queue(write, false)
}

// setOwner switches the outer bucket to the owner tick or back.
func (d *dispatcher) setOwner(owner bool) {
	if owner {
		d.outer.SetInterval(d.ownerInterval)
		return
	}
	d.outer.SetInterval(d.sendInterval)
}

func (d *dispatcher) stop() {
	d.outer.Stop()
	d.chat.Stop()
}
