package auctionrunner

import (
	"sync"

	"github.com/guildhall/auction/auctiontypes"
)

// Batch collects administratively added items until the runner drains them
// into the auctioneer's backlog. HasWork carries at most one pending signal
// so the runner can start new auctions without waiting out the current tick.
//
// Items are not deduplicated: two identical drops are two separate auctions.
type Batch struct {
	items   []auctiontypes.AuctionItem
	lock    *sync.Mutex
	HasWork chan struct{}
}

func NewBatch() *Batch {
	return &Batch{
		items:   []auctiontypes.AuctionItem{},
		lock:    &sync.Mutex{},
		HasWork: make(chan struct{}, 1),
	}
}

func (b *Batch) AddItem(item auctiontypes.AuctionItem) {
	b.lock.Lock()
	b.items = append(b.items, item)
	b.claimToHaveWork()
	b.lock.Unlock()
}

func (b *Batch) Drain() []auctiontypes.AuctionItem {
	b.lock.Lock()
	items := b.items
	b.items = []auctiontypes.AuctionItem{}
	select {
	case <-b.HasWork:
	default:
	}
	b.lock.Unlock()

	return items
}

func (b *Batch) claimToHaveWork() {
	select {
	case b.HasWork <- struct{}{}:
	default:
	}
}
