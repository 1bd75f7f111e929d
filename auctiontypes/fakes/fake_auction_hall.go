package fakes

import (
	"sync"

	"github.com/guildhall/auction/auctiontypes"
)

type FakeAuctionHall struct {
	mutex       sync.Mutex
	addedItems  []auctiontypes.AuctionItem
	statusStubs []auctiontypes.ChannelStatus
}

func (f *FakeAuctionHall) AddItem(item auctiontypes.AuctionItem) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.addedItems = append(f.addedItems, item)
}

func (f *FakeAuctionHall) AddedItems() []auctiontypes.AuctionItem {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	items := make([]auctiontypes.AuctionItem, len(f.addedItems))
	copy(items, f.addedItems)
	return items
}

func (f *FakeAuctionHall) StatusReturns(statuses []auctiontypes.ChannelStatus) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.statusStubs = statuses
}

func (f *FakeAuctionHall) Status() []auctiontypes.ChannelStatus {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return f.statusStubs
}
