package fakes

import (
	"sync"

	"github.com/guildhall/auction/auctiontypes"
)

type FakeMessageSink struct {
	mutex     sync.Mutex
	delivered []auctiontypes.AuctionMessage
	err       error
}

func (f *FakeMessageSink) DeliverReturns(err error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.err = err
}

func (f *FakeMessageSink) Deliver(message auctiontypes.AuctionMessage) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.delivered = append(f.delivered, message)
	return f.err
}

func (f *FakeMessageSink) DeliveredMessages() []auctiontypes.AuctionMessage {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	messages := make([]auctiontypes.AuctionMessage, len(f.delivered))
	copy(messages, f.delivered)
	return messages
}
