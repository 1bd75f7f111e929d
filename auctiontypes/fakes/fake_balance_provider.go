package fakes

import (
	"sync"

	"github.com/guildhall/auction/auctiontypes"
)

type FakeBalanceProvider struct {
	mutex     sync.Mutex
	callCount int
	balances  auctiontypes.Balances
	err       error
}

func (f *FakeBalanceProvider) FetchBalancesReturns(balances auctiontypes.Balances, err error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.balances = balances
	f.err = err
}

func (f *FakeBalanceProvider) FetchBalances() (auctiontypes.Balances, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.callCount++
	return f.balances, f.err
}

func (f *FakeBalanceProvider) FetchBalancesCallCount() int {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return f.callCount
}
