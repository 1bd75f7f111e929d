package auctionrunner

import (
	"os"
	"sync"
	"time"

	"code.cloudfoundry.org/clock"
	"code.cloudfoundry.org/lager"
	"code.cloudfoundry.org/workpool"

	"github.com/guildhall/auction/auctioneer"
	"github.com/guildhall/auction/auctiontypes"
)

// AuctionRunner drives the Auctioneer. It owns the only lock in the system:
// the engine is single-threaded by contract, so the periodic tick, item
// intake, and the chat front end's operations all take the same mutex before
// touching it. Messages are delivered outside the lock, fanned out per
// channel on the work pool; per-channel ordering is preserved.
type AuctionRunner struct {
	engine   *auctioneer.Auctioneer
	provider auctiontypes.BalanceProvider
	sink     auctiontypes.MessageSink
	batch    *Batch
	clock    clock.Clock
	interval time.Duration
	workPool *workpool.WorkPool
	logger   lager.Logger

	lock sync.Mutex
}

func New(
	logger lager.Logger,
	engine *auctioneer.Auctioneer,
	provider auctiontypes.BalanceProvider,
	sink auctiontypes.MessageSink,
	clk clock.Clock,
	interval time.Duration,
	workPool *workpool.WorkPool,
) *AuctionRunner {
	return &AuctionRunner{
		engine:   engine,
		provider: provider,
		sink:     sink,
		batch:    NewBatch(),
		clock:    clk,
		interval: interval,
		workPool: workPool,
		logger:   logger.Session("auction-runner"),
	}
}

func (r *AuctionRunner) Run(signals <-chan os.Signal, ready chan<- struct{}) error {
	ticker := r.clock.NewTicker(r.interval)
	defer ticker.Stop()

	close(ready)
	r.logger.Info("started", lager.Data{"tick-interval": r.interval.String()})

	for {
		select {
		case <-ticker.C():
			r.tick()
		case <-r.batch.HasWork:
			r.assignPending()
		case sig := <-signals:
			r.logger.Info("stopping", lager.Data{"signal": sig.String()})
			return nil
		}
	}
}

// AddItem enqueues an item for auction. Safe to call from any goroutine; the
// runner picks it up on its own loop.
func (r *AuctionRunner) AddItem(item auctiontypes.AuctionItem) {
	r.batch.AddItem(item)
}

// Status snapshots every channel.
func (r *AuctionRunner) Status() []auctiontypes.ChannelStatus {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.engine.Status()
}

// Bid refreshes the balance snapshot, then submits the bid.
func (r *AuctionRunner) Bid(channel, bidder string, amount, id int, rank auctiontypes.BidderRank) {
	logger := r.logger.Session("bid", lager.Data{"channel": channel, "bidder": bidder})

	r.lock.Lock()
	r.refreshBalances(logger)
	messages := r.engine.Bid(channel, bidder, amount, id, rank)
	r.lock.Unlock()

	r.deliver(logger, messages)
}

func (r *AuctionRunner) Stop(channel string) {
	r.operate("stop", channel, r.engine.Stop)
}

func (r *AuctionRunner) Accept(channel string, force bool) {
	r.operate("accept", channel, func(channel string) []auctiontypes.AuctionMessage {
		return r.engine.Accept(channel, force)
	})
}

func (r *AuctionRunner) Reopen(channel string) {
	r.operate("reopen", channel, r.engine.Reopen)
}

func (r *AuctionRunner) Restart(channel string) {
	r.operate("restart", channel, r.engine.Restart)
}

func (r *AuctionRunner) Delete(channel string) {
	r.operate("delete", channel, r.engine.Delete)
}

func (r *AuctionRunner) operate(name, channel string, op func(string) []auctiontypes.AuctionMessage) {
	logger := r.logger.Session(name, lager.Data{"channel": channel})

	r.lock.Lock()
	messages := op(channel)
	r.lock.Unlock()

	r.deliver(logger, messages)
}

// tick is one full cycle: drain newly added items, refresh balances if
// anything is running, close/update auctions, then start pending ones.
func (r *AuctionRunner) tick() {
	logger := r.logger.Session("tick")

	r.lock.Lock()
	r.drainBatch()
	if r.engine.HasRunningAuctions() {
		r.refreshBalances(logger)
	}
	messages := r.engine.Advance()
	messages = append(messages, r.engine.Next()...)
	r.lock.Unlock()

	r.deliver(logger, messages)
}

// assignPending starts auctions for freshly added items without waiting for
// the next tick.
func (r *AuctionRunner) assignPending() {
	logger := r.logger.Session("assign-pending")

	r.lock.Lock()
	r.drainBatch()
	messages := r.engine.Next()
	r.lock.Unlock()

	r.deliver(logger, messages)
}

func (r *AuctionRunner) drainBatch() {
	for _, item := range r.batch.Drain() {
		r.engine.Add(item)
	}
}

// refreshBalances replaces the engine's snapshot. On a fetch failure the
// engine keeps working off the previous snapshot.
func (r *AuctionRunner) refreshBalances(logger lager.Logger) {
	balances, err := r.provider.FetchBalances()
	if err != nil {
		logger.Error("failed-to-fetch-balances", err)
		return
	}
	r.engine.UpdateBalances(balances)
}

func (r *AuctionRunner) deliver(logger lager.Logger, messages []auctiontypes.AuctionMessage) {
	if len(messages) == 0 {
		return
	}

	byChannel := map[string][]auctiontypes.AuctionMessage{}
	order := []string{}
	for _, message := range messages {
		if _, present := byChannel[message.Channel]; !present {
			order = append(order, message.Channel)
		}
		byChannel[message.Channel] = append(byChannel[message.Channel], message)
	}

	wg := &sync.WaitGroup{}
	wg.Add(len(order))
	for _, channel := range order {
		channelMessages := byChannel[channel]
		r.workPool.Submit(func() {
			defer wg.Done()
			for _, message := range channelMessages {
				if err := r.sink.Deliver(message); err != nil {
					logger.Error("failed-to-deliver-message", err, lager.Data{"channel": message.Channel})
				}
			}
		})
	}
	wg.Wait()
}
