package auctioneer

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"code.cloudfoundry.org/clock"
	"code.cloudfoundry.org/lager"

	"github.com/guildhall/auction/auctiontypes"
)

const (
	msgNotAnAuctionChannel = "This isn't an auction channel. Try again."
	msgNoActiveAuction     = "There isn't an active auction in this channel."

	msgBidAuctionFinished = "This auction has already closed and is waiting on an officer to accept the results."
	msgBidAuctionStopped  = "This auction has been stopped and is not accepting bids at the moment."

	msgStopAuctionFinished = "This auction has finished already and cannot be stopped."
	msgStopAuctionStopped  = "This auction is already stopped."

	msgAcceptNotFinished  = "This auction has not finished and cannot be accepted yet."
	msgAcceptResultsMoved = "This auction has not been accepted because the results have changed since it closed."
	msgReopenStillRunning = "This auction has not finished and cannot be reopened yet."
)

// Auctioneer runs one auction per channel plus a FIFO backlog of pending
// items. It is single-threaded by contract: the caller must serialize every
// entry point (the runner wraps it in one mutex), so there is no locking
// here. No method blocks or does I/O; each returns the chat messages the
// operation produced.
type Auctioneer struct {
	logger lager.Logger
	clock  clock.Clock
	rand   *rand.Rand
	limits auctiontypes.Limits

	channelNames []string
	channels     map[string]*auctiontypes.RunningAuction
	pending      []auctiontypes.AuctionItem
	balances     auctiontypes.Balances
}

func New(logger lager.Logger, clk clock.Clock, rnd *rand.Rand, channels []string, limits auctiontypes.Limits) *Auctioneer {
	names := make([]string, len(channels))
	copy(names, channels)
	sort.Strings(names)

	slots := make(map[string]*auctiontypes.RunningAuction, len(names))
	for _, name := range names {
		slots[name] = nil
	}

	return &Auctioneer{
		logger:       logger.Session("auctioneer"),
		clock:        clk,
		rand:         rnd,
		limits:       limits,
		channelNames: names,
		channels:     slots,
		balances:     auctiontypes.Balances{},
	}
}

// Add enqueues an item; Next assigns it to a channel once one frees up.
func (a *Auctioneer) Add(item auctiontypes.AuctionItem) {
	a.pending = append(a.pending, item)
	a.logger.Info("item-enqueued", lager.Data{"item": item.Description(), "added-by": item.AddedBy, "pending": len(a.pending)})
}

// UpdateBalances replaces the point snapshot. The engine never fetches
// balances itself; callers refresh before state-affecting operations.
func (a *Auctioneer) UpdateBalances(balances auctiontypes.Balances) {
	snapshot := make(auctiontypes.Balances, len(balances))
	for character, points := range balances {
		snapshot[character] = points
	}
	a.balances = snapshot
}

func (a *Auctioneer) HasRunningAuctions() bool {
	for _, auction := range a.channels {
		if auction != nil {
			return true
		}
	}
	return false
}

// Bid validates and records a bid on the channel's auction, extending its
// closing time. Rejections come back as a single hidden message.
func (a *Auctioneer) Bid(channel, bidder string, amount, id int, rank auctiontypes.BidderRank) []auctiontypes.AuctionMessage {
	logger := a.logger.Session("bid", lager.Data{"channel": channel, "bidder": bidder, "amount": amount})

	auction, rejection := a.activeAuction(channel)
	if auction == nil {
		return rejection
	}
	if rejection := statusRejection(channel, auction,
		forbidden{auctiontypes.StatusFinished, msgBidAuctionFinished},
		forbidden{auctiontypes.StatusStopped, msgBidAuctionStopped},
	); rejection != nil {
		return rejection
	}

	ok, reason := ValidateBid(bidder, amount, auction, a.balances, a.limits)
	if !ok {
		logger.Info("rejected", lager.Data{"reason": reason})
		return []auctiontypes.AuctionMessage{hidden(channel, reason)}
	}

	auction.AddBid(auctiontypes.Bid{Bidder: bidder, Rank: rank, Amount: amount, ID: id}, a.clock.Now())
	logger.Info("accepted")

	return []auctiontypes.AuctionMessage{
		hidden(channel, "Bid accepted!"),
		public(channel, fmt.Sprintf("%s has bid %d", bidder, amount)),
	}
}

// Stop freezes the auction; no further bids until it is reopened.
func (a *Auctioneer) Stop(channel string) []auctiontypes.AuctionMessage {
	auction, rejection := a.activeAuction(channel)
	if auction == nil {
		return rejection
	}
	if rejection := statusRejection(channel, auction,
		forbidden{auctiontypes.StatusFinished, msgStopAuctionFinished},
		forbidden{auctiontypes.StatusStopped, msgStopAuctionStopped},
	); rejection != nil {
		return rejection
	}

	auction.Status = auctiontypes.StatusStopped
	a.logger.Info("stopped", lager.Data{"channel": channel, "item": auction.Item.Description()})

	return []auctiontypes.AuctionMessage{
		hidden(channel, "Auction has been stopped"),
		public(channel, fmt.Sprintf("Auction for %s has been stopped.", auction.Item.Description())),
	}
}

// Accept confirms a finished auction's results and hands them off for
// settlement. If the standings have drifted since the auction closed
// (balances changed under the bidders), acceptance refuses unless forced.
func (a *Auctioneer) Accept(channel string, force bool) []auctiontypes.AuctionMessage {
	logger := a.logger.Session("accept", lager.Data{"channel": channel, "force": force})

	auction, rejection := a.activeAuction(channel)
	if auction == nil {
		return rejection
	}
	if rejection := statusRejection(channel, auction,
		forbidden{auctiontypes.StatusRunning, msgAcceptNotFinished},
		forbidden{auctiontypes.StatusStopped, msgAcceptNotFinished},
	); rejection != nil {
		return rejection
	}

	results := DetermineResults(auction, a.balances, a.limits.Member)
	if !force && (auction.Results == nil || !auction.Results.Equal(results)) {
		logger.Info("results-changed")
		return []auctiontypes.AuctionMessage{hidden(channel, msgAcceptResultsMoved)}
	}

	logger.Info("accepted", lager.Data{"results": results.String()})
	return []auctiontypes.AuctionMessage{
		hidden(channel, "Auction accepted"),
		public(channel, fmt.Sprintf("Auction accepted: %s", results)),
	}
}

// Reopen puts a stopped or finished auction back on the clock, keeping the
// bids already on the board but restarting the timers from scratch.
func (a *Auctioneer) Reopen(channel string) []auctiontypes.AuctionMessage {
	auction, rejection := a.activeAuction(channel)
	if auction == nil {
		return rejection
	}
	if rejection := statusRejection(channel, auction,
		forbidden{auctiontypes.StatusRunning, msgReopenStillRunning},
	); rejection != nil {
		return rejection
	}

	now := a.clock.Now()
	auction.Results = nil
	auction.StartedAt = now
	auction.LastBid = time.Time{}
	auction.LastUpdated = time.Time{}
	auction.Status = auctiontypes.StatusRunning

	a.logger.Info("reopened", lager.Data{"channel": channel, "item": auction.Item.Description()})

	return []auctiontypes.AuctionMessage{
		hidden(channel, "Reopening bidding"),
		public(channel, fmt.Sprintf("Reopening bids for %s, ending in %s", auction.Item.Description(), formatDuration(auction.TimeLeft(now)))),
	}
}

// Restart throws away the auction, bids included, and starts a fresh one for
// the same item in the same channel.
func (a *Auctioneer) Restart(channel string) []auctiontypes.AuctionMessage {
	auction, rejection := a.activeAuction(channel)
	if auction == nil {
		return rejection
	}

	now := a.clock.Now()
	item := auction.Item
	fresh := auctiontypes.NewRunningAuction(item, now)
	a.channels[channel] = fresh

	a.logger.Info("restarted", lager.Data{"channel": channel, "item": item.Description()})

	return []auctiontypes.AuctionMessage{
		hidden(channel, "Restarted auction"),
		public(channel, fmt.Sprintf("Restarting bids for %s, ending in %s", item.Description(), formatDuration(fresh.TimeLeft(now)))),
	}
}

// Delete clears the channel slot entirely; Next may then assign a pending
// item to it.
func (a *Auctioneer) Delete(channel string) []auctiontypes.AuctionMessage {
	auction, rejection := a.activeAuction(channel)
	if auction == nil {
		return rejection
	}

	a.channels[channel] = nil
	a.logger.Info("deleted", lager.Data{"channel": channel, "item": auction.Item.Description()})

	return []auctiontypes.AuctionMessage{
		hidden(channel, "Auction deleted"),
		public(channel, fmt.Sprintf("Auction for %s has been deleted.", auction.Item.Description())),
	}
}

// Advance is the per-tick pass over every channel: close auctions whose time
// has run out, then post progress updates where one is due. Closing is
// checked first so a just-closed auction doesn't also get a stale update in
// the same tick.
func (a *Auctioneer) Advance() []auctiontypes.AuctionMessage {
	now := a.clock.Now()
	messages := []auctiontypes.AuctionMessage{}

	for _, channel := range a.channelNames {
		auction := a.channels[channel]
		if auction == nil {
			continue
		}

		if auction.Status == auctiontypes.StatusRunning && auction.TimeLeft(now) == 0 {
			auction.Status = auctiontypes.StatusFinished
			results := DetermineResults(auction, a.balances, a.limits.Member)
			auction.Results = &results

			a.logger.Info("auction-closed", lager.Data{"channel": channel, "item": auction.Item.Description(), "results": results.String()})
			messages = append(messages, public(channel, fmt.Sprintf("Auction closed. Results: %s", results)))
		}

		if auction.NeedsUpdate(now) {
			auction.LastUpdated = now
			results := DetermineResults(auction, a.balances, a.limits.Member)
			messages = append(messages, public(channel, fmt.Sprintf(
				"This is an update for %s ending in %s.\nResults: %s",
				auction.Item.Description(), formatDuration(auction.TimeLeft(now)), results,
			)))
		}
	}

	return messages
}

// Next drains the backlog into free channels, one item per channel, picking
// uniformly at random among the currently empty ones.
func (a *Auctioneer) Next() []auctiontypes.AuctionMessage {
	messages := []auctiontypes.AuctionMessage{}

	for len(a.pending) > 0 {
		empty := a.emptyChannels()
		if len(empty) == 0 {
			break
		}

		item := a.pending[0]
		a.pending = a.pending[1:]
		channel := empty[a.rand.Intn(len(empty))]

		now := a.clock.Now()
		auction := auctiontypes.NewRunningAuction(item, now)
		a.channels[channel] = auction

		a.logger.Info("auction-started", lager.Data{"channel": channel, "item": item.Description()})
		messages = append(messages, public(channel, fmt.Sprintf(
			"Starting bids for %s added by %s, ending in %s",
			item.Description(), item.AddedBy, formatDuration(auction.TimeLeft(now)),
		)))
	}

	return messages
}

// Status snapshots every channel for the status API.
func (a *Auctioneer) Status() []auctiontypes.ChannelStatus {
	now := a.clock.Now()
	statuses := make([]auctiontypes.ChannelStatus, 0, len(a.channelNames))

	for _, channel := range a.channelNames {
		auction := a.channels[channel]
		if auction == nil {
			statuses = append(statuses, auctiontypes.ChannelStatus{Channel: channel, Empty: true})
			continue
		}
		statuses = append(statuses, auctiontypes.ChannelStatus{
			Channel:       channel,
			Item:          auction.Item.Description(),
			Status:        auction.Status.String(),
			Bids:          len(auction.Bids),
			TimeLeftInSec: int(auction.TimeLeft(now) / time.Second),
		})
	}

	return statuses
}

// activeAuction is the first guard every channel operation runs: the channel
// must be configured and must currently hold an auction. On failure it
// returns nil and the hidden rejection to send back.
func (a *Auctioneer) activeAuction(channel string) (*auctiontypes.RunningAuction, []auctiontypes.AuctionMessage) {
	auction, known := a.channels[channel]
	if !known {
		return nil, []auctiontypes.AuctionMessage{hidden(channel, msgNotAnAuctionChannel)}
	}
	if auction == nil {
		return nil, []auctiontypes.AuctionMessage{hidden(channel, msgNoActiveAuction)}
	}
	return auction, nil
}

type forbidden struct {
	status  auctiontypes.Status
	message string
}

// statusRejection is the second guard: each operation names the statuses it
// refuses to run in, with a message per status. Checks run in the order
// given.
func statusRejection(channel string, auction *auctiontypes.RunningAuction, rules ...forbidden) []auctiontypes.AuctionMessage {
	for _, rule := range rules {
		if auction.Status == rule.status {
			return []auctiontypes.AuctionMessage{hidden(channel, rule.message)}
		}
	}
	return nil
}

func (a *Auctioneer) emptyChannels() []string {
	empty := []string{}
	for _, channel := range a.channelNames {
		if a.channels[channel] == nil {
			empty = append(empty, channel)
		}
	}
	return empty
}

func hidden(channel, content string) auctiontypes.AuctionMessage {
	return auctiontypes.AuctionMessage{Channel: channel, Content: content, Hidden: true}
}

func public(channel, content string) auctiontypes.AuctionMessage {
	return auctiontypes.AuctionMessage{Channel: channel, Content: content}
}

func formatDuration(d time.Duration) string {
	return d.Truncate(time.Second).String()
}
