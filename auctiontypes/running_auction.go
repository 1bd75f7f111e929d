package auctiontypes

import "time"

const (
	// MinimumDuration is how long every auction runs at an absolute minimum.
	MinimumDuration = 90 * time.Second

	// BidGracePeriod keeps an auction open after the most recent bid.
	BidGracePeriod = 30 * time.Second

	// UpdateGracePeriod keeps an auction open after a progress update, and is
	// also the floor reserved for the final update that must precede closing.
	UpdateGracePeriod = 15 * time.Second

	updateAfterStart  = 30 * time.Second
	updateAfterBid    = 10 * time.Second
	updateAfterUpdate = 30 * time.Second
)

// RunningAuction is the per-channel state of one auction. The Auctioneer owns
// it exclusively; nothing here locks. Zero timestamps mean "hasn't happened".
type RunningAuction struct {
	Item        AuctionItem
	Status      Status
	StartedAt   time.Time
	LastBid     time.Time
	LastUpdated time.Time

	Bids []Bid

	// Results is non-nil exactly while Status is Finished. It is the snapshot
	// cached at close time, against which accept compares.
	Results *AuctionResults
}

func NewRunningAuction(item AuctionItem, now time.Time) *RunningAuction {
	return &RunningAuction{
		Item:      item,
		Status:    StatusRunning,
		StartedAt: now,
	}
}

// AddBid records a bid and stamps the last-bid time. The bid set never holds
// an exact duplicate (same bidder, id, amount, rank), but a duplicate re-bid
// still extends the clock: every accepted bid counts toward the grace period.
func (a *RunningAuction) AddBid(bid Bid, now time.Time) {
	for _, existing := range a.Bids {
		if existing == bid {
			a.LastBid = now
			return
		}
	}
	a.Bids = append(a.Bids, bid)
	a.LastBid = now
}

// HasBidAmount reports whether any live bid already sits at amount. Used to
// let other bidders match an all-in bid that breaks the granularity rule.
func (a *RunningAuction) HasBidAmount(amount int) bool {
	for _, bid := range a.Bids {
		if bid.Amount == amount {
			return true
		}
	}
	return false
}

// TimeLeft computes how long until the auction may close, as a pure function
// of the auction's timestamps and now. The rules:
//
//  1. Every auction lasts at least 90 seconds.
//  2. Every auction lasts at least 30 seconds past the last bid.
//  3. Every auction lasts at least 15 seconds past the last update, when that
//     update trails the last bid.
//  4. An auction never closes without one more update opportunity: while an
//     update is still owed (never updated, or a bid landed after the last
//     update) the end is held at least 15 seconds out from now.
//
// Because of rule 4 the exact closing moment isn't knowable in advance; the
// value returned is a lower bound that reaches zero only once all rules are
// satisfied.
func (a *RunningAuction) TimeLeft(now time.Time) time.Duration {
	end := a.StartedAt.Add(MinimumDuration)

	if !a.LastBid.IsZero() {
		if bidEnd := a.LastBid.Add(BidGracePeriod); bidEnd.After(end) {
			end = bidEnd
		}
	}

	if !a.LastUpdated.IsZero() && (a.LastBid.IsZero() || a.LastUpdated.After(a.LastBid)) {
		if updatedEnd := a.LastUpdated.Add(UpdateGracePeriod); updatedEnd.After(end) {
			end = updatedEnd
		}
	}

	if a.LastUpdated.IsZero() || (!a.LastBid.IsZero() && a.LastUpdated.Before(a.LastBid)) {
		if updatedEnd := now.Add(UpdateGracePeriod); updatedEnd.After(end) {
			end = updatedEnd
		}
	}

	if end.After(now) {
		return end.Sub(now)
	}
	return 0
}

// NeedsUpdate reports whether a progress update should be posted. Updates are
// throttled so a busy channel isn't spammed: only while Running, only once
// the auction is more than 30 seconds old, the last bid (if any) more than 10
// seconds old, and the last update (if any) more than 30 seconds old.
func (a *RunningAuction) NeedsUpdate(now time.Time) bool {
	if a.Status != StatusRunning {
		return false
	}

	return now.Sub(a.StartedAt) > updateAfterStart &&
		(a.LastBid.IsZero() || now.Sub(a.LastBid) > updateAfterBid) &&
		(a.LastUpdated.IsZero() || now.Sub(a.LastUpdated) > updateAfterUpdate)
}
