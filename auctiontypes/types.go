package auctiontypes

import "fmt"

// Status tracks where a channel's auction is in its lifecycle. Finished is
// only reachable from Running via time expiry; reopening is the only way
// back out of Stopped or Finished.
type Status int

const (
	StatusRunning Status = iota
	StatusStopped
	StatusFinished
)

func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "running"
	case StatusStopped:
		return "stopped"
	case StatusFinished:
		return "finished"
	}
	return "unknown"
}

// BidderRank is the closed set of priority tiers. Ranks only affect
// tie-break ordering, never eligibility to bid.
type BidderRank int

const (
	RankRaider BidderRank = iota
	RankAlt
	RankRecruit
	RankMember
)

func (r BidderRank) String() string {
	switch r {
	case RankRaider:
		return "raider"
	case RankAlt:
		return "alt"
	case RankRecruit:
		return "recruit"
	case RankMember:
		return "member"
	}
	return "unknown"
}

// AuctionItem is one thing up for bids. AddedBy records who enqueued it.
type AuctionItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	AddedBy  string `json:"added_by"`
}

// Description is the display label for the item, with a quantity suffix when
// more than one copy is being auctioned.
func (i AuctionItem) Description() string {
	if i.Quantity > 1 {
		return fmt.Sprintf("%s x%d", i.Name, i.Quantity)
	}
	return i.Name
}

// Bid is immutable once placed. ID distinguishes multiple simultaneous bids
// from the same bidder (e.g. bidding separately for two copies); a bidder
// re-bidding under the same ID supersedes the earlier bid at resolution time.
type Bid struct {
	Bidder string     `json:"bidder"`
	Rank   BidderRank `json:"rank"`
	Amount int        `json:"amount"`
	ID     int        `json:"id"`
}

// Limits holds the bid validation and tie-break thresholds.
type Limits struct {
	Minimum  int
	Maximum  int
	Valuable int
	Member   int
}

// Balances is a point snapshot keyed by character name. A character missing
// from the snapshot simply has a balance of zero.
type Balances map[string]int

// AuctionMessage is an outbound chat message. Hidden messages go only to the
// invoking user; public ones to the whole channel.
type AuctionMessage struct {
	Channel string `json:"channel"`
	Content string `json:"content"`
	Hidden  bool   `json:"hidden,omitempty"`
}

// ChannelStatus is a point-in-time view of one channel, for the status API.
type ChannelStatus struct {
	Channel       string `json:"channel"`
	Empty         bool   `json:"empty"`
	Item          string `json:"item,omitempty"`
	Status        string `json:"status,omitempty"`
	Bids          int    `json:"bids,omitempty"`
	TimeLeftInSec int    `json:"time_left_in_seconds,omitempty"`
}

// BalanceProvider fetches the current point snapshot. The engine never calls
// it; the runner refreshes the snapshot around state-affecting operations.
type BalanceProvider interface {
	FetchBalances() (Balances, error)
}

// MessageSink accepts outbound messages for delivery to the chat platform.
type MessageSink interface {
	Deliver(AuctionMessage) error
}

// AuctionHall is the administrative surface exposed over HTTP: enqueue an
// item for auction, and snapshot what every channel is doing.
type AuctionHall interface {
	AddItem(AuctionItem)
	Status() []ChannelStatus
}
