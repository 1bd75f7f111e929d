package auctiontypes

import (
	"fmt"
	"strings"
)

// AuctionResults is an immutable snapshot of an auction's outcome. Winners
// are bids awarded outright. Tied holds an entire priority group that could
// not fit in the remaining quantity; those bidders roll off out of band.
// Rolled counts copies left over after every bid group was consumed, also
// resolved by an external random draw.
type AuctionResults struct {
	Winners []Bid `json:"winners"`
	Tied    []Bid `json:"tied"`
	Rolled  int   `json:"rolled"`
}

// Equal compares two result snapshots. Accept uses this to detect results
// drifting between close time and acceptance.
func (r AuctionResults) Equal(other AuctionResults) bool {
	if len(r.Winners) != len(other.Winners) || len(r.Tied) != len(other.Tied) || r.Rolled != other.Rolled {
		return false
	}
	for i := range r.Winners {
		if r.Winners[i] != other.Winners[i] {
			return false
		}
	}
	for i := range r.Tied {
		if r.Tied[i] != other.Tied[i] {
			return false
		}
	}
	return true
}

func (r AuctionResults) String() string {
	sections := []string{}

	if len(r.Winners) > 0 {
		sections = append(sections, "Winners: "+joinBids(r.Winners))
	}
	if len(r.Tied) > 0 {
		sections = append(sections, "Tied (roll off): "+joinBids(r.Tied))
	}
	if r.Rolled > 0 {
		sections = append(sections, fmt.Sprintf("Open rolls: %d", r.Rolled))
	}
	if len(sections) == 0 {
		return "No bids"
	}

	return strings.Join(sections, "; ")
}

func joinBids(bids []Bid) string {
	parts := make([]string, len(bids))
	for i, bid := range bids {
		parts[i] = fmt.Sprintf("%s (%d)", bid.Bidder, bid.Amount)
	}
	return strings.Join(parts, ", ")
}
