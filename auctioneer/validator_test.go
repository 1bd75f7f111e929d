package auctioneer_test

import (
	"time"

	"github.com/guildhall/auction/auctioneer"
	"github.com/guildhall/auction/auctiontypes"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("ValidateBid", func() {
	var auction *auctiontypes.RunningAuction
	var balances auctiontypes.Balances
	var limits auctiontypes.Limits

	BeforeEach(func() {
		item := auctiontypes.AuctionItem{Name: "Crown of Destruction", Quantity: 1, AddedBy: "quartermaster"}
		auction = auctiontypes.NewRunningAuction(item, time.Now())
		balances = auctiontypes.Balances{"midna": 200, "zant": 123}
		limits = auctiontypes.Limits{Minimum: 1, Maximum: 500, Valuable: 50, Member: 100}
	})

	It("rejects bids above the maximum", func() {
		ok, reason := auctioneer.ValidateBid("midna", 501, auction, balances, limits)
		Ω(ok).Should(BeFalse())
		Ω(reason).Should(Equal("Error: Invalid Bid (bids above 500 are not allowed)."))
	})

	It("rejects bids below the minimum", func() {
		ok, reason := auctioneer.ValidateBid("midna", 0, auction, balances, limits)
		Ω(ok).Should(BeFalse())
		Ω(reason).Should(Equal("Error: Invalid bid (bids below 1 are not allowed)."))
	})

	It("rejects off-increment bids at or above the valuable threshold", func() {
		ok, reason := auctioneer.ValidateBid("midna", 52, auction, balances, limits)
		Ω(ok).Should(BeFalse())
		Ω(reason).Should(Equal("Error: Invalid Bid (bids above 50 must be in increments of 5)."))
	})

	It("allows any increment below the valuable threshold", func() {
		ok, _ := auctioneer.ValidateBid("midna", 49, auction, balances, limits)
		Ω(ok).Should(BeTrue())
	})

	It("exempts an all-in bid from the increment rule", func() {
		ok, _ := auctioneer.ValidateBid("zant", 123, auction, balances, limits)
		Ω(ok).Should(BeTrue())
	})

	It("exempts a bid matching an amount already on the board", func() {
		auction.AddBid(auctiontypes.Bid{Bidder: "zant", Amount: 123}, time.Now())

		ok, _ := auctioneer.ValidateBid("midna", 123, auction, balances, limits)
		Ω(ok).Should(BeTrue())
	})

	It("rejects bids beyond the bidder's balance", func() {
		ok, reason := auctioneer.ValidateBid("midna", 205, auction, balances, limits)
		Ω(ok).Should(BeFalse())
		Ω(reason).Should(Equal("Error: Invalid Bid (not enough dkp)."))
	})

	It("treats a bidder missing from the snapshot as having zero points", func() {
		ok, reason := auctioneer.ValidateBid("stranger", 5, auction, balances, limits)
		Ω(ok).Should(BeFalse())
		Ω(reason).Should(Equal("Error: Invalid Bid (not enough dkp)."))
	})
})
