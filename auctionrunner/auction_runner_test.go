package auctionrunner_test

import (
	"errors"
	"math/rand"
	"os"
	"time"

	"code.cloudfoundry.org/clock/fakeclock"
	"code.cloudfoundry.org/lager/lagertest"
	"code.cloudfoundry.org/workpool"
	"github.com/tedsuo/ifrit"

	"github.com/guildhall/auction/auctioneer"
	"github.com/guildhall/auction/auctionrunner"
	"github.com/guildhall/auction/auctiontypes"
	"github.com/guildhall/auction/auctiontypes/fakes"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("AuctionRunner", func() {
	var (
		logger   *lagertest.TestLogger
		clk      *fakeclock.FakeClock
		provider *fakes.FakeBalanceProvider
		sink     *fakes.FakeMessageSink
		runner   *auctionrunner.AuctionRunner
		process  ifrit.Process
	)

	const tick = 5 * time.Second

	item := auctiontypes.AuctionItem{Name: "Eye of Sulfuras", Quantity: 1, AddedBy: "quartermaster"}
	limits := auctiontypes.Limits{Minimum: 1, Maximum: 500, Valuable: 50, Member: 100}

	contents := func() []string {
		messages := sink.DeliveredMessages()
		out := make([]string, len(messages))
		for i, message := range messages {
			out[i] = message.Content
		}
		return out
	}

	BeforeEach(func() {
		logger = lagertest.NewTestLogger("test")
		clk = fakeclock.NewFakeClock(time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC))

		provider = &fakes.FakeBalanceProvider{}
		provider.FetchBalancesReturns(auctiontypes.Balances{"midna": 200}, nil)
		sink = &fakes.FakeMessageSink{}

		workPool, err := workpool.NewWorkPool(1)
		Ω(err).ShouldNot(HaveOccurred())

		engine := auctioneer.New(logger, clk, rand.New(rand.NewSource(1)), []string{"auction-house"}, limits)
		runner = auctionrunner.New(logger, engine, provider, sink, clk, tick, workPool)
		process = ifrit.Invoke(runner)
	})

	AfterEach(func() {
		process.Signal(os.Interrupt)
		Eventually(process.Wait()).Should(Receive(BeNil()))
	})

	It("starts auctions for added items without waiting out the tick", func() {
		runner.AddItem(item)

		Eventually(contents).Should(ContainElement(ContainSubstring("Starting bids for Eye of Sulfuras")))
	})

	It("walks running auctions forward on each tick", func() {
		runner.AddItem(item)
		Eventually(contents).Should(ContainElement(ContainSubstring("Starting bids")))

		for i := 0; i < 7; i++ {
			clk.WaitForWatcherAndIncrement(tick)
		}
		Eventually(contents).Should(ContainElement(ContainSubstring("This is an update for Eye of Sulfuras")))
		Ω(provider.FetchBalancesCallCount()).Should(BeNumerically(">", 0))

		for i := 0; i < 12; i++ {
			clk.WaitForWatcherAndIncrement(tick)
		}
		Eventually(contents).Should(ContainElement(ContainSubstring("Auction closed.")))
	})

	It("refreshes balances and delivers messages for front-end operations", func() {
		runner.AddItem(item)
		Eventually(contents).Should(ContainElement(ContainSubstring("Starting bids")))

		runner.Bid("auction-house", "midna", 100, 0, auctiontypes.RankRaider)

		Ω(contents()).Should(ContainElement("Bid accepted!"))
		Ω(contents()).Should(ContainElement("midna has bid 100"))
		Ω(provider.FetchBalancesCallCount()).Should(BeNumerically(">", 0))

		runner.Stop("auction-house")
		Ω(contents()).Should(ContainElement("Auction for Eye of Sulfuras has been stopped."))
	})

	It("keeps working off the previous snapshot when the balance fetch fails", func() {
		runner.AddItem(item)
		Eventually(contents).Should(ContainElement(ContainSubstring("Starting bids")))

		runner.Bid("auction-house", "midna", 100, 0, auctiontypes.RankRaider)
		Ω(contents()).Should(ContainElement("midna has bid 100"))

		provider.FetchBalancesReturns(nil, errors.New("dkp provider down"))

		runner.Bid("auction-house", "midna", 90, 0, auctiontypes.RankRaider)
		Ω(contents()).Should(ContainElement("midna has bid 90"))
	})

	It("snapshots channel status", func() {
		statuses := runner.Status()
		Ω(statuses).Should(Equal([]auctiontypes.ChannelStatus{{Channel: "auction-house", Empty: true}}))

		runner.AddItem(item)
		Eventually(contents).Should(ContainElement(ContainSubstring("Starting bids")))

		statuses = runner.Status()
		Ω(statuses).Should(HaveLen(1))
		Ω(statuses[0].Empty).Should(BeFalse())
		Ω(statuses[0].Item).Should(Equal("Eye of Sulfuras"))
	})
})
