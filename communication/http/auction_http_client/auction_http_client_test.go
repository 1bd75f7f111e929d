package auction_http_client_test

import (
	"net/http"

	"code.cloudfoundry.org/lager/lagertest"
	"github.com/onsi/gomega/ghttp"

	"github.com/guildhall/auction/auctiontypes"
	"github.com/guildhall/auction/communication/http/auction_http_client"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("AuctionHTTPClient", func() {
	var (
		server *ghttp.Server
		client *auction_http_client.AuctionHTTPClient
	)

	item := auctiontypes.AuctionItem{Name: "Nexus Crystal", Quantity: 2, AddedBy: "quartermaster"}

	BeforeEach(func() {
		server = ghttp.NewServer()
		client = auction_http_client.New(&http.Client{}, server.URL(), lagertest.NewTestLogger("test"))
	})

	AfterEach(func() {
		server.Close()
	})

	Describe("AddItem", func() {
		It("posts the item", func() {
			server.AppendHandlers(ghttp.CombineHandlers(
				ghttp.VerifyRequest("POST", "/v1/items"),
				ghttp.VerifyJSONRepresenting(item),
				ghttp.RespondWith(http.StatusCreated, ""),
			))

			Ω(client.AddItem(item)).Should(Succeed())
			Ω(server.ReceivedRequests()).Should(HaveLen(1))
		})

		It("errors when the auctioneer rejects the item", func() {
			server.AppendHandlers(ghttp.RespondWith(http.StatusInternalServerError, ""))

			Ω(client.AddItem(item)).ShouldNot(Succeed())
		})

		It("errors when the auctioneer is unreachable", func() {
			server.Close()

			Ω(client.AddItem(item)).ShouldNot(Succeed())
		})
	})

	Describe("Status", func() {
		statuses := []auctiontypes.ChannelStatus{
			{Channel: "auction-house", Item: "Nexus Crystal x2", Status: "running", Bids: 1, TimeLeftInSec: 72},
			{Channel: "bazaar", Empty: true},
		}

		It("fetches the channel snapshot", func() {
			server.AppendHandlers(ghttp.CombineHandlers(
				ghttp.VerifyRequest("GET", "/v1/status"),
				ghttp.RespondWithJSONEncoded(http.StatusOK, statuses),
			))

			fetched, err := client.Status()
			Ω(err).ShouldNot(HaveOccurred())
			Ω(fetched).Should(Equal(statuses))
		})

		It("errors on an unexpected status code", func() {
			server.AppendHandlers(ghttp.RespondWith(http.StatusInternalServerError, ""))

			_, err := client.Status()
			Ω(err).Should(HaveOccurred())
		})

		It("errors on a garbled response", func() {
			server.AppendHandlers(ghttp.RespondWith(http.StatusOK, "not json"))

			_, err := client.Status()
			Ω(err).Should(HaveOccurred())
		})
	})
})
