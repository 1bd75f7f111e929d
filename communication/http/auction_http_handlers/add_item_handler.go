package auction_http_handlers

import (
	"net/http"

	"code.cloudfoundry.org/lager"

	"github.com/guildhall/auction/auctiontypes"
)

type addItem struct {
	hall   auctiontypes.AuctionHall
	logger lager.Logger
}

func (h *addItem) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.Session("add-item")
	logger.Info("handling")

	var item auctiontypes.AuctionItem
	if !decodeJSON(w, r, &item, logger) {
		return
	}

	logger = logger.WithData(lager.Data{
		"item":     item.Name,
		"quantity": item.Quantity,
		"added-by": item.AddedBy,
	})

	if item.Name == "" || item.Quantity < 1 {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("an item name and a quantity of at least 1 are required"))
		logger.Info("rejected")
		return
	}

	h.hall.AddItem(item)
	w.WriteHeader(http.StatusCreated)

	logger.Info("success")
}
