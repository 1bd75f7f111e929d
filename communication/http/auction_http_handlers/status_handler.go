package auction_http_handlers

import (
	"encoding/json"
	"net/http"

	"code.cloudfoundry.org/lager"

	"github.com/guildhall/auction/auctiontypes"
)

type status struct {
	hall   auctiontypes.AuctionHall
	logger lager.Logger
}

func (h *status) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.Session("status")
	logger.Info("handling")

	statuses := h.hall.Status()

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(statuses)

	logger.Info("success")
}
