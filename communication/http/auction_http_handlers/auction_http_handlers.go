package auction_http_handlers

import (
	"code.cloudfoundry.org/lager"
	"github.com/tedsuo/rata"

	"github.com/guildhall/auction/auctiontypes"
	"github.com/guildhall/auction/communication/http/routes"
)

func New(hall auctiontypes.AuctionHall, logger lager.Logger) rata.Handlers {
	handlers := rata.Handlers{
		routes.AddItem: &addItem{hall: hall, logger: logger},
		routes.Status:  &status{hall: hall, logger: logger},
	}

	return handlers
}
