package auction_http_client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"code.cloudfoundry.org/cfhttp/v2"
	"code.cloudfoundry.org/lager"
	"github.com/tedsuo/rata"

	"github.com/guildhall/auction/auctiontypes"
	"github.com/guildhall/auction/communication/http/routes"
)

const defaultRequestTimeout = 10 * time.Second

// AuctionHTTPClient talks to the auctioneer's administrative API: enqueue
// items and fetch the per-channel status snapshot.
type AuctionHTTPClient struct {
	client           *http.Client
	address          string
	requestGenerator *rata.RequestGenerator
	logger           lager.Logger
}

func New(client *http.Client, address string, logger lager.Logger) *AuctionHTTPClient {
	return &AuctionHTTPClient{
		client:           client,
		address:          address,
		requestGenerator: rata.NewRequestGenerator(address, routes.Routes),
		logger:           logger,
	}
}

func NewWithDefaultTimeout(address string, logger lager.Logger) *AuctionHTTPClient {
	return New(cfhttp.NewClient(cfhttp.WithRequestTimeout(defaultRequestTimeout)), address, logger)
}

func (c *AuctionHTTPClient) AddItem(item auctiontypes.AuctionItem) error {
	logger := c.logger.Session("add-item", lager.Data{"item": item.Name, "quantity": item.Quantity})
	logger.Debug("requesting")

	payload, err := json.Marshal(item)
	if err != nil {
		logger.Error("failed-to-marshal-item", err)
		return err
	}

	req, err := c.requestGenerator.CreateRequest(routes.AddItem, nil, bytes.NewReader(payload))
	if err != nil {
		logger.Error("failed-to-create-request", err)
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		logger.Error("failed-to-perform-request", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		err := fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		logger.Error("invalid-status-code", err)
		return err
	}

	logger.Debug("done")
	return nil
}

func (c *AuctionHTTPClient) Status() ([]auctiontypes.ChannelStatus, error) {
	logger := c.logger.Session("fetching-status")
	logger.Debug("requesting")

	req, err := c.requestGenerator.CreateRequest(routes.Status, nil, nil)
	if err != nil {
		logger.Error("failed-to-create-request", err)
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		logger.Error("failed-to-perform-request", err)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		logger.Error("invalid-status-code", err)
		return nil, err
	}

	var statuses []auctiontypes.ChannelStatus
	err = json.NewDecoder(resp.Body).Decode(&statuses)
	if err != nil {
		logger.Error("failed-to-parse-response", err)
		return nil, err
	}

	logger.Debug("done")
	return statuses, nil
}
