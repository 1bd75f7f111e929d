package dkp_http_client

import (
	"encoding/json"
	"fmt"
	"net/http"

	"code.cloudfoundry.org/lager"

	"github.com/guildhall/auction/auctiontypes"
)

// DKPHTTPClient talks to the external DKP provider: the current point
// snapshot for every character, and the character linked to a chat user.
type DKPHTTPClient struct {
	client  *http.Client
	address string
	logger  lager.Logger
}

func New(client *http.Client, address string, logger lager.Logger) *DKPHTTPClient {
	return &DKPHTTPClient{
		client:  client,
		address: address,
		logger:  logger,
	}
}

func (c *DKPHTTPClient) FetchBalances() (auctiontypes.Balances, error) {
	logger := c.logger.Session("fetching-balances")
	logger.Debug("requesting")

	resp, err := c.get("/balances")
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

	var balances auctiontypes.Balances
	err = json.NewDecoder(resp.Body).Decode(&balances)
	if err != nil {
		logger.Error("failed-to-parse-response", err)
		return nil, err
	}

	logger.Debug("done", lager.Data{"characters": len(balances)})
	return balances, nil
}

// ResolveCharacter maps a chat user to their linked character. An empty
// result with a nil error means no character is linked.
func (c *DKPHTTPClient) ResolveCharacter(userID string) (string, error) {
	logger := c.logger.Session("resolving-character", lager.Data{"user-id": userID})
	logger.Debug("requesting")

	resp, err := c.get("/characters/" + userID)
	if err != nil {
		logger.Error("failed-to-perform-request", err)
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", nil
	}
	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		logger.Error("invalid-status-code", err)
		return "", err
	}

	var payload struct {
		Character string `json:"character"`
	}
	err = json.NewDecoder(resp.Body).Decode(&payload)
	if err != nil {
		logger.Error("failed-to-parse-response", err)
		return "", err
	}

	return payload.Character, nil
}

func (c *DKPHTTPClient) get(path string) (*http.Response, error) {
	req, err := http.NewRequest("GET", c.address+path, nil)
	if err != nil {
		return nil, err
	}
	return c.client.Do(req)
}
