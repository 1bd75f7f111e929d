package auction_http_handlers

import (
	"encoding/json"
	"net/http"

	"code.cloudfoundry.org/lager"
)

func decodeJSON(w http.ResponseWriter, r *http.Request, into interface{}, logger lager.Logger) bool {
	err := json.NewDecoder(r.Body).Decode(into)
	if err != nil {
		logger.Error("failed-to-parse-request-body", err)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(err.Error()))
		return false
	}
	return true
}
