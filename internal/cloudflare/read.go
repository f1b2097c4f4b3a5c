package cloudflare

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// Record is a snapshot of one DNS record as the provider sees it.
type Record struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Content string `json:"content"`
	TTL     uint32 `json:"ttl"`
	Proxied bool   `json:"proxied"`
}

// ReadRecord fetches the live state of a single DNS record.
// See https://developers.cloudflare.com/api/operations/dns-records-for-a-zone-dns-record-details.
func (c *Client) ReadRecord(ctx context.Context, zoneID, recordID, token string) (
	record Record, err error) {
	url := c.baseURL + "/client/v4/zones/" + zoneID + "/dns_records/" + recordID

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return record, fmt.Errorf("creating http request: %w", err)
	}
	setHeaders(request, token)

	response, err := c.client.Do(request)
	if err != nil {
		return record, err
	}
	defer response.Body.Close()

	if response.StatusCode == http.StatusNotFound {
		return record, fmt.Errorf("%w: zone %s record %s",
			ErrRecordNotFound, zoneID, recordID)
	} else if response.StatusCode != http.StatusOK {
		return record, fmt.Errorf("%w: %d: %s",
			ErrHTTPStatusNotValid, response.StatusCode, bodyToSingleLine(response.Body))
	}

	decoder := json.NewDecoder(response.Body)
	var parsedJSON struct {
		Success bool `json:"success"`
		Errors  []struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"errors"`
		Result *Record `json:"result"`
	}
	err = decoder.Decode(&parsedJSON)
	if err != nil {
		return record, fmt.Errorf("json decoding response body: %w", err)
	}

	switch {
	case !parsedJSON.Success:
		return record, fmt.Errorf("%w: %s",
			ErrUnsuccessful, joinErrors(parsedJSON.Errors))
	case parsedJSON.Result == nil:
		return record, fmt.Errorf("%w", ErrResultMissing)
	}

	record = *parsedJSON.Result
	record.Type = strings.ToUpper(record.Type)
	return record, nil
}
