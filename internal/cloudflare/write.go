package cloudflare

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// WriteRequest is the payload for a record write. The name and type
// must be the record's existing values since Cloudflare's PUT call
// replaces the whole record.
type WriteRequest struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Content string `json:"content"`
	TTL     uint32 `json:"ttl"`
	Proxied bool   `json:"proxied"`
	Comment string `json:"comment,omitempty"`
}

// WriteResult carries the provider's verdict on a write attempt.
// Success false with a nil error means the provider rejected the
// write; RawResponse holds the provider's JSON body for auditing.
type WriteResult struct {
	Success     bool
	Message     string
	RawResponse string
}

// WriteRecord overwrites a DNS record with the given payload using an
// idempotent PUT.
// See https://developers.cloudflare.com/api/operations/dns-records-for-a-zone-update-dns-record.
func (c *Client) WriteRecord(ctx context.Context, zoneID, recordID, token string,
	writeRequest WriteRequest) (result WriteResult, err error) {
	url := c.baseURL + "/client/v4/zones/" + zoneID + "/dns_records/" + recordID

	buffer := bytes.NewBuffer(nil)
	encoder := json.NewEncoder(buffer)
	err = encoder.Encode(writeRequest)
	if err != nil {
		return result, fmt.Errorf("json encoding request data: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPut, url, buffer)
	if err != nil {
		return result, fmt.Errorf("creating http request: %w", err)
	}
	setHeaders(request, token)

	response, err := c.client.Do(request)
	if err != nil {
		return result, err
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return result, fmt.Errorf("reading response body: %w", err)
	}
	result.RawResponse = string(body)

	if response.StatusCode > http.StatusUnsupportedMediaType {
		return result, fmt.Errorf("%w: %d: %s",
			ErrHTTPStatusNotValid, response.StatusCode, toSingleLine(string(body)))
	}

	var parsedJSON struct {
		Success bool `json:"success"`
		Errors  []struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"errors"`
	}
	err = json.Unmarshal(body, &parsedJSON)
	if err != nil {
		return result, fmt.Errorf("json decoding response body: %w", err)
	}

	result.Success = parsedJSON.Success
	if parsedJSON.Success {
		result.Message = "DNS record updated."
	} else {
		result.Message = joinErrors(parsedJSON.Errors)
		if result.Message == "" {
			result.Message = "Cloudflare rejected the update."
		}
	}
	return result, nil
}
