package cloudflare

import "errors"

var (
	ErrHTTPStatusNotValid = errors.New("HTTP status code not valid")
	ErrRecordNotFound     = errors.New("record not found")
	ErrUnsuccessful       = errors.New("API call was unsuccessful")
	ErrResultMissing      = errors.New("response result is missing")
)
