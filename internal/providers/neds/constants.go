package neds

import "time"

const (
	defaultBaseURL     = "https://api.neds.com.au/rest/v1/racing/"
	defaultMethod      = "nextraces"
	defaultCount       = 10
	defaultHTTPTimeout = 10 * time.Second
	// statusOK is the envelope status the provider reports on success.
	statusOK = 200
	// maxErrorBody bounds how much of a failed response body is kept in errors.
	maxErrorBody = 512
)
