package customHttpClient

import (
	"net/http"

	"github.com/akolanti/DocQA/internal/config"
)

var customTransport = &http.Transport{
	MaxIdleConns:        config.MaxIdleConns,
	MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
	IdleConnTimeout:     config.IdleConnTimeout,
}

// Pooled is the shared client for outbound HTTP (conversion service, object
// storage uploads). Timeouts are applied per request via context, not here -
// conversion polling legitimately outlives any single-request deadline.
var Pooled = &http.Client{Transport: customTransport}
