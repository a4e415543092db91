// utils/http.go
package utils

import (
	"net/http"
	"time"
)

// HTTPClient is used to probe link submissions before accepting them.
var HTTPClient = &http.Client{
	Timeout: 15 * time.Second,
}
