package conn

import (
	"fmt"
	"net/url"
	"strings"
)

// MonitorURL builds the streaming endpoint for a monitored lab:
// ws(s)://<host>/ws/labs/{labId}?token={bearer}.
func MonitorURL(endpoint, labID, token string) string {
	return fmt.Sprintf("%s/ws/labs/%s?token=%s",
		strings.TrimRight(endpoint, "/"),
		url.PathEscape(labID),
		url.QueryEscape(token))
}

// LogURL builds the live-log endpoint for one container:
// ws(s)://<host>/ws/labs/{labId}/logs/{hostname}?token={bearer}.
func LogURL(endpoint, labID, hostname, token string) string {
	return fmt.Sprintf("%s/ws/labs/%s/logs/%s?token=%s",
		strings.TrimRight(endpoint, "/"),
		url.PathEscape(labID),
		url.PathEscape(hostname),
		url.QueryEscape(token))
}
