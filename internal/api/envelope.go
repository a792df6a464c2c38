package api

import (
	"encoding/json"
	"strings"
)

// envelope is the uniform wrapper every server response uses, success or
// failure. Data varies per endpoint; the rest is constant.
type envelope struct {
	Success bool                `json:"success"`
	Code    int                 `json:"code"`
	Message string              `json:"message"`
	Data    json.RawMessage     `json:"data,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

// isHTMLBody sniffs for an HTML error page where JSON was expected, the
// signature of a misconfigured base URL.
func isHTMLBody(contentType string, body []byte) bool {
	if strings.Contains(strings.ToLower(contentType), "text/html") {
		return true
	}
	head := body
	if len(head) > 512 {
		head = head[:512]
	}
	sniff := strings.ToLower(string(head))
	return strings.Contains(sniff, "<html") || strings.Contains(sniff, "<!doctype")
}
