package httpclient

import (
	"net/http"
	"slices"
	"strings"
)

const redacted = "[REDACTED]"

// sensitiveHeaders are masked in cURL renderings.
var sensitiveHeaders = []string{HeaderAuthorization, "Cookie", "Proxy-Authorization"}

// CURL renders req as a cURL command for debug logs. Credential headers are
// redacted.
func CURL(req *Request) string {
	if req == nil || req.URL == nil {
		return "curl"
	}
	var sb strings.Builder
	sb.WriteString("curl -v")

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	sb.WriteString(" -X ")
	sb.WriteString(method)

	keys := make([]string, 0, len(req.Header))
	for k := range req.Header {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		for _, v := range req.Header[k] {
			if slices.Contains(sensitiveHeaders, http.CanonicalHeaderKey(k)) {
				v = redacted
			}
			sb.WriteString(" -H ")
			sb.WriteString(shellQuote(k + ": " + v))
		}
	}

	if len(req.Body) > 0 {
		sb.WriteString(" -d ")
		sb.WriteString(shellQuote(string(req.Body)))
	}

	sb.WriteByte(' ')
	sb.WriteString(shellQuote(req.URL.String()))
	return sb.String()
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
