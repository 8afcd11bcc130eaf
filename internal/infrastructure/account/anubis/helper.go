package anubis

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/url"
	"strings"
)

// isCircuitFailure counts only outages. Rejected tokens are a normal answer.
func isCircuitFailure(err error) bool {
	return errors.Is(err, errAnubisTransient)
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// buildURL joins the introspection path onto the base URL. An absolute path
// overrides the base.
func buildURL(baseURL, path string) string {
	path = strings.TrimSpace(path)
	if u, err := url.Parse(path); err == nil && u.IsAbs() {
		return path
	}

	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if path == "" {
		return base
	}
	return base + "/" + strings.TrimLeft(path, "/")
}
