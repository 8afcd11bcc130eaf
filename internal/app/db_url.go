package app

import (
	"net/url"
	"strings"
)

// normalizeDBURL tags connections with application_name so they can be told
// apart in pg_stat_activity. An explicit value in raw wins.
func normalizeDBURL(raw, applicationName string) string {
	applicationName = strings.TrimSpace(applicationName)
	if applicationName == "" {
		return raw
	}

	trimmed := strings.TrimSpace(raw)
	parsed, err := url.Parse(trimmed)
	if err == nil && parsed != nil && parsed.Scheme != "" {
		query := parsed.Query()
		if query.Get("application_name") == "" {
			query.Set("application_name", applicationName)
			parsed.RawQuery = query.Encode()
		}
		return parsed.String()
	}

	if trimmed == "" || strings.Contains(trimmed, "application_name=") {
		return raw
	}
	return trimmed + " application_name='" + strings.ReplaceAll(applicationName, "'", `\'`) + "'"
}

func dbNameFromURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	parsed, err := url.Parse(trimmed)
	if err == nil && parsed != nil && parsed.Scheme != "" {
		name := strings.TrimSpace(strings.TrimPrefix(parsed.Path, "/"))
		if name != "" {
			return name
		}
	}

	for _, token := range strings.Fields(trimmed) {
		if !strings.HasPrefix(token, "dbname=") {
			continue
		}
		name := strings.TrimSpace(strings.TrimPrefix(token, "dbname="))
		name = strings.Trim(name, `"'`)
		if name != "" {
			return name
		}
	}

	return ""
}
