package cors

import "strings"

type wildcard struct {
	prefix string
	suffix string
}

func (w wildcard) match(s string) bool {
	return len(s) >= len(w.prefix)+len(w.suffix) && strings.HasPrefix(s, w.prefix) && strings.HasSuffix(s, w.suffix)
}

func convert(s []string, c func(string) string) []string {
	out := make([]string, 0, len(s))
	for _, i := range s {
		out = append(out, c(i))
	}
	return out
}

// parseHeaderList splits a comma separated header value into lowercased names.
func parseHeaderList(headerList string) []string {
	var headers []string
	for h := range strings.SplitSeq(headerList, ",") {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			headers = append(headers, h)
		}
	}
	return headers
}
