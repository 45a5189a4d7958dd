package capture

import (
	"net/url"
	"strings"
)

// escapable holds the characters terminals backslash-escape when a file is
// dragged onto the window. A backslash before anything else is kept, so
// Windows paths survive.
const escapable = " \t'\"\\()[]{}&;!$`*?#<>|~"

// ParseDropPayload splits the text a terminal pastes for a drag-and-drop
// gesture into file paths. It understands shell quoting, backslash escapes
// and file:// URIs, one or many per payload.
func ParseDropPayload(text string) []string {
	var (
		paths   []string
		current strings.Builder
		quote   rune
		pending bool
	)
	flush := func() {
		if !pending {
			return
		}
		if p := normalizeDropToken(current.String()); p != "" {
			paths = append(paths, p)
		}
		current.Reset()
		pending = false
	}

	runes := []rune(strings.TrimSpace(text))
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
				continue
			}
			current.WriteRune(r)
		case r == '\'' || r == '"':
			quote = r
			pending = true
		case r == '\\' && i+1 < len(runes) && strings.ContainsRune(escapable, runes[i+1]):
			current.WriteRune(runes[i+1])
			pending = true
			i++
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			flush()
		default:
			current.WriteRune(r)
			pending = true
		}
	}
	flush()
	return paths
}

func normalizeDropToken(token string) string {
	token = strings.TrimSpace(token)
	if token == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(token), "file://") {
		u, err := url.Parse(token)
		if err != nil || u.Path == "" {
			return ""
		}
		return u.Path
	}
	return token
}
