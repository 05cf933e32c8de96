package export

import "strings"

// SanitizeFilename reduces a sermon title to a safe download filename stem.
// Only letters and digits survive; everything else becomes an underscore,
// with runs collapsed. An empty result falls back to "sermon".
func SanitizeFilename(title string) string {
	var b strings.Builder
	lastUnderscore := true // suppress a leading underscore

	for _, r := range title {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}

	out := strings.Trim(b.String(), "_")
	if out == "" {
		return "sermon"
	}
	if len(out) > 80 {
		out = strings.Trim(out[:80], "_")
	}
	return out
}
