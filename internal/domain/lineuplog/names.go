package lineuplog

import "strings"

// CleanGroupName normalizes the raw lineup label the stats feed sends
// ("A. Edwards - R. Gobert - M. Conley") into the stored surname list
// ("Edwards; Gobert; Conley"). Entries without an initial keep their
// last word; single-word entries pass through untouched. Returns nil
// when nothing usable remains.
func CleanGroupName(raw string) *string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, " - ")
	cleaned := make([]string, 0, len(parts))
	for _, name := range parts {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		switch {
		case strings.Contains(name, ". "):
			_, last, _ := strings.Cut(name, ". ")
			cleaned = append(cleaned, last)
		case strings.Contains(name, " "):
			fields := strings.Fields(name)
			cleaned = append(cleaned, fields[len(fields)-1])
		default:
			cleaned = append(cleaned, name)
		}
	}

	if len(cleaned) == 0 {
		return nil
	}
	joined := strings.Join(cleaned, "; ")
	return &joined
}
