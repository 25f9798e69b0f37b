package report

import (
	"fmt"
	"regexp"
	"strings"
)

// PlayerFlag maps a roster-name fragment to a named report column. The
// match is a case-sensitive substring check against group_name, so a
// fragment can over-match an unrelated player with a similar name; that
// approximation is accepted.
type PlayerFlag struct {
	// Name is the flag column key, e.g. "has_reid".
	Name string
	// Fragment is the substring looked for in group_name, e.g. "Reid".
	Fragment string
}

var flagNameRegex = regexp.MustCompile(`^[a-z][a-z0-9_]{0,62}$`)

func (f PlayerFlag) Validate() error {
	if !flagNameRegex.MatchString(f.Name) {
		return fmt.Errorf("flag name %q must match %s", f.Name, flagNameRegex.String())
	}
	if strings.TrimSpace(f.Fragment) == "" {
		return fmt.Errorf("flag %q fragment is required", f.Name)
	}

	return nil
}

// FlagFromFragment derives a flag key from a bare name fragment, e.g.
// "Reid" becomes has_reid.
func FlagFromFragment(fragment string) PlayerFlag {
	key := strings.ToLower(strings.TrimSpace(fragment))
	key = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, key)

	return PlayerFlag{Name: "has_" + key, Fragment: strings.TrimSpace(fragment)}
}

// EvalFlags computes every flag against a group name. A nil group name
// yields false for every flag. Within a season aggregate group the
// group name is part of the grouping key, so the same check is the
// "ever present" maximum across the group's games.
func EvalFlags(groupName *string, flags []PlayerFlag) map[string]bool {
	if len(flags) == 0 {
		return nil
	}

	out := make(map[string]bool, len(flags))
	for _, flag := range flags {
		if groupName == nil {
			out[flag.Name] = false
			continue
		}
		out[flag.Name] = strings.Contains(*groupName, flag.Fragment)
	}

	return out
}

func ValidateFlags(flags []PlayerFlag) error {
	seen := make(map[string]struct{}, len(flags))
	for _, flag := range flags {
		if err := flag.Validate(); err != nil {
			return err
		}
		if _, dup := seen[flag.Name]; dup {
			return fmt.Errorf("duplicate flag name %q", flag.Name)
		}
		seen[flag.Name] = struct{}{}
	}

	return nil
}
