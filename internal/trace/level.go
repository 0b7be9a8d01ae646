package trace

import (
	"fmt"
	"slices"
	"strings"
)

// Level controls tracing verbosity. Each level admits the scopes up to
// its own, see ShouldEmit.
type Level uint8

const (
	LevelOff    Level = iota // no tracing
	LevelPhase               // driver + phase boundaries
	LevelDetail              // per-file events
	LevelDebug               // everything including user function calls
)

var levelNames = []string{"off", "phase", "detail", "debug"}

// widest scope admitted per level
var levelScopes = [...]Scope{LevelOff: 0, LevelPhase: ScopePhase, LevelDetail: ScopeFile, LevelDebug: ScopeCall}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel reads a --trace-level value; "" means off.
func ParseLevel(s string) (Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return LevelOff, nil
	}
	if i := slices.Index(levelNames, s); i >= 0 {
		return Level(i), nil
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: %s)", s, strings.Join(levelNames, "|"))
}

// ShouldEmit reports whether events of scope pass this level.
func (l Level) ShouldEmit(scope Scope) bool {
	return int(l) < len(levelScopes) && scope != 0 && scope <= levelScopes[l]
}
