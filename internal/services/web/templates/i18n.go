package templates

import (
	"fmt"

	"golang.org/x/text/message"
)

// Localizer provides translated strings for page templates.
type Localizer interface {
	Sprintf(key message.Reference, args ...any) string
}

// T returns a translated string or a key-derived fallback.
func T(loc Localizer, key message.Reference, args ...any) string {
	if loc != nil {
		return loc.Sprintf(key, args...)
	}
	if keyString, ok := key.(string); ok {
		if len(args) > 0 {
			return fmt.Sprintf(keyString, args...)
		}
		return keyString
	}
	return ""
}

// TS translates key with string arguments, as carried by flash notices and
// domain error metadata.
func TS(loc Localizer, key string, args []string) string {
	anyArgs := make([]any, len(args))
	for i, arg := range args {
		anyArgs[i] = arg
	}
	return T(loc, key, anyArgs...)
}
