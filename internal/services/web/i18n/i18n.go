// Package i18n resolves the request language and prints catalog messages for
// web pages.
package i18n

import (
	"net/http"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var supported = []language.Tag{language.English}

var matcher = language.NewMatcher(supported)

// Default returns the fallback language.
func Default() language.Tag {
	return language.English
}

// Supported lists the languages with a message catalog.
func Supported() []language.Tag {
	return append([]language.Tag(nil), supported...)
}

// ResolveTag picks the best supported language from Accept-Language.
func ResolveTag(r *http.Request) language.Tag {
	if r == nil {
		return Default()
	}
	prefs, _, err := language.ParseAcceptLanguage(r.Header.Get("Accept-Language"))
	if err != nil || len(prefs) == 0 {
		return Default()
	}
	_, index, confidence := matcher.Match(prefs...)
	if confidence == language.No {
		return Default()
	}
	return supported[index]
}

// Printer returns a message printer for tag.
func Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag)
}

// ForRequest returns the printer and language string for r.
func ForRequest(r *http.Request) (*message.Printer, string) {
	tag := ResolveTag(r)
	return Printer(tag), tag.String()
}
