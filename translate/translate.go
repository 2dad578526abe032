// Package translate formats user-visible messages for the current locale.
package translate

import (
	"log"

	"github.com/jeandeaual/go-locale"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	DEFAULT_LOCALE = "en-US" // Used when the system reports no locale.
)

var (
	printer *message.Printer
	current language.Tag
)

func init() {
	locales, err := locale.GetLocales()
	if err != nil {
		log.Printf("rm16: locale: %v", err)
	}

	if len(locales) == 0 {
		locales = []string{DEFAULT_LOCALE}
	}

	current = message.MatchLanguage(locales...)
	printer = message.NewPrinter(current)
}

// SetLocale selects the message locale by BCP 47 tag, overriding the
// system locale.
func SetLocale(tag string) (err error) {
	lang, err := language.Parse(tag)
	if err != nil {
		return
	}

	current = lang
	printer = message.NewPrinter(lang)

	return
}

// Locale returns the active message locale.
func Locale() language.Tag {
	return current
}

// From an en-US Sprintf() format, translate to string.
func From(key message.Reference, args ...any) string {
	return printer.Sprintf(key, args...)
}
