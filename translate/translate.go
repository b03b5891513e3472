// Package translate localizes the user visible messages of the comp machine.
package translate

import (
	"sync"

	"github.com/jeandeaual/go-locale"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	printer     *message.Printer
	printerOnce sync.Once
)

// Languages returns the user's preferred languages, falling back to en-US.
func Languages() (tags []language.Tag) {
	locales, err := locale.GetLocales()
	if err != nil {
		logrus.WithError(err).Warn("comp: locale")
	}

	for _, name := range locales {
		tag, err := language.Parse(name)
		if err != nil {
			continue
		}
		tags = append(tags, tag)
	}

	if len(tags) == 0 {
		tags = []language.Tag{language.AmericanEnglish}
	}

	return
}

// From an en-US Sprintf() format, translate to string.
func From(key message.Reference, args ...any) string {
	printerOnce.Do(func() {
		printer = message.NewPrinter(message.MatchLanguage(languageNames(Languages())...))
	})
	return printer.Sprintf(key, args...)
}

func languageNames(tags []language.Tag) (names []string) {
	for _, tag := range tags {
		names = append(names, tag.String())
	}
	return
}
