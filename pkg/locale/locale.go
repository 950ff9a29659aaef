// Package locale formats user-facing messages for one language. A Printer
// is created per invocation and passed to whatever prints; there is no
// process-wide language setting.
package locale

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Supported lists the catalog languages; the first is the fallback.
var Supported = []language.Tag{language.English, language.German, language.Spanish}

var (
	cat     = mustCatalog()
	matcher = language.NewMatcher(Supported)
)

func mustCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, byTag := range translations {
		for tag, msg := range byTag {
			if err := b.SetString(tag, key, msg); err != nil {
				panic(fmt.Sprintf("locale: %s %q: %v", tag, key, err))
			}
		}
	}
	return b
}

// Printer formats catalog messages in a fixed language.
type Printer struct {
	tag language.Tag
	p   *message.Printer
}

// New returns a Printer for lang, a BCP 47 tag such as "de" or "es-MX".
// Empty means English. Unsupported but well-formed tags fall back to the
// closest supported language.
func New(lang string) (*Printer, error) {
	if lang == "" {
		return English(), nil
	}
	parsed, err := language.Parse(lang)
	if err != nil {
		return nil, fmt.Errorf("language %q: %w", lang, err)
	}
	_, idx, conf := matcher.Match(parsed)
	tag := Supported[0]
	if conf != language.No {
		tag = Supported[idx]
	}
	return newPrinter(tag), nil
}

// English returns the fallback Printer.
func English() *Printer {
	return newPrinter(language.English)
}

func newPrinter(tag language.Tag) *Printer {
	return &Printer{tag: tag, p: message.NewPrinter(tag, message.Catalog(cat))}
}

// Tag is the language messages are printed in.
func (p *Printer) Tag() language.Tag { return p.tag }

// Sprintf formats the message stored under key.
func (p *Printer) Sprintf(key string, args ...any) string {
	return p.p.Sprintf(key, args...)
}

// FlagUsage returns the localized help text for a flag name, or "" when the
// flag has no entry in FlagHelp.
func (p *Printer) FlagUsage(name string) string {
	key, ok := FlagHelp[name]
	if !ok {
		return ""
	}
	return p.p.Sprintf(key)
}
