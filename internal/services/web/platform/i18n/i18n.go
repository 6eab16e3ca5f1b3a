// Package i18n resolves the request language and builds page localizers.
package i18n

import (
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// LangCookie overrides Accept-Language when set.
const LangCookie = "inkroom_lang"

var supported = []language.Tag{
	language.AmericanEnglish,
	language.BrazilianPortuguese,
}

var matcher = language.NewMatcher(supported)

// Localizer formats localized page copy.
type Localizer interface {
	Sprintf(key message.Reference, args ...any) string
}

// ResolveTag returns the effective language tag for a request. The cookie
// override wins over Accept-Language; unknown values match to en-US.
func ResolveTag(r *http.Request) language.Tag {
	if r == nil {
		return language.AmericanEnglish
	}
	var preferred []language.Tag
	if cookie, err := r.Cookie(LangCookie); err == nil && cookie != nil {
		if tag, parseErr := language.Parse(strings.TrimSpace(cookie.Value)); parseErr == nil {
			preferred = append(preferred, tag)
		}
	}
	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil {
			preferred = append(preferred, tags...)
		}
	}
	tag, _, _ := matcher.Match(preferred...)
	// Matcher may return a narrowed variant; pin to the supported base.
	base, _ := tag.Base()
	for _, candidate := range supported {
		if candidateBase, _ := candidate.Base(); candidateBase == base {
			return candidate
		}
	}
	return language.AmericanEnglish
}

// ResolveLocalizer returns the Localizer and BCP 47 language string for a
// request.
func ResolveLocalizer(r *http.Request) (Localizer, string) {
	tag := ResolveTag(r)
	return message.NewPrinter(tag), tag.String()
}

// Localize formats a key with a fallback when no translation is registered.
// An untranslated key renders as the key itself; detect that and substitute
// the provided copy.
func Localize(loc Localizer, key string, fallback string, args ...any) string {
	if loc == nil {
		loc = message.NewPrinter(language.AmericanEnglish)
	}
	value := loc.Sprintf(message.Reference(key), args...)
	if strings.TrimSpace(value) == "" || value == fmt.Sprintf(key, args...) {
		return loc.Sprintf(message.Reference(fallback), args...)
	}
	return value
}
