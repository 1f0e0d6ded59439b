package client

import (
	"os"
	"strings"
	"time"

	"golang.org/x/text/language"
)

const (
	// DefaultLocale is used when the host environment names no usable locale.
	DefaultLocale = "en-US"
	// DefaultTimezone is used when no IANA zone name can be found.
	DefaultTimezone = "UTC"
)

// Environment carries the caller's request-time context. It is read when a
// request is made and never stored by the service client.
type Environment struct {
	// Locale is a BCP 47 tag sent as Accepted-Language.
	Locale string
	// Timezone is an IANA zone name sent as X-Timezone.
	Timezone string
	// PageURL is the address of the page embedding the widget.
	PageURL string
}

// DefaultEnvironment derives an Environment from the process environment.
func DefaultEnvironment() Environment {
	return Environment{
		Locale:   DetectLocale(os.Getenv),
		Timezone: DetectTimezone(os.Getenv),
	}
}

// WithDefaults fills empty Locale and Timezone from DefaultEnvironment.
func (e Environment) WithDefaults() Environment {
	if e.Locale != "" && e.Timezone != "" {
		return e
	}
	def := DefaultEnvironment()
	if e.Locale == "" {
		e.Locale = def.Locale
	}
	if e.Timezone == "" {
		e.Timezone = def.Timezone
	}
	return e
}

// DetectLocale returns the locale named by LC_ALL, LC_MESSAGES or LANG.
func DetectLocale(getenv func(string) string) string {
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := getenv(key); v != "" {
			return NormalizeLocale(v)
		}
	}
	return DefaultLocale
}

// NormalizeLocale turns a POSIX locale such as pt_BR.UTF-8 into a BCP 47
// tag such as pt-BR.
func NormalizeLocale(s string) string {
	if i := strings.IndexAny(s, ".@"); i >= 0 {
		s = s[:i]
	}
	if s == "" || s == "C" || s == "POSIX" {
		return DefaultLocale
	}
	tag, err := language.Parse(s)
	if err != nil {
		return DefaultLocale
	}
	return tag.String()
}

// DetectTimezone returns the IANA zone from TZ, falling back to the
// system zone and then UTC.
func DetectTimezone(getenv func(string) string) string {
	if tz := strings.TrimPrefix(getenv("TZ"), ":"); tz != "" {
		if loc, err := time.LoadLocation(tz); err == nil && loc.String() != "Local" {
			return loc.String()
		}
	}
	if name := systemZoneName("/etc/localtime"); name != "" {
		return name
	}
	return DefaultTimezone
}

// systemZoneName reads the zone name from a zoneinfo symlink.
func systemZoneName(link string) string {
	target, err := os.Readlink(link)
	if err != nil {
		return ""
	}
	_, name, ok := strings.Cut(target, "zoneinfo/")
	if !ok || name == "" {
		return ""
	}
	if _, err := time.LoadLocation(name); err != nil {
		return ""
	}
	return name
}
