package mqtt

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonAlnum = regexp.MustCompile("[^a-z0-9]+")

// Slugify lowercases s, strips accents and joins the remaining alphanumeric
// runs with hyphens.
func Slugify(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	s, _, err := transform.String(t, strings.ToLower(s))
	if err != nil {
		s = strings.ToLower(s)
	}
	return strings.Trim(nonAlnum.ReplaceAllString(s, "-"), "-")
}

// Names maps entity numbers to the slugs used in topics.
type Names struct {
	Areas   map[int]string
	Zones   map[int]string
	Outputs map[int]string
}

func (n Names) Area(number int) string   { return slugOr(n.Areas, number, "area") }
func (n Names) Zone(number int) string   { return slugOr(n.Zones, number, "zone") }
func (n Names) Output(number int) string { return slugOr(n.Outputs, number, "output") }

func slugOr(names map[int]string, number int, kind string) string {
	if slug := Slugify(names[number]); slug != "" {
		return slug
	}
	return fmt.Sprintf("%s-%d", kind, number)
}

func nameOr(names map[int]string, number int, kind string) string {
	if name := strings.TrimSpace(names[number]); name != "" {
		return name
	}
	return fmt.Sprintf("%s %d", kind, number)
}
