package scoring

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize folds case, accents and inner whitespace so option labels can be
// compared regardless of how they were typed into the option tables.
func Normalize(text string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, text)
	if err != nil {
		folded = text
	}
	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}

// ChasideYes scores a CHASIDE answer: "sí"/"si" is 1, anything else 0.
func ChasideYes(text string) float64 {
	if Normalize(text) == "si" {
		return 1
	}
	return 0
}

// IPP-R Likert phrases, already normalized.
const (
	IpprUnknown     = "no conozco la actividad o profesion"
	IpprDislike     = "no me gusta"
	IpprIndifferent = "me es indiferente o tengo dudas"
	IpprLike        = "me gusta"
)

var ipprLikert = map[string]float64{
	IpprUnknown:     0,
	IpprDislike:     1,
	IpprIndifferent: 2,
	IpprLike:        3,
}

// IpprLikert maps the four IPP-R phrases to 0..3. Unrecognized text is 0.
func IpprLikert(text string) float64 {
	return ipprLikert[Normalize(text)]
}

// MaciTrue reports whether a MACI answer reads "Verdadero".
func MaciTrue(text string) bool {
	return Normalize(text) == "verdadero"
}

// DatCorrect reports whether a DAT option is flagged as the right one.
func DatCorrect(tag string) bool {
	return Normalize(tag) == "correcta"
}
