package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// removeDiacritics descompone (NFD), elimina las marcas combinantes y recompone (NFC).
var removeDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// SearchKey normaliza un texto para búsqueda: minúsculas, sin tildes y sin
// espacios en los extremos ("Válvula de 1/2\"" -> "valvula de 1/2\"").
// Si la transformación falla devuelve el texto en minúsculas, nunca vacío.
func SearchKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	out, _, err := transform.String(removeDiacritics, s)
	if err != nil {
		return s
	}
	return out
}
