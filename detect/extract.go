package detect

import (
	"regexp"
	"strings"

	"github.com/carlospion/AvocadoLegal/api"
)

// Extraction patterns. Each field is searched independently; a miss
// leaves the field unset. These are heuristics over arbitrary page text,
// not validators.
var (
	// labeled name, e.g. "Nombre: Juan Pérez" or "Cliente: María García"
	nameRegexp = regexp.MustCompile(`(?:(?i:nombre|cliente|titular))\s*:?[ \t]+([A-ZÁÉÍÓÚÑ][a-záéíóúñ]+(?:[ \t][A-ZÁÉÍÓÚÑ][a-záéíóúñ]+)+)`)

	// cédula-style id number: 3-7-1 digit groups with optional hyphens
	cedulaRegexp = regexp.MustCompile(`\b\d{3}-?\d{7}-?\d\b`)

	// phone-like run of at least 7 digits allowing separators
	phoneRegexp = regexp.MustCompile(`(?:\+?\d[\d\-\s().]{6,}\d)`)

	emailRegexp = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
)

// Extract scrapes best-effort client data from the visible page text.
// It never fails: fields without a pattern match stay empty, and the
// caller must treat every populated field as possibly wrong.
func Extract(pageText string) *api.ClientData {
	data := &api.ClientData{}
	if pageText == "" {
		return data
	}

	if m := nameRegexp.FindStringSubmatch(pageText); m != nil {
		data.Name = strings.TrimSpace(m[1])
	}
	if m := cedulaRegexp.FindString(pageText); m != "" {
		data.Cedula = m
	}
	if m := emailRegexp.FindString(pageText); m != "" {
		data.Email = m
	}
	// a cédula also looks like a phone number; take the first candidate
	// that isn't the one already reported as a cédula
	for _, m := range phoneRegexp.FindAllString(pageText, -1) {
		if data.Cedula != "" && strings.Contains(m, data.Cedula) {
			continue
		}
		data.Phone = strings.TrimSpace(m)
		break
	}

	return data
}
