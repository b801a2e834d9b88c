// utils/i18n.go
package utils

import (
	"golang.org/x/text/language"
)

var supportedLocales = language.NewMatcher([]language.Tag{
	language.BrazilianPortuguese, // default — the platform's primary locale
	language.English,
})

// error message catalogs keyed by taxonomy code
var messages = map[string]map[string]string{
	"pt-BR": {
		"NOT_FOUND":      "Recurso não encontrado",
		"CONFLICT":       "Operação já realizada",
		"INVALID_INPUT":  "Dados inválidos",
		"INTERNAL_ERROR": "Erro interno do servidor",
	},
	"en": {
		"NOT_FOUND":      "Resource not found",
		"CONFLICT":       "Operation already performed",
		"INVALID_INPUT":  "Invalid input",
		"INTERNAL_ERROR": "Internal server error",
	},
}

// LocalizedMessage resolves a human-readable message for an error code from
// the request's Accept-Language header, falling back to pt-BR.
func LocalizedMessage(acceptLanguage, code string) string {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	locale := "pt-BR"
	if err == nil && len(tags) > 0 {
		_, index, _ := supportedLocales.Match(tags...)
		if index == 1 {
			locale = "en"
		}
	}

	if msg, ok := messages[locale][code]; ok {
		return msg
	}
	return messages["pt-BR"]["INTERNAL_ERROR"]
}
