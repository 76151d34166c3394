// Package i18n renders client-facing messages in the caller's language.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Message keys double as the English text.
const (
	EventInactive         = "Event inactive."
	CheckedIn             = "%s successfully checked-in."
	AlreadyCheckedIn      = "%s already checked-in."
	CheckedOut            = "%s successfully checked-out."
	AlreadyCheckedOut     = "%s already checked-out."
	NotCheckedIn          = "%s did not check in."
	AttendeeNotRegistered = "Attendee previously not registered."
	CheckInsNotFound      = "Check-ins not found."
	InvalidData           = "Invalid data."
	Registered            = "%s successfully registered."
	AlreadyRegistered     = "%s already registered."
	RegistrationClosed    = "Registration closed."
	NotFound              = "Not found."
	Unauthorized          = "Authentication required."
	Forbidden             = "Permission denied."
	InternalError         = "Internal error."
)

var supported = []language.Tag{
	language.English,
	language.BrazilianPortuguese,
}

var matcher = language.NewMatcher(supported)

var portuguese = map[string]string{
	EventInactive:         "Evento inativo.",
	CheckedIn:             "Check-in de %s realizado com sucesso.",
	AlreadyCheckedIn:      "%s já fez check-in.",
	CheckedOut:            "Check-out de %s realizado com sucesso.",
	AlreadyCheckedOut:     "%s já fez check-out.",
	NotCheckedIn:          "%s não fez check-in.",
	AttendeeNotRegistered: "Participante não inscrito previamente.",
	CheckInsNotFound:      "Check-ins não encontrados.",
	InvalidData:           "Dados inválidos.",
	Registered:            "Inscrição de %s realizada com sucesso.",
	AlreadyRegistered:     "%s já está inscrito.",
	RegistrationClosed:    "Inscrições encerradas.",
	NotFound:              "Não encontrado.",
	Unauthorized:          "Autenticação necessária.",
	Forbidden:             "Permissão negada.",
	InternalError:         "Erro interno.",
}

func init() {
	for key, text := range portuguese {
		message.SetString(language.English, key, key)
		message.SetString(language.BrazilianPortuguese, key, text)
	}
}

// Printer picks the best supported language for an Accept-Language header.
func Printer(acceptLanguage string) *message.Printer {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return message.NewPrinter(language.English)
	}
	_, index, _ := matcher.Match(tags...)
	return message.NewPrinter(supported[index])
}
