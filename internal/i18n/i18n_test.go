package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrinter(t *testing.T) {
	cases := []struct {
		header string
		want   string
	}{
		{"", "Ana successfully checked-in."},
		{"en-US,en;q=0.9", "Ana successfully checked-in."},
		{"pt-BR,pt;q=0.9", "Check-in de Ana realizado com sucesso."},
		{"pt", "Check-in de Ana realizado com sucesso."},
		{"de-DE", "Ana successfully checked-in."},
		{"not a language;;", "Ana successfully checked-in."},
	}
	for _, tc := range cases {
		t.Run(tc.header, func(t *testing.T) {
			assert.Equal(t, tc.want, Printer(tc.header).Sprintf(CheckedIn, "Ana"))
		})
	}
}

func TestEveryKeyIsTranslated(t *testing.T) {
	p := Printer("pt-BR")
	for key := range portuguese {
		assert.NotEqual(t, key, p.Sprintf(key, "Ana"), key)
	}
}
