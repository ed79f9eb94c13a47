package checkout

import (
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
)

var (
	amountLabelMessage = &i18n.Message{
		ID:    "AmountLabel",
		Other: "Price: {{.Amount}}",
	}
	unexpectedErrorMessage = &i18n.Message{
		ID:    "UnexpectedError",
		Other: "An unexpected error occurred.",
	}
)

// Labels renders the texts the flows put on the page.
type Labels struct {
	localizer *i18n.Localizer
}

// NewLabels returns labels for locale. Unknown locales get English.
func NewLabels(locale string) *Labels {
	bundle := i18n.NewBundle(language.English)
	bundle.MustAddMessages(language.English, amountLabelMessage, unexpectedErrorMessage)
	bundle.MustAddMessages(language.Russian,
		&i18n.Message{ID: amountLabelMessage.ID, Other: "Цена: {{.Amount}}"},
		&i18n.Message{ID: unexpectedErrorMessage.ID, Other: "Произошла непредвиденная ошибка."},
	)

	return &Labels{localizer: i18n.NewLocalizer(bundle, locale)}
}

// Amount renders minor units as the localized price label, e.g. 2050 ->
// "Price: 20.50".
func (l *Labels) Amount(minorUnits int64) string {
	return l.localize(amountLabelMessage, map[string]string{
		"Amount": FormatAmount(minorUnits),
	})
}

func (l *Labels) UnexpectedError() string {
	return l.localize(unexpectedErrorMessage, nil)
}

func (l *Labels) localize(msg *i18n.Message, data map[string]string) string {
	out, err := l.localizer.Localize(&i18n.LocalizeConfig{
		DefaultMessage: msg,
		TemplateData:   data,
	})
	if err != nil {
		return msg.Other
	}
	return out
}

// FormatAmount divides minor units by 100 and keeps two decimals.
func FormatAmount(minorUnits int64) string {
	return decimal.New(minorUnits, -2).StringFixed(2)
}
