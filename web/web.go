// Package web holds the page templates of the goods shop.
package web

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

var currencySymbols = map[string]string{
	"usd": "$",
	"rub": "₽",
}

// CurrencySymbol maps a currency code to its sign, or returns the code.
func CurrencySymbol(code string) string {
	if symbol, ok := currencySymbols[code]; ok {
		return symbol
	}
	return code
}

func Templates() (*template.Template, error) {
	return template.New("").
		Funcs(template.FuncMap{"currencySymbol": CurrencySymbol}).
		ParseFS(templateFS, "templates/*.html")
}
