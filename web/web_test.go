package web

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrencySymbol(t *testing.T) {
	assert.Equal(t, "$", CurrencySymbol("usd"))
	assert.Equal(t, "₽", CurrencySymbol("rub"))
	assert.Equal(t, "eur", CurrencySymbol("eur"))
}

func TestTemplatesParse(t *testing.T) {
	tmpl, err := Templates()
	require.NoError(t, err)

	for _, name := range []string{"item.html", "complete.html", "success.html", "cancel.html"} {
		assert.NotNil(t, tmpl.Lookup(name), name)
	}

	var buf bytes.Buffer
	require.NoError(t, tmpl.ExecuteTemplate(&buf, "success.html", map[string]string{"Title": "Thanks"}))
	assert.Contains(t, buf.String(), "<h2>Thanks</h2>")
}
