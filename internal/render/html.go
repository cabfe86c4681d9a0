package render

import (
	"html/template"
	"strings"

	"github.com/mmynk/receipts/internal/models"
)

var page = template.Must(template.New("receipt").Parse(`<html>
<head>
<style>
body { font-family: monospace; white-space: pre; }
.receipt { width: {{.Width}}ch; margin: 0 auto; text-align: left; border: 1px solid #ccc; padding: 5px; box-shadow: 2px 2px 5px rgba(0, 0, 0, 0.1); }
</style>
</head>
<body>
<div class="receipt">
{{- range .Lines}}
<div>{{.}}</div>
{{- end}}
</div>
</body>
</html>
`))

// HTML renders the receipt as a printable page. User-supplied text is escaped.
func HTML(receipt *models.Receipt, width int) (string, error) {
	data := struct {
		Width int
		Lines []string
	}{
		Width: ClampWidth(width),
		Lines: Lines(receipt, width),
	}

	var b strings.Builder
	if err := page.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}
