// internal/service/template_service.go
package service

import (
    "strings"
)

// RenderTemplate substitutes {{key}} placeholders in a message template.
func RenderTemplate(template string, data map[string]string) string {
    result := template
    for k, v := range data {
        result = strings.ReplaceAll(result, "{{"+k+"}}", v)
    }
    return result
}

// RenderForRecipient renders a template for one recipient. Templates written
// in the dashboard use {{nome}}; {{name}} is accepted as well.
func RenderForRecipient(template, recipientName string) string {
    return RenderTemplate(template, map[string]string{
        "name": recipientName,
        "nome": recipientName,
    })
}
