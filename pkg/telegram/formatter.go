package telegram

import (
	"fmt"
	"strings"

	"stock-insight-engine/internal/entity"
)

// FormatHighSeverityAlerts formats high-severity alerts into a single
// Markdown message for Telegram. Returns an empty string when there is
// nothing worth sending.
func FormatHighSeverityAlerts(alerts []entity.Alert) string {
	var high []entity.Alert
	for _, a := range alerts {
		if a.Severity == entity.SeverityHigh {
			high = append(high, a)
		}
	}
	if len(high) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("🚨 *High Severity Alerts* 🚨\n\n")
	for _, a := range high {
		var icon string
		switch a.Type {
		case entity.AlertTypePrice:
			icon = "💹"
		case entity.AlertTypeSentiment:
			icon = "📰"
		case entity.AlertTypePrediction:
			icon = "🔮"
		default:
			icon = "🔔"
		}
		b.WriteString(fmt.Sprintf("%s *%s*: %s\n%s\n\n", icon, a.Symbol, a.Title, a.Message))
	}
	return strings.TrimRight(b.String(), "\n")
}
