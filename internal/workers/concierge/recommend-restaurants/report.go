// internal/workers/concierge/recommend-restaurants/report.go
package recommendrestaurants

import (
	"fmt"
	"html"
	"strings"

	"github.com/sankirthk/Dining-Concierge/internal/models"
)

const (
	notAvailable  = "N/A"
	hoursMissing  = "Not provided"
	hoursAllDay   = "Open 24 hours"
	textSeparator = "----------------------------------------"
	mailFooter    = "Sent via Amazon SES"
)

// RenderedReport carries both bodies of the suggestion email.
type RenderedReport struct {
	Text string
	HTML string
}

// RenderReport builds the plain-text and HTML bodies for a set of records.
// Missing fields render as fallbacks rather than dropping the record, and an
// empty record set still produces a complete message.
func RenderReport(intro string, records []models.RestaurantRecord) RenderedReport {
	return RenderedReport{
		Text: renderText(intro, records),
		HTML: renderHTML(intro, records),
	}
}

func renderText(intro string, records []models.RestaurantRecord) string {
	var b strings.Builder
	b.WriteString(intro)
	b.WriteString("\n\n")

	if len(records) == 0 {
		b.WriteString("No matching restaurants were found.\n")
	}
	for _, rec := range records {
		fmt.Fprintf(&b, "Name: %s\n", displayName(rec))
		fmt.Fprintf(&b, "Address: %s\n", rec.ComposeAddress())
		fmt.Fprintf(&b, "Rating: %s\n", displayRating(rec))
		fmt.Fprintf(&b, "Hours: %s\n", displayHours(rec))
		b.WriteString(textSeparator)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(mailFooter)
	b.WriteString("\n")
	return b.String()
}

func renderHTML(intro string, records []models.RestaurantRecord) string {
	var b strings.Builder
	b.WriteString("<html><body style=\"font-family: Arial, sans-serif; color: #333;\">")
	fmt.Fprintf(&b, "<p>%s</p>", html.EscapeString(intro))

	if len(records) == 0 {
		b.WriteString("<p>No matching restaurants were found.</p>")
	} else {
		b.WriteString("<table style=\"border-collapse: collapse; width: 100%;\">")
		b.WriteString("<tr>")
		for _, col := range []string{"Name", "Address", "Rating", "Business Hours"} {
			fmt.Fprintf(&b, "<th style=\"border: 1px solid #ddd; padding: 8px; text-align: left; background-color: #f2f2f2;\">%s</th>", col)
		}
		b.WriteString("</tr>")

		for _, rec := range records {
			b.WriteString("<tr>")
			for _, cell := range []string{displayName(rec), rec.ComposeAddress(), displayRating(rec)} {
				fmt.Fprintf(&b, "<td style=\"border: 1px solid #ddd; padding: 8px;\">%s</td>", html.EscapeString(cell))
			}
			fmt.Fprintf(&b, "<td style=\"border: 1px solid #ddd; padding: 8px;\">%s</td>", displayHoursHTML(rec))
			b.WriteString("</tr>")
		}
		b.WriteString("</table>")
	}

	fmt.Fprintf(&b, "<p style=\"color: #888; font-size: 12px;\">%s</p>", mailFooter)
	b.WriteString("</body></html>")
	return b.String()
}

func displayName(rec models.RestaurantRecord) string {
	if s := rec.Name.String(); s != "" {
		return s
	}
	return notAvailable
}

func displayRating(rec models.RestaurantRecord) string {
	f, ok := rec.Rating.Float()
	if !ok {
		return notAvailable
	}
	return fmt.Sprintf("%.1f", f)
}

// hoursParts renders each parseable window as "HH:MM–HH:MM". Windows with
// equal endpoints render as open all day. Unparseable windows are dropped.
func hoursParts(rec models.RestaurantRecord) []string {
	var parts []string
	for _, raw := range rec.BusinessHours {
		w, err := models.ParseWindow(raw)
		if err != nil {
			continue
		}
		if w.AlwaysOpen() {
			parts = append(parts, hoursAllDay)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s–%s", models.FormatMinutes(w.Start), models.FormatMinutes(w.End)))
	}
	return parts
}

func displayHours(rec models.RestaurantRecord) string {
	parts := hoursParts(rec)
	if len(parts) == 0 {
		return hoursMissing
	}
	return strings.Join(parts, "\n")
}

func displayHoursHTML(rec models.RestaurantRecord) string {
	parts := hoursParts(rec)
	if len(parts) == 0 {
		return hoursMissing
	}
	escaped := make([]string, 0, len(parts))
	for _, p := range parts {
		escaped = append(escaped, html.EscapeString(p))
	}
	return strings.Join(escaped, "<br>")
}
