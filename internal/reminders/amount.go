package reminders

import "fmt"

// FormatEuros renders cents as a euro amount, e.g. 11250 as "€112.50"
func FormatEuros(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s€%d.%02d", sign, cents/100, cents%100)
}
