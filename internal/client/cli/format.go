package cli

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/cakeplanner/internal/client/models"
)

// stars renders an average rating as five stars plus the numbers.
func stars(r models.EventRating) string {
	if r.Count == 0 {
		return "not rated"
	}
	full := int(r.Average + 0.5)
	full = max(0, min(5, full))
	return fmt.Sprintf("%s%s %.1f (%d)", strings.Repeat("★", full), strings.Repeat("☆", 5-full), r.Average, r.Count)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
