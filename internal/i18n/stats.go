package i18n

// JourneyStats are the figures shown beside the book description.
type JourneyStats struct {
	Distance  string
	Countries int
	Journeys  int
}

var distances = map[Language]string{
	English: "15,000",
	Spanish: "24,000",
}

// Stats returns the journey figures localized for lang.
func Stats(lang Language) JourneyStats {
	d, ok := distances[lang]
	if !ok {
		d = distances[DefaultLanguage]
	}
	return JourneyStats{Distance: d, Countries: 7, Journeys: 1}
}
