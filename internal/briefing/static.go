package briefing

import "time"

// StaticCards returns the fixed, hand-authored fallback catalog: one card
// per category with plausible placeholder content. Pure and total; this is
// the terminal rung of the degradation ladder and must be reachable even
// when every other component failed.
func StaticCards(today time.Time) []BriefingCard {
	day := today.Format("Monday, January 2")
	return []BriefingCard{
		{
			Category:   CategoryCurrentEvents,
			Title:      "Daily Overview",
			Headline:   "Your briefing for " + day,
			Summary:    "Live news sources are temporarily unavailable. Check back shortly for the latest headlines.",
			Details:    []string{"News feeds refresh automatically", "No action needed"},
			Sentiment:  SentimentNeutral,
			Importance: ImportanceMedium,
			Source:     "briefer",
			RagContext: false,
		},
		{
			Category:   CategoryBusiness,
			Title:      "Markets",
			Headline:   "Market data unavailable",
			Summary:    "Market summaries could not be fetched right now. Major indices and earnings coverage will return with the next refresh.",
			Details:    []string{"Indices update on the next successful fetch"},
			Sentiment:  SentimentNeutral,
			Importance: ImportanceMedium,
			Source:     "briefer",
			RagContext: false,
		},
		{
			Category:   CategoryWeather,
			Title:      "Weather",
			Headline:   "Forecast unavailable",
			Summary:    "The local forecast could not be retrieved. Consult a weather service directly for current conditions.",
			Details:    []string{"Severe-weather alerts resume automatically"},
			Sentiment:  SentimentNeutral,
			Importance: ImportanceMedium,
			Source:     "briefer",
			RagContext: false,
		},
		{
			Category:   CategoryQuestion,
			Title:      "Did You Know",
			Headline:   "Briefings combine live news with your document archive",
			Summary:    "Cards marked with a context badge are grounded in documents from your own archive rather than the live news feed.",
			Sentiment:  SentimentPositive,
			Importance: ImportanceLow,
			Source:     "briefer",
			RagContext: false,
		},
		{
			Category:   CategoryPolicy,
			Title:      "Policy Watch",
			Headline:   "Policy coverage unavailable",
			Summary:    "Regulatory and policy updates could not be fetched. Coverage resumes with the next successful refresh.",
			Sentiment:  SentimentNeutral,
			Importance: ImportanceMedium,
			Source:     "briefer",
			RagContext: false,
		},
	}
}
