package scoring

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"aggregator-service/model"
)

var scorePatterns = map[string]*regexp.Regexp{
	"knowledge_density_score": scorePattern("knowledge_density_score"),
	"credibility_score":       scorePattern("credibility_score"),
	"distraction_score":       scorePattern("distraction_score"),
}

func scorePattern(name string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)` + name + `["']?\s*:\s*([0-9.]+)`)
}

// Extract interprets a raw oracle response. Well-formed JSON is taken as-is;
// otherwise each score field is scanned out of the free text and anything
// missing falls back to the mid-scale default, with the title standing in for
// the summary.
func Extract(raw, title string) model.Analysis {
	cleaned := cleanJSONResponse(raw)

	if strings.HasPrefix(cleaned, "{") {
		var a model.Analysis
		if err := json.Unmarshal([]byte(cleaned), &a); err == nil {
			return a
		}
	}

	a := model.DefaultAnalysis(title)
	if v, ok := extractScore(raw, "knowledge_density_score"); ok {
		a.KnowledgeDensityScore = v
	}
	if v, ok := extractScore(raw, "credibility_score"); ok {
		a.CredibilityScore = v
	}
	if v, ok := extractScore(raw, "distraction_score"); ok {
		a.DistractionScore = v
	}
	return a
}

// extractScore pulls a "name: number" value out of free text, case
// insensitively.
func extractScore(text, name string) (float64, bool) {
	match := scorePatterns[name].FindStringSubmatch(text)
	if match == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimRight(match[1], "."), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// cleanJSONResponse strips markdown fences and surrounding prose that models
// sometimes wrap around JSON.
func cleanJSONResponse(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		content = content[start : end+1]
	}
	return content
}

// Excerpt bounds the body text sent to the oracle, keeping the cost and
// latency of external scoring predictable.
func Excerpt(body string, max int) string {
	if len(body) <= max {
		return body
	}
	return body[:max]
}
