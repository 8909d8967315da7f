package services

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"alfredoptarigan/cv-tailor/internal/models"
)

const (
	// DefaultMatchScore is used whenever the reply carries no usable score.
	DefaultMatchScore = 75
	// MaxListItems caps lists recovered by ExtractListItems.
	MaxListItems = 10

	keyMatchScore      = "match_score"
	keyStrengths       = "strengths"
	keyImprovements    = "improvements"
	keyRecommendations = "recommendations"
	keySkillsGap       = "skills_gap"
	keyRawResponse     = "raw_response"
	keyRecoveryTier    = "recovery_tier"
)

// AnalysisResult holds the typed fields of an analysis plus the payload kept
// for audit. Lists are never nil.
type AnalysisResult struct {
	MatchScore      int                 `json:"match_score"`
	Strengths       []string            `json:"strengths"`
	Improvements    []string            `json:"improvements"`
	Recommendations []string            `json:"recommendations"`
	SkillsGap       []string            `json:"skills_gap"`
	Raw             map[string]any      `json:"analysis_data"`
	Tier            models.RecoveryTier `json:"recovery_tier"`
}

// DefaultAnalysis returns the degraded fallback record.
func DefaultAnalysis() AnalysisResult {
	return AnalysisResult{
		MatchScore:      DefaultMatchScore,
		Strengths:       []string{"Analysis completed"},
		Improvements:    []string{"Review manually"},
		Recommendations: []string{"Consider professional review"},
		SkillsGap:       []string{"Check requirements"},
		Tier:            models.TierDefault,
	}
}

// NormalizeAnalysis turns a model reply into an AnalysisResult. It never
// fails: a reply that is not valid JSON falls back to a line scan for the
// score, and a reply with nothing usable yields DefaultAnalysis.
func NormalizeAnalysis(reply string) AnalysisResult {
	if result, ok := parseStrict(reply); ok {
		return result
	}

	result := DefaultAnalysis()
	if score, ok := scanMatchScore(reply); ok {
		result.MatchScore = score
		result.Tier = models.TierHeuristic
	}
	result.Raw = fallbackPayload(result, reply)

	return result
}

func parseStrict(reply string) (AnalysisResult, bool) {
	payload, ok := decodeObject(extractJSON(reply))
	if !ok {
		return AnalysisResult{}, false
	}

	score, ok := coerceInt(payload[keyMatchScore])
	if !ok {
		return AnalysisResult{}, false
	}

	result := AnalysisResult{
		MatchScore: score,
		Raw:        payload,
		Tier:       models.TierParsed,
	}

	lists := []struct {
		key    string
		target *[]string
	}{
		{keyStrengths, &result.Strengths},
		{keyImprovements, &result.Improvements},
		{keyRecommendations, &result.Recommendations},
		{keySkillsGap, &result.SkillsGap},
	}
	for _, l := range lists {
		items, ok := coerceStringList(payload[l.key])
		if !ok {
			return AnalysisResult{}, false
		}
		*l.target = items
	}

	return result, true
}

func decodeObject(text string) (map[string]any, bool) {
	decoder := json.NewDecoder(strings.NewReader(text))
	decoder.UseNumber()

	var payload map[string]any
	if err := decoder.Decode(&payload); err != nil || payload == nil {
		return nil, false
	}
	// trailing garbage after the object means the reply was not one JSON value
	if decoder.More() {
		return nil, false
	}

	return payload, true
}

func coerceInt(v any) (int, bool) {
	switch val := v.(type) {
	case json.Number:
		if i, err := val.Int64(); err == nil {
			if i < math.MinInt || i > math.MaxInt {
				return 0, false
			}
			return int(i), true
		}
		f, err := val.Float64()
		if err != nil {
			return 0, false
		}
		return floatToInt(f)
	case float64:
		return floatToInt(val)
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}

// floatToInt accepts only integral values that fit in an int.
func floatToInt(f float64) (int, bool) {
	if f != math.Trunc(f) || f < math.MinInt || f >= math.MaxInt {
		return 0, false
	}
	return int(f), true
}

// coerceStringList accepts an absent or null value as an empty list.
func coerceStringList(v any) ([]string, bool) {
	if v == nil {
		return []string{}, true
	}

	raw, ok := v.([]any)
	if !ok {
		return nil, false
	}

	items := make([]string, 0, len(raw))
	for _, item := range raw {
		s, ok := item.(string)
		if !ok {
			return nil, false
		}
		items = append(items, s)
	}

	return items, true
}

// scanMatchScore looks at every line mentioning match_score and reads the
// integer after its last colon. The last successful line wins.
func scanMatchScore(reply string) (int, bool) {
	score, found := 0, false

	for _, line := range strings.Split(reply, "\n") {
		if !strings.Contains(strings.ToLower(line), keyMatchScore) {
			continue
		}
		if v, ok := trailingInteger(line); ok {
			score, found = v, true
		}
	}

	return score, found
}

func trailingInteger(line string) (int, bool) {
	idx := strings.LastIndex(line, ":")
	if idx == -1 {
		return 0, false
	}

	value := strings.TrimSpace(line[idx+1:])
	value = strings.TrimRight(value, ",;}")
	value = strings.Trim(value, `"'* `)

	i, err := strconv.Atoi(value)
	if err != nil {
		return 0, false
	}
	return i, true
}

func fallbackPayload(result AnalysisResult, reply string) map[string]any {
	return map[string]any{
		keyMatchScore:      result.MatchScore,
		keyStrengths:       result.Strengths,
		keyImprovements:    result.Improvements,
		keyRecommendations: result.Recommendations,
		keySkillsGap:       result.SkillsGap,
		keyRawResponse:     reply,
		keyRecoveryTier:    string(result.Tier),
	}
}

// ExtractListItems reads a list reply such as extracted skills or suggested
// keywords. A JSON array of strings is used as is; otherwise every non-empty
// line that is not a code fence becomes an item. At most MaxListItems are
// returned and the result is never nil.
func ExtractListItems(reply string) []string {
	if items, ok := decodeStringArray(reply); ok {
		return capItems(items)
	}

	items := []string{}
	for _, line := range strings.Split(reply, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "```") {
			continue
		}
		items = append(items, line)
	}

	return capItems(items)
}

func decodeStringArray(reply string) ([]string, bool) {
	text := stripCodeFences(reply)
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start == -1 || end <= start {
		return nil, false
	}

	var items []string
	decoder := json.NewDecoder(bytes.NewReader([]byte(text[start : end+1])))
	if err := decoder.Decode(&items); err != nil || items == nil {
		return nil, false
	}

	return items, true
}

func capItems(items []string) []string {
	if len(items) > MaxListItems {
		return items[:MaxListItems]
	}
	return items
}

func stripCodeFences(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	return text
}

// extractJSON tries to extract JSON from text that might contain markdown or other formatting
func extractJSON(text string) string {
	text = stripCodeFences(text)

	// Find JSON object or array boundaries
	startObj := strings.Index(text, "{")
	startArr := strings.Index(text, "[")
	endObj := strings.LastIndex(text, "}")
	endArr := strings.LastIndex(text, "]")

	if startObj != -1 && endObj != -1 && endObj > startObj {
		return text[startObj : endObj+1]
	} else if startArr != -1 && endArr != -1 && endArr > startArr {
		return text[startArr : endArr+1]
	}

	return strings.TrimSpace(text)
}
