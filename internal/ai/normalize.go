package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/spigell/resume-analyzer/internal/failure"
)

const (
	opNormalize = "normalize ai response"

	defaultCategory = "General"
	// MaxSynthesizedSuggestions bounds suggestions built from critical_improvements.
	MaxSynthesizedSuggestions = 3
)

var errMissingScore = errors.New("missing overall_score")

var genericSuggestions = []Suggestion{
	{Category: "Clarify summary", Priority: PriorityMedium, Suggestion: "Write a concise, metrics-driven summary."},
	{Category: "Highlight relevant skills", Priority: PriorityMedium, Suggestion: "Move key skills to a dedicated section."},
	{Category: "Quantify achievements", Priority: PriorityMedium, Suggestion: "Add metrics to experience bullets."},
}

var (
	analysisLists = []string{
		"strengths", "weaknesses", "missing_skills", "ats_issues",
		"keyword_recommendations", "action_items",
	}
	breakdownKeys = []string{
		"content_quality", "ats_optimization", "skills_relevance",
		"experience_presentation", "formatting",
	}
	rubricKeys = []string{
		"overall_structure", "skill_relevance", "readability", "ats_compatibility", "total",
	}
	planNested = map[string][]string{
		"skills_recommendations": {"trending_skills", "missing_keywords", "skills_to_highlight"},
		"content_improvements":   {"experience", "format", "summary"},
		"industry_insights":      {"current_trends", "recruiter_preferences", "common_mistakes"},
	}
)

// NormalizeAnalysis parses a collaborator response into an Analysis. A
// response without an overall score is rejected.
func NormalizeAnalysis(raw string) (*Analysis, error) {
	data, err := parseObject(raw)
	if err != nil {
		return nil, err
	}
	if err := Normalize(data, nil); err != nil {
		return nil, failure.NewAIResponseParse(opNormalize, raw, err)
	}

	overall, _ := data["overall_score"].(int)
	breakdown, _ := data["score_breakdown"].(map[string]any)
	normalized := make(map[string]any, len(breakdownKeys))
	for _, key := range breakdownKeys {
		score, ok := coerceScore(breakdown[key])
		if !ok {
			score = overall
		}
		normalized[key] = score
	}
	data["score_breakdown"] = normalized
	normalizeLists(data, analysisLists...)
	dropKeys(data, "source", "model", "method", "note", "ai_error")

	var analysis Analysis
	if err := decode(data, &analysis); err != nil {
		return nil, failure.NewAIResponseParse(opNormalize, raw, err)
	}
	analysis.Source = SourceAI
	analysis.ensureLists()

	return &analysis, nil
}

// NormalizeImprovement parses a collaborator response into an ImprovementPlan.
// currentScore stands in for a missing overall score.
func NormalizeImprovement(raw string, currentScore int) (*ImprovementPlan, error) {
	data, err := parseObject(raw)
	if err != nil {
		return nil, err
	}
	if err := Normalize(data, &currentScore); err != nil {
		return nil, failure.NewAIResponseParse(opNormalize, raw, err)
	}

	if scores, ok := data["scores"].(map[string]any); ok {
		for _, key := range rubricKeys {
			score, _ := coerceScore(scores[key])
			scores[key] = score
		}
	} else {
		delete(data, "scores")
	}

	normalizeLists(data, "ats_optimization_tips")
	for key, lists := range planNested {
		nested, ok := data[key].(map[string]any)
		if !ok {
			if key == "industry_insights" {
				delete(data, key)
				continue
			}
			nested = map[string]any{}
		}
		normalizeLists(nested, lists...)
		data[key] = nested
	}
	data["critical_improvements"] = normalizeCritical(data["critical_improvements"])
	data["next_steps"] = normalizeSteps(data["next_steps"])
	dropKeys(data, "source", "model", "ai_error")

	var plan ImprovementPlan
	if err := decode(data, &plan); err != nil {
		return nil, failure.NewAIResponseParse(opNormalize, raw, err)
	}
	plan.Source = SourceAI
	plan.ensureLists()

	return &plan, nil
}

// Normalize applies the shared defaults to a decoded collaborator object in
// place: canonical overall score, improvement potential and suggestions.
// currentScore, when not nil, replaces a missing overall score.
func Normalize(data map[string]any, currentScore *int) error {
	if scores, ok := data["scores"].(map[string]any); ok {
		if total, ok := coerceScore(scores["total"]); ok {
			data["overall_score"] = total
		}
	}

	overall, ok := coerceScore(data["overall_score"])
	if !ok {
		if currentScore == nil {
			if _, present := data["overall_score"]; present {
				return fmt.Errorf("overall_score is not a number: %v", data["overall_score"])
			}
			return errMissingScore
		}
		overall = clamp(*currentScore, 0, 100)
	}
	data["overall_score"] = overall

	potential, ok := coerceScore(data["improvement_potential"])
	if !ok {
		potential = clamp(100-overall, 5, 25)
	}
	data["improvement_potential"] = potential

	data["suggestions"] = normalizeSuggestions(data)

	return nil
}

func parseObject(raw string) (map[string]any, error) {
	cleaned := StripCodeFence(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, failure.NewAIResponseParse(opNormalize, raw, err)
	}
	if data == nil {
		return nil, failure.NewAIResponseParse(opNormalize, raw, errors.New("response is not a JSON object"))
	}
	return data, nil
}

func normalizeSuggestions(data map[string]any) []any {
	list, ok := data["suggestions"].([]any)
	if !ok {
		return synthesizeSuggestions(data["critical_improvements"])
	}

	out := make([]any, 0, len(list))
	for _, item := range list {
		if s, ok := suggestionFrom(item); ok {
			out = append(out, s)
		}
	}
	return out
}

func synthesizeSuggestions(critical any) []any {
	items, _ := critical.([]any)
	out := make([]any, 0, MaxSynthesizedSuggestions)
	for _, item := range items {
		if len(out) == MaxSynthesizedSuggestions {
			break
		}
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		category := coerceString(entry["title"])
		if category == "" {
			category = "Improve resume"
		}
		text := coerceString(entry["description"])
		if text == "" {
			text = "Refine content for ATS and clarity"
		}
		out = append(out, map[string]any{
			"category":   category,
			"priority":   normalizePriority(entry["priority"]),
			"suggestion": text,
			"reason":     coerceString(entry["impact"]),
		})
	}
	if len(out) > 0 {
		return out
	}

	for _, s := range genericSuggestions {
		out = append(out, suggestionMap(s))
	}
	return out
}

func suggestionFrom(item any) (map[string]any, bool) {
	switch v := item.(type) {
	case string:
		text := strings.TrimSpace(v)
		if text == "" {
			return nil, false
		}
		return suggestionMap(Suggestion{Category: defaultCategory, Priority: PriorityMedium, Suggestion: text}), true
	case map[string]any:
		text := firstString(v, "suggestion", "description", "title")
		if text == "" {
			return nil, false
		}
		category := firstString(v, "category", "title")
		if category == "" || category == text {
			category = defaultCategory
		}
		return suggestionMap(Suggestion{
			Category:   category,
			Priority:   normalizePriority(v["priority"]),
			Suggestion: text,
			Reason:     firstString(v, "reason", "impact"),
		}), true
	default:
		return nil, false
	}
}

func suggestionMap(s Suggestion) map[string]any {
	return map[string]any{
		"category":   s.Category,
		"priority":   s.Priority,
		"suggestion": s.Suggestion,
		"reason":     s.Reason,
	}
}

func normalizePriority(v any) string {
	priority := strings.ToLower(coerceString(v))
	if validPriorities[priority] {
		return priority
	}
	return PriorityMedium
}

func normalizeCritical(v any) []any {
	items, _ := v.([]any)
	out := make([]any, 0, len(items))
	for _, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		title := coerceString(entry["title"])
		description := coerceString(entry["description"])
		if title == "" && description == "" {
			continue
		}
		examples := map[string]any{"examples": entry["examples"]}
		normalizeLists(examples, "examples")
		out = append(out, map[string]any{
			"title":       title,
			"description": description,
			"priority":    normalizePriority(entry["priority"]),
			"impact":      coerceString(entry["impact"]),
			"examples":    examples["examples"],
		})
	}
	return out
}

func normalizeSteps(v any) []any {
	items, _ := v.([]any)
	out := make([]any, 0, len(items))
	for _, item := range items {
		step := len(out) + 1
		switch entry := item.(type) {
		case string:
			if action := strings.TrimSpace(entry); action != "" {
				out = append(out, map[string]any{"step": step, "action": action, "time": ""})
			}
		case map[string]any:
			action := coerceString(entry["action"])
			if action == "" {
				continue
			}
			if n, ok := coerceScore(entry["step"]); ok && n > 0 {
				step = n
			}
			out = append(out, map[string]any{"step": step, "action": action, "time": coerceString(entry["time"])})
		}
	}
	return out
}

// normalizeLists replaces each key with a list of non-empty strings.
func normalizeLists(data map[string]any, keys ...string) {
	for _, key := range keys {
		items, _ := data[key].([]any)
		out := make([]any, 0, len(items))
		for _, item := range items {
			if s := coerceString(item); s != "" {
				out = append(out, s)
			}
		}
		data[key] = out
	}
}

// dropKeys removes fields that are set by the pipeline rather than the collaborator.
func dropKeys(data map[string]any, keys ...string) {
	for _, key := range keys {
		delete(data, key)
	}
}

func firstString(m map[string]any, keys ...string) string {
	for _, key := range keys {
		if s := coerceString(m[key]); s != "" {
			return s
		}
	}
	return ""
}

func decode(input map[string]any, target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           target,
	})
	if err != nil {
		return fmt.Errorf("create decoder: %w", err)
	}
	if err := decoder.Decode(input); err != nil {
		return fmt.Errorf("decode normalized response: %w", err)
	}
	return nil
}
