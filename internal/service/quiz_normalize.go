package service

import (
	"sort"
	"strings"

	"github.com/spf13/cast"

	"github.com/brainink-app/afterschool-go/internal/models"
	"github.com/brainink-app/afterschool-go/internal/utils"
)

// NormalizeQuestions coerces an arbitrary backend quiz payload into exactly
// five well-formed questions with four options each. Short payloads are
// padded with stubs, long ones truncated, and a failure while normalizing one
// question yields a stub for that slot instead of aborting the response.
func NormalizeQuestions(raw []interface{}) []models.QuizQuestion {
	questions := make([]models.QuizQuestion, 0, models.QuizQuestionCount)
	for _, item := range raw {
		if len(questions) == models.QuizQuestionCount {
			break
		}
		questions = append(questions, safeNormalizeQuestion(item))
	}
	for len(questions) < models.QuizQuestionCount {
		questions = append(questions, models.StubQuestion())
	}
	return questions
}

// extractQuestions digs the question list out of the shapes the backend has
// been observed to return: a top-level "questions" array, or a "quiz" value
// that is either the array itself or an object wrapping one.
func extractQuestions(payload map[string]interface{}) []interface{} {
	if items, ok := payload["questions"].([]interface{}); ok {
		return items
	}

	switch quiz := payload["quiz"].(type) {
	case []interface{}:
		return quiz
	case map[string]interface{}:
		if items, ok := quiz["questions"].([]interface{}); ok {
			return items
		}
	}

	return nil
}

func safeNormalizeQuestion(raw interface{}) (question models.QuizQuestion) {
	defer func() {
		if r := recover(); r != nil {
			question = models.StubQuestion()
		}
	}()
	return normalizeQuestion(raw)
}

func normalizeQuestion(raw interface{}) models.QuizQuestion {
	item, ok := raw.(map[string]interface{})
	if !ok {
		return models.StubQuestion()
	}

	text := cast.ToString(item["question"])
	if text == "" {
		text = cast.ToString(item["text"])
	}

	options := normalizeOptions(item["options"])

	return models.QuizQuestion{
		Question:     utils.SanitizeText(text),
		Options:      options,
		CorrectIndex: normalizeCorrectIndex(item),
		Explanation:  utils.SanitizeText(cast.ToString(item["explanation"])),
	}
}

// normalizeOptions accepts the three observed option shapes (array, delimited
// string, key-value object) and always returns exactly four strings.
func normalizeOptions(value interface{}) []string {
	var options []string

	switch v := value.(type) {
	case []interface{}:
		for _, option := range v {
			options = append(options, cast.ToString(option))
		}
	case string:
		options = splitDelimited(v)
	case map[string]interface{}:
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			options = append(options, cast.ToString(v[key]))
		}
	}

	for i := range options {
		options[i] = utils.SanitizeText(options[i])
	}
	for len(options) < models.QuizOptionCount {
		options = append(options, "")
	}
	return options[:models.QuizOptionCount]
}

func splitDelimited(value string) []string {
	parts := strings.Split(value, "\n")
	if len(parts) < 2 {
		parts = strings.Split(value, ";")
	}

	options := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			options = append(options, trimmed)
		}
	}
	return options
}

// normalizeCorrectIndex prefers an explicit correct_index, falls back to a
// letter-based correct_answer, and clamps the result into [0,3].
func normalizeCorrectIndex(item map[string]interface{}) int {
	index := 0
	if value, ok := item["correct_index"]; ok {
		index = cast.ToInt(value)
	} else if letter := strings.ToUpper(strings.TrimSpace(cast.ToString(item["correct_answer"]))); letter != "" {
		switch letter[0] {
		case 'A', 'B', 'C', 'D':
			index = int(letter[0] - 'A')
		default:
			index = 0
		}
	}

	if index < 0 {
		index = 0
	}
	if index >= models.QuizOptionCount {
		index = models.QuizOptionCount - 1
	}
	return index
}
