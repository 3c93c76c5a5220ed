package service

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"sheetworks-back/internal/apperrors"
	"sheetworks-back/internal/model"
	"sheetworks-back/pkg/openai"
)

// emptyMarker is the literal token the model returns for blank or
// untranslatable items.
const emptyMarker = "[EMPTY]"

// numberedLine tolerantly matches "[N] text" lines; anything else in the
// model output is ignored.
var numberedLine = regexp.MustCompile(`^\s*\[(\d+)\]\s*(.*)$`)

const batchSystemPrompt = `You are a professional translator for spreadsheet data. CRITICAL RULES:
1. Each numbered item MUST be translated separately
2. Return translations in EXACT same format: [1] translation1\n[2] translation2\n...
3. If an item is empty or untranslatable, return [N] ` + emptyMarker + ` for that number
4. Maintain the exact count of items`

// TranslateBatch translates an ordered list of cell texts while
// preserving positional alignment: the output always has exactly one
// slot per input, in input order. Items the model omits come back as
// empty strings, never as dropped or shifted rows.
func (s *InterpreterService) TranslateBatch(ctx context.Context, texts []string, targetLanguage, sourceLanguage, modelID string) (*model.BatchTranslateResult, error) {
	if len(texts) == 0 || strings.TrimSpace(targetLanguage) == "" {
		return nil, apperrors.ErrInvalidRequest
	}

	numbered := make([]string, 0, len(texts))
	for i, text := range texts {
		numbered = append(numbered, fmt.Sprintf("[%d] %s", i+1, text))
	}

	target := normalizeLanguage(targetLanguage)

	var userPrompt string
	if sourceLanguage != "" {
		userPrompt = fmt.Sprintf("Translate these %d items from %s to %s:\n\n%s",
			len(texts), normalizeLanguage(sourceLanguage), target, strings.Join(numbered, "\n"))
	} else {
		userPrompt = fmt.Sprintf("Translate these %d items to %s:\n\n%s",
			len(texts), target, strings.Join(numbered, "\n"))
	}

	req := openai.ChatRequest{
		Model: modelID,
		Messages: []openai.Message{
			{Role: "system", Content: batchSystemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: s.cfg.Temperature,
		MaxTokens:   s.cfg.BatchTokens,
	}

	content, err := s.llm.ChatCompletion(ctx, req)
	if err != nil {
		return nil, mapUpstreamErr(err)
	}

	return &model.BatchTranslateResult{
		Operation:    "translate_batch_result",
		Translations: alignTranslations(content, len(texts)),
	}, nil
}

// alignTranslations maps numbered response lines back onto input
// positions. Numbers beyond count are ignored, duplicates keep the last
// occurrence, and missing numbers blank their slot.
func alignTranslations(content string, count int) []string {
	byNumber := make(map[int]string)

	for _, line := range strings.Split(strings.TrimSpace(content), "\n") {
		match := numberedLine.FindStringSubmatch(line)
		if match == nil {
			continue
		}

		num, err := strconv.Atoi(match[1])
		if err != nil || num < 1 || num > count {
			continue
		}

		translation := strings.TrimSpace(match[2])
		if translation == emptyMarker {
			translation = ""
		}

		byNumber[num] = translation
	}

	translations := make([]string, count)
	for i := 1; i <= count; i++ {
		translations[i-1] = byNumber[i]
	}

	return translations
}

// languageAliases maps the Korean-language names the add-in UI produces
// to canonical English names the model understands reliably.
var languageAliases = map[string]string{
	"한국어":    "Korean",
	"영어":     "English",
	"일본어":    "Japanese",
	"중국어":    "Chinese",
	"중국어 간체": "Simplified Chinese",
	"중국어 번체": "Traditional Chinese",
	"프랑스어":   "French",
	"독일어":    "German",
	"스페인어":   "Spanish",
	"이탈리아어":  "Italian",
	"러시아어":   "Russian",
	"포르투갈어":  "Portuguese",
	"베트남어":   "Vietnamese",
	"태국어":    "Thai",
	"인도네시아어": "Indonesian",
	"아랍어":    "Arabic",
	"힌디어":    "Hindi",
}

// normalizeLanguage canonicalizes known language names and BCP 47 tags;
// unrecognized names pass through verbatim.
func normalizeLanguage(name string) string {
	trimmed := strings.TrimSpace(name)

	if canonical, ok := languageAliases[trimmed]; ok {
		return canonical
	}

	if tag, err := language.Parse(trimmed); err == nil {
		if displayName := display.English.Languages().Name(tag); displayName != "" {
			return displayName
		}
	}

	return trimmed
}
