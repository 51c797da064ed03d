package analysis

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"go-disasterai/ingest"
)

var (
	fenceOpen  = regexp.MustCompile("^```(?:json)?\\s*")
	fenceClose = regexp.MustCompile("\\s*```$")
	jsonBlock  = regexp.MustCompile(`\{[\s\S]*\}`)
)

// ParseModelResponse decodes the model's JSON payload, tolerating the
// markdown fences some models wrap it in despite instructions. As a last
// resort it extracts the outermost brace-delimited block.
func ParseModelResponse(text string) (ingest.RawResult, error) {
	cleaned := strings.TrimSpace(text)
	if strings.HasPrefix(cleaned, "```") {
		cleaned = fenceOpen.ReplaceAllString(cleaned, "")
		cleaned = fenceClose.ReplaceAllString(cleaned, "")
	}

	var raw ingest.RawResult
	if err := json.Unmarshal([]byte(cleaned), &raw); err == nil {
		return raw, nil
	}

	if block := jsonBlock.FindString(cleaned); block != "" {
		if err := json.Unmarshal([]byte(block), &raw); err == nil {
			return raw, nil
		}
	}

	preview := cleaned
	if len(preview) > 500 {
		preview = preview[:500]
	}
	return ingest.RawResult{}, fmt.Errorf("response is not valid JSON: %s", preview)
}
