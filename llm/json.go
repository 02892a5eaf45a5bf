package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

var (
	errMock  = errors.New("mock mode")
	errEmpty = errors.New("empty completion")
)

// ExtractJSON decodes the JSON object embedded in model output. Text around
// the outermost braces is ignored and malformed JSON is repaired before
// giving up.
func ExtractJSON(text string, out any) error {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return fmt.Errorf("no JSON object in model output")
	}
	candidate := text[start : end+1]

	if err := json.Unmarshal([]byte(candidate), out); err == nil {
		return nil
	}
	repaired, err := jsonrepair.JSONRepair(candidate)
	if err != nil {
		return fmt.Errorf("json repair failed: %w", err)
	}
	if err := json.Unmarshal([]byte(repaired), out); err != nil {
		return fmt.Errorf("unmarshal after repair: %w", err)
	}
	return nil
}
