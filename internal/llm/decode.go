package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var (
	fencedJSON    = regexp.MustCompile("(?s)```json\\s*(.*?)```")
	trailingComma = regexp.MustCompile(`,(\s*[}\]])`)
)

// ExtractJSON 从自由文本中取出最可能的 JSON 片段：
// 先找 ```json 代码块，找不到再取第一个 { 到最后一个 } 之间的内容，都没有则原样返回
func ExtractJSON(text string) string {
	if m := fencedJSON.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		return text[start : end+1]
	}
	return text
}

// RepairTrailingCommas 删除 } 或 ] 之前多余的逗号
func RepairTrailingCommas(s string) string {
	return trailingComma.ReplaceAllString(s, "$1")
}

// DecodeJSON 依次尝试：整体严格解析、提取片段后解析、去掉尾逗号后再解析。
// 全部失败时返回 *GenerationParseError。
func DecodeJSON(text string, v any) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return &GenerationParseError{Raw: text, Err: fmt.Errorf("empty response")}
	}

	firstErr := json.Unmarshal([]byte(trimmed), v)
	if firstErr == nil {
		return nil
	}

	candidate := ExtractJSON(trimmed)
	if candidate != trimmed {
		if err := json.Unmarshal([]byte(candidate), v); err == nil {
			return nil
		}
	}

	repaired := RepairTrailingCommas(candidate)
	if err := json.Unmarshal([]byte(repaired), v); err != nil {
		return &GenerationParseError{Raw: text, Err: firstErr}
	}
	return nil
}
