package llm

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Schema 对解码结果做形状校验的 JSON Schema，只约束类型，不要求字段必填
type Schema struct {
	Name       string
	Definition map[string]any
}

var schemaCache sync.Map // map[string]*jsonschema.Schema

// DecodeStructured 在 DecodeJSON 的基础上按 schema 校验，再写入 v
func DecodeStructured(text string, schema *Schema, v any) error {
	var parsed any
	if err := DecodeJSON(text, &parsed); err != nil {
		return err
	}

	if schema != nil {
		compiled, err := compileSchema(schema)
		if err != nil {
			return fmt.Errorf("compile schema %q: %w", schema.Name, err)
		}
		if err := compiled.Validate(parsed); err != nil {
			return &GenerationParseError{Raw: text, Err: fmt.Errorf("unexpected response shape: %w", err)}
		}
	}

	normalized, err := json.Marshal(parsed)
	if err != nil {
		return &GenerationParseError{Raw: text, Err: err}
	}
	if err := json.Unmarshal(normalized, v); err != nil {
		return &GenerationParseError{Raw: text, Err: err}
	}
	return nil
}

func compileSchema(schema *Schema) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(schema.Name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	// 编译器需要的是解析后的 JSON 值
	defBytes, err := json.Marshal(schema.Definition)
	if err != nil {
		return nil, err
	}
	var def any
	if err := json.Unmarshal(defBytes, &def); err != nil {
		return nil, err
	}

	c := jsonschema.NewCompiler()
	url := fmt.Sprintf("schema://%s.json", schema.Name)
	if err := c.AddResource(url, def); err != nil {
		return nil, err
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, err
	}

	schemaCache.Store(schema.Name, compiled)
	return compiled, nil
}
