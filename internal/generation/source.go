package generation

import (
	"encoding/json"
	"strconv"
	"strings"

	"openlearner_backend/internal/llm"
)

// ProviderSource 生成器每次调用时取当前提供方，llm.Registry 实现了该接口
type ProviderSource interface {
	Provider() llm.Provider
}

type staticSource struct {
	p llm.Provider
}

func (s staticSource) Provider() llm.Provider { return s.p }

// Static 固定使用某个提供方
func Static(p llm.Provider) ProviderSource {
	return staticSource{p: p}
}

// FlexInt 兼容模型把数字写成字符串的情况
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		v, err := n.Float64()
		if err != nil {
			return err
		}
		*f = FlexInt(int(v))
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		*f = 0
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*f = FlexInt(v)
	return nil
}
