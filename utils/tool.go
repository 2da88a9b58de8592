package utils

import (
	"strings"

	jsoniter "github.com/json-iterator/go"
)

//goland:noinspection GoUnusedGlobalVariable
var ( // 替换json标准库，提供更好的性能
	// CompatibleJson 与标准库 100%兼容的配置, 序列化时对 map 的键排序
	CompatibleJson = jsoniter.ConfigCompatibleWithStandardLibrary
	// FasterJson 更快的配置，浮点数仅能保留6位小数, 且不能序列化HTML
	FasterJson = jsoniter.ConfigFastest
	// DefaultJson 默认配置
	DefaultJson       = CompatibleJson
	JsonMarshal       = DefaultJson.Marshal
	JsonUnmarshal     = DefaultJson.Unmarshal
	JsonMarshalIndent = DefaultJson.MarshalIndent
)

// SetJsonEngine 修改默认的JSON配置
func SetJsonEngine(api jsoniter.API) {
	DefaultJson = api
	JsonMarshal = api.Marshal
	JsonUnmarshal = api.Unmarshal
	JsonMarshalIndent = api.MarshalIndent
}

// CombineStrings 合并字符串, 实现等同于strings.Join()，只是少了判断分隔符
func CombineStrings(elems ...string) string {
	switch len(elems) {
	case 0:
		return ""
	case 1:
		return elems[0]
	}
	n := 0
	for i := 0; i < len(elems); i++ {
		n += len(elems[i])
	}

	var b strings.Builder
	b.Grow(n)
	for _, s := range elems {
		b.WriteString(s)
	}
	return b.String()
}

// Ternary 三元运算符
func Ternary[T any](cond bool, ifTrue, ifFalse T) T {
	if cond {
		return ifTrue
	}
	return ifFalse
}
