package schema

import (
	"regexp"
	"strings"

	"github.com/Chendemo12/decorapi/utils"
)

// 文本类型推断
//
// 用于 RouteOption.Returns, 字段的 schema 标签以及元素为 interface 的泛型切片.
// 只识别基本类型名称, 已登记的类型名称和少量容器写法, 结果是近似的:
//
//	Array<Pet>, List<Pet>, []Pet, Pet[]	=> {type:array, items:Pet}
//	Promise<Pet>, *Pet					=> Pet
//	Map<string, Pet>, 未登记的名称			=> {type:object}

var (
	containerPattern = regexp.MustCompile(`^([A-Za-z_][\w.]*)\s*<\s*(.+?)\s*>$`)
	goGenericPattern = regexp.MustCompile(`\[([^\[\],]+)(?:,[^\]]*)?\]$`)
)

var arrayContainers = []string{"Array", "ReadonlyArray", "List", "Set", "Slice", "Iterable"}

var unwrapContainers = []string{"Promise", "Observable", "Optional", "Pointer", "Ptr"}

func (e *Engine) inferText(text string) *Node {
	text = strings.TrimSpace(text)
	if text == "" {
		return Object()
	}
	if fn, ok := primitiveNames[text]; ok {
		return fn()
	}

	switch {
	case strings.HasPrefix(text, "[]"):
		return ArrayOf(e.inferText(text[2:]))
	case strings.HasSuffix(text, "[]"):
		return ArrayOf(e.inferText(strings.TrimSuffix(text, "[]")))
	case strings.HasPrefix(text, "*"):
		n := e.inferText(text[1:]).Clone()
		n.Nullable = true
		return n
	}

	if m := containerPattern.FindStringSubmatch(text); m != nil {
		switch {
		case utils.Has(arrayContainers, m[1]):
			return ArrayOf(e.inferText(m[2]))
		case utils.Has(unwrapContainers, m[1]):
			return e.inferText(m[2])
		default:
			return Object()
		}
	}

	return e.inferName(text)
}

// inferName 按名称查找类型: 基本类型 > 登记的全名 > 登记的短名称
func (e *Engine) inferName(name string) *Node {
	name = strings.TrimSpace(name)
	if fn, ok := primitiveNames[name]; ok {
		return fn()
	}
	if rt, ok := e.names[name]; ok {
		return e.infer(rt)
	}
	if i := strings.LastIndex(name, "."); i >= 0 {
		if rt, ok := e.names[name[i+1:]]; ok {
			return e.infer(rt)
		}
	}

	return Object()
}

// genericElemName 从泛型类型名称中提取第一个类型参数, 例如 "Page[github.com/x/pkg.User]" => "github.com/x/pkg.User"
func genericElemName(typeName string) (string, bool) {
	m := goGenericPattern.FindStringSubmatch(typeName)
	if m == nil {
		return "", false
	}
	return m[1], true
}
