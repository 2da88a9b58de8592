// Package pathschema 路由路径的格式化与组合
//
// 包含两部分: 由控制器方法名生成相对路由的格式化方案 RoutePathSchema,
// 以及前缀/控制器/方法路由的组合与规范化.
package pathschema

import (
	"regexp"
	"strings"
	"unicode"
)

const (
	PathParamPrefix          = ":" // 路径参数起始字符
	PathSeparator            = "/" // 路径分隔符
	OptionalQueryParamPrefix = "?" // 可选路径参数的结束字符
)

var rule = regexp.MustCompile(`[A-Z][a-z0-9]*`)

// Default 默认路由解析方法, 全小写-短横线
func Default() RoutePathSchema { return LowerCaseDash }

// LowerCaseDash 全小写-短横线
var LowerCaseDash = NewComposition(&LowerCase{}, &UnixDash{})

// LowerCaseBackslash 全小写段路由
var LowerCaseBackslash = NewComposition(&LowerCase{}, &Backslash{})

// RoutePathSchema 路由格式化方案
type RoutePathSchema interface {
	Name() string                       // 方案名称
	Connector() string                  // 分段之间的连接符
	Split(relativePath string) []string // 将去除 HTTP 方法后的方法名分段
}

// LowerCamelCase 小驼峰
//
//	GetClipboardContent()	=> /clipboardContent
type LowerCamelCase struct{}

func (s LowerCamelCase) Name() string { return "LowerCamelCase" }

func (s LowerCamelCase) Connector() string { return "" }

func (s LowerCamelCase) Split(relativePath string) []string {
	return []string{LowercaseFirstLetter(relativePath)}
}

// LowerCase 全小写字符
//
//	GetClipboardContent()	=> /clipboardcontent
type LowerCase struct{}

func (s LowerCase) Name() string { return "LowerCase" }

func (s LowerCase) Connector() string { return "" }

func (s LowerCase) Split(relativePath string) []string {
	spans := SplitWords(relativePath)
	for i := range spans {
		spans[i] = strings.ToLower(spans[i])
	}
	return spans
}

// UnixDash 短横线
//
//	GetClipboardContent()	=> /Clipboard-Content
type UnixDash struct{}

func (s UnixDash) Name() string { return "UnixDash" }

func (s UnixDash) Connector() string { return "-" }

func (s UnixDash) Split(relativePath string) []string { return SplitWords(relativePath) }

// Underline 下划线
//
//	GetClipboardContent()	=> /Clipboard_Content
type Underline struct{}

func (s Underline) Name() string { return "Underline" }

func (s Underline) Connector() string { return "_" }

func (s Underline) Split(relativePath string) []string { return SplitWords(relativePath) }

// Backslash 每一个单词都作为一个路由段
//
//	GetClipboardContent()	=> /Clipboard/Content
type Backslash struct{}

func (s Backslash) Name() string { return "Backslash" }

func (s Backslash) Connector() string { return PathSeparator }

func (s Backslash) Split(relativePath string) []string { return SplitWords(relativePath) }

// Original 保持方法名(不含HTTP方法名)不变
//
//	GetClipboardContent()	=> /ClipboardContent
type Original struct{}

func (s Original) Name() string { return "Original" }

func (s Original) Connector() string { return "" }

func (s Original) Split(relativePath string) []string { return []string{relativePath} }

// Composition 组合式方案, 第一个方案负责分段, 其余方案依次作用于每一个分段,
// 连接符为全部方案连接符的拼接. 方案为空时等同于 Original
type Composition struct {
	schemas []RoutePathSchema
	linker  string
}

func NewComposition(schemas ...RoutePathSchema) *Composition {
	links := make([]string, len(schemas))
	for i, s := range schemas {
		links[i] = s.Connector()
	}
	return &Composition{schemas: schemas, linker: strings.Join(links, "")}
}

func (s *Composition) Name() string { return "Composition" }

func (s *Composition) Connector() string { return s.linker }

func (s *Composition) Split(relativePath string) []string {
	if len(s.schemas) == 0 {
		return []string{relativePath}
	}

	spans := s.schemas[0].Split(relativePath)
	for i := range spans {
		for _, schema := range s.schemas[1:] {
			spans[i] = strings.Join(schema.Split(spans[i]), "")
		}
	}
	return spans
}

// Format 按照方案格式化相对路由并拼接到 prefix 之后
func Format(prefix string, relativePath string, schema RoutePathSchema) string {
	if len(relativePath) == 0 {
		return prefix
	}
	if !strings.HasSuffix(prefix, PathSeparator) {
		prefix += PathSeparator
	}

	return prefix + strings.Join(schema.Split(relativePath), schema.Connector())
}

// SplitWords 按首字母大写切分单词, 无法切分时返回只含 s 的数组
func SplitWords(s string) []string {
	spans := rule.FindAllString(s, -1)
	if spans == nil {
		spans = []string{s}
	}
	return spans
}

// LowercaseFirstLetter 将一个字符串的首字母转换为小写形式
func LowercaseFirstLetter(s string) string {
	if len(s) == 0 {
		return s
	}

	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}
