package annotation

import (
	"strings"
	"unicode"

	"github.com/Chendemo12/decorapi/metadata"
	"github.com/Chendemo12/decorapi/pathschema"
)

// HttpMethodMinimumLength 路由方法名的最小长度, 至少包含 HTTP 方法和一个字符
const HttpMethodMinimumLength = len("Get") + 1

// Scan 按方法名发现路由, 用于不逐个声明路由的控制器
//
// 方法名以 HTTP 方法开头或结尾时视为路由方法, 去除 HTTP 方法后的部分按 schema 格式化为相对路由:
//
//	GetClipboardContent()	=> GET	/clipboard-content
//	ClipSettingsPost()		=> POST	/clip-settings
//
// 已经声明过的方法会被跳过; schema 为nil时使用 pathschema.Default.
func (d *Declarer) Scan(schema pathschema.RoutePathSchema, opts ...RouteOption) *Declarer {
	if d.id == nil {
		return d
	}
	if schema == nil {
		schema = pathschema.Default()
	}

	declared := make(map[string]bool)
	for _, r := range d.reg.Routes(d.id) {
		declared[r.HandlerName] = true
	}

	for i := 0; i < d.id.NumMethod(); i++ {
		name := d.id.Method(i).Name
		if declared[name] {
			continue
		}
		method, relative, ok := IsRouteMethod(name)
		if !ok {
			continue
		}

		d.Route(method, pathschema.Format(pathschema.PathSeparator, relative, schema), name, opts...)
	}

	return d
}

// IsRouteMethod 从方法名中识别 HTTP 方法, 返回方法和去除 HTTP 方法后的相对路由
func IsRouteMethod(name string) (metadata.HTTPMethod, string, bool) {
	if len(name) < HttpMethodMinimumLength || unicode.IsLower([]rune(name)[0]) {
		return "", "", false
	}

	for _, hm := range metadata.Methods {
		offset := len(hm)
		if len(name) <= offset {
			continue
		}
		upper := hm.Upper()
		// 方法在前, 其后必须是一个新单词, 避免 "Getaway" 被识别为 GET
		if strings.ToUpper(name[:offset]) == upper && unicode.IsUpper(rune(name[offset])) {
			return hm, name[offset:], true
		}
		if strings.ToUpper(name[len(name)-offset:]) == upper && unicode.IsUpper(rune(name[len(name)-offset])) {
			return hm, name[:len(name)-offset], true
		}
	}

	return "", "", false
}
