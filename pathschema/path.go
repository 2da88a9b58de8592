package pathschema

import (
	"regexp"
	"strings"
)

var repeatedSeparator = regexp.MustCompile(`/{2,}`)

// Normalize 保证路由以唯一的 "/" 开头, 连续的 "/" 合并为一个
//
//	users		=> /users
//	//users//	=> /users/
//	""			=> /
func Normalize(p string) string {
	return Collapse(PathSeparator + strings.TrimSpace(p))
}

// Collapse 合并连续的 "/", 结果为空时返回 "/"
func Collapse(p string) string {
	p = repeatedSeparator.ReplaceAllString(p, PathSeparator)
	if p == "" {
		return PathSeparator
	}
	return p
}

// Compose 组合全局前缀、控制器路由和方法路由, 方法路由为 "/" 时不追加任何路径段.
// 结果总是以 "/" 开头, 控制器路由末尾的 "/" 被去除, 与 Prefix 的挂载路径一致.
//
//	Compose("", "/users", "/")			=> /users
//	Compose("/api/v1", "users", "/:id")	=> /api/v1/users/:id
//	Compose("api", "users/", "/")		=> /api/users
//	Compose("", "/", "/")				=> /
func Compose(base, prefix, relativePath string) string {
	if strings.TrimSpace(relativePath) == PathSeparator {
		relativePath = ""
	}
	return Collapse(PathSeparator + Prefix(base, prefix) + relativePath)
}

// Prefix 控制器的挂载路径: 全局前缀 + 控制器路由, 以 "/" 开头且不含末尾的 "/"; 根路由返回空字符串
func Prefix(base, prefix string) string {
	return strings.TrimSuffix(Collapse(PathSeparator+base+Normalize(prefix)), PathSeparator)
}

// Relative 方法路由在控制器路由组内的挂载路径, "/" 返回空字符串
func Relative(relativePath string) string {
	p := Normalize(relativePath)
	if p == PathSeparator {
		return ""
	}
	return p
}

// ToOpenApiPath 将路径参数的格式从 ":param" 转换为 "{param}", 可选参数 ":param?" 同样转换为 "{param}"
//
//	Input: "/api/rcst/:no"
//	Output: "/api/rcst/{no}"
func ToOpenApiPath(path string) string {
	paths := strings.Split(path, PathSeparator)
	for i := 0; i < len(paths); i++ {
		if strings.HasPrefix(paths[i], PathParamPrefix) {
			paths[i] = "{" + strings.TrimSuffix(paths[i][1:], OptionalQueryParamPrefix) + "}"
		}
	}

	return strings.Join(paths, PathSeparator)
}

// PathParams 提取路由中的路径参数名称, 支持 ":param", ":param?" 和 "{param}" 两种写法
func PathParams(path string) []string {
	names := make([]string, 0)
	for _, seg := range strings.Split(path, PathSeparator) {
		switch {
		case strings.HasPrefix(seg, PathParamPrefix) && len(seg) > 1:
			names = append(names, strings.TrimSuffix(seg[1:], OptionalQueryParamPrefix))
		case strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") && len(seg) > 2:
			names = append(names, seg[1:len(seg)-1])
		}
	}
	return names
}

// ToMuxPath 将 "{param}" 形式的路径参数转换为 ":param", 供 fiber/echo 注册路由
func ToMuxPath(path string) string {
	paths := strings.Split(path, PathSeparator)
	for i := 0; i < len(paths); i++ {
		seg := paths[i]
		if strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") && len(seg) > 2 {
			paths[i] = PathParamPrefix + seg[1:len(seg)-1]
		}
	}
	return strings.Join(paths, PathSeparator)
}
