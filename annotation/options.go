package annotation

import (
	"errors"

	"github.com/Chendemo12/decorapi/metadata"
)

var (
	ErrUnknownController = errors.New("unknown controller")
	ErrUnknownHandler    = errors.New("unknown handler")
	ErrBadParamIndex     = errors.New("parameter index out of range")
)

// ControllerOption 控制器声明选项
type ControllerOption struct {
	Description string   `description:"说明"`
	Tags        []string `description:"路由标签, 作用于控制器的全部路由"`
}

// RouteOption 路由声明选项
type RouteOption struct {
	Summary     string                                  `description:"摘要描述"`
	Description string                                  `description:"说明"`
	Tags        []string                                `description:"路由标签, 位于控制器标签之后"`
	Security    []map[string][]string                   `description:"鉴权声明, 仅用于文档"`
	Responses   map[string]*metadata.ResponseDescriptor `description:"显式的响应文档, 键为状态码"`
	// Returns 文本形式的返回值类型, 例如 "Array<Pet>", 优先于方法签名推断
	Returns     string `description:"返回值类型"`
	OperationID string `description:"唯一ID"`
	Deprecated  bool   `description:"是否禁用"`
}

// BodyOption 请求体参数声明选项
type BodyOption struct {
	Description string `description:"说明"`
	Required    *bool  `description:"是否必须, 缺省为true"`
}

// ParamOption 查询参数/路径参数/请求头声明选项
type ParamOption struct {
	Description string `description:"说明"`
	Required    bool   `description:"是否必须, 路径参数始终为true"`
}

// Optional 构造 BodyOption.Required
func Optional() *bool {
	v := false
	return &v
}

func first[T any](opts []T) T {
	var zero T
	if len(opts) == 0 {
		return zero
	}
	return opts[0]
}
