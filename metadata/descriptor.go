// Package metadata 控制器与路由的元数据仓库
package metadata

import (
	"net/http"
	"strings"

	"github.com/Chendemo12/decorapi/schema"
)

// HTTPMethod 路由方法, 取值为小写形式, 与 OpenAPI 文档中的键一致
type HTTPMethod string

const (
	MethodGet     HTTPMethod = "get"
	MethodPost    HTTPMethod = "post"
	MethodPut     HTTPMethod = "put"
	MethodDelete  HTTPMethod = "delete"
	MethodPatch   HTTPMethod = "patch"
	MethodOptions HTTPMethod = "options"
	MethodHead    HTTPMethod = "head"
)

// Methods 全部支持的路由方法
var Methods = []HTTPMethod{MethodGet, MethodPost, MethodPut, MethodDelete, MethodPatch, MethodOptions, MethodHead}

// Upper 转换为 http.MethodGet 等形式
func (m HTTPMethod) Upper() string { return strings.ToUpper(string(m)) }

// HasBody 是否默认携带请求体
func (m HTTPMethod) HasBody() bool {
	return m == MethodPost || m == MethodPut || m == MethodPatch
}

// SuccessStatus 默认的成功状态码, POST 为201, 其余为200
func (m HTTPMethod) SuccessStatus() int {
	if m == MethodPost {
		return http.StatusCreated
	}
	return http.StatusOK
}

// ParseMethod 解析路由方法, 忽略大小写
func ParseMethod(s string) (HTTPMethod, bool) {
	m := HTTPMethod(strings.ToLower(s))
	for _, v := range Methods {
		if v == m {
			return m, true
		}
	}
	return "", false
}

// ParamLocation 参数位置
type ParamLocation string

const (
	InQuery  ParamLocation = "query"
	InPath   ParamLocation = "path"
	InBody   ParamLocation = "body"
	InHeader ParamLocation = "header"
)

// NotBound 仅用于文档的参数, 不会传递给路由方法
const NotBound = -1

// ControllerDescriptor 控制器描述, 每个控制器类型一个
type ControllerDescriptor struct {
	Name        string   `json:"name" description:"控制器类型名称"`
	Path        string   `json:"path" description:"基础路由, 始终以/开头"`
	Description string   `json:"description,omitempty" description:"说明"`
	Tags        []string `json:"tags" description:"路由标签"`
}

// ParameterDescriptor 路由参数描述
type ParameterDescriptor struct {
	Name        string        `json:"name" description:"名称"`
	In          ParamLocation `json:"in" description:"参数位置"`
	Required    bool          `json:"required" description:"是否必须"`
	Type        string        `json:"type" description:"数据类型"`
	Description string        `json:"description,omitempty" description:"说明"`
	Schema      *schema.Node  `json:"schema,omitempty" description:"模型文档"`
	// Index 对应路由方法的参数位置(不含接收者), NotBound 表示不绑定
	Index int `json:"-"`
}

// MediaType 响应体的媒体类型
type MediaType struct {
	Schema *schema.Node `json:"schema"`
}

// ResponseDescriptor 路由返回体
type ResponseDescriptor struct {
	Description string                `json:"description"`
	Content     map[string]*MediaType `json:"content,omitempty"`
}

// RouteDescriptor 路由描述, 按声明顺序追加到所属控制器
type RouteDescriptor struct {
	Method      HTTPMethod                     `json:"method" description:"路由方法"`
	Path        string                         `json:"path" description:"相对路由, 始终以/开头"`
	HandlerName string                         `json:"handlerName" description:"控制器方法名"`
	Summary     string                         `json:"summary,omitempty" description:"摘要描述"`
	Description string                         `json:"description,omitempty" description:"说明"`
	OperationID string                         `json:"operationId,omitempty" description:"唯一ID"`
	Deprecated  bool                           `json:"deprecated,omitempty" description:"是否禁用"`
	Tags        []string                       `json:"tags" description:"路由标签"`
	Security    []map[string][]string          `json:"security,omitempty" description:"鉴权声明"`
	Parameters  []*ParameterDescriptor         `json:"parameters" description:"路由参数"`
	Responses   map[string]*ResponseDescriptor `json:"responses" description:"响应文档"`
	// SuccessStatus 路由执行成功时的响应状态码
	SuccessStatus int `json:"-"`
}

// Body 第一个请求体参数, 不存在则返回nil
func (r *RouteDescriptor) Body() *ParameterDescriptor {
	for _, p := range r.Parameters {
		if p.In == InBody {
			return p
		}
	}
	return nil
}

// Param 按位置和名称查找参数
func (r *RouteDescriptor) Param(in ParamLocation, name string) *ParameterDescriptor {
	for _, p := range r.Parameters {
		if p.In == in && p.Name == name {
			return p
		}
	}
	return nil
}

func cloneRoute(d *RouteDescriptor) *RouteDescriptor {
	out := *d
	out.Tags = append([]string(nil), d.Tags...)
	out.Security = append([]map[string][]string(nil), d.Security...)
	out.Parameters = make([]*ParameterDescriptor, len(d.Parameters))
	for i, p := range d.Parameters {
		c := *p
		out.Parameters[i] = &c
	}
	out.Responses = make(map[string]*ResponseDescriptor, len(d.Responses))
	for k, v := range d.Responses {
		c := *v
		out.Responses[k] = &c
	}
	return &out
}

func cloneController(d *ControllerDescriptor) *ControllerDescriptor {
	out := *d
	out.Tags = append([]string(nil), d.Tags...)
	return &out
}
