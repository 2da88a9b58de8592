package decorapi

import (
	"context"
	"errors"
	"time"
)

// ErrUnknownMethod 路由器不支持的路由方法
var ErrUnknownMethod = errors.New("unknown method")

type MuxHandler func(c MuxContext) error

// MuxRouter 路由器或路由组, 路由注册在其前缀之下
type MuxRouter interface {
	// BindRoute 注册路由, method 取值为 http.MethodGet 等, path 中的路径参数为 ":param" 形式
	BindRoute(method, path string, handler MuxHandler) error
}

// MuxWrapper WEB服务器包装器接口
// 为兼容不同的 server 引擎，需要对其二次包装
type MuxWrapper interface {
	MuxRouter
	// Listen 启动http server
	Listen(addr string) error
	// ShutdownWithTimeout 优雅关闭
	ShutdownWithTimeout(timeout time.Duration) error
	// Group 创建路由组, prefix 为空时返回根路由器本身
	Group(prefix string) MuxRouter
}

// MuxContext Web引擎的 Context，例如 fiber.Ctx, echo.Context
//
//  1. Method 和 Path 方法必须实现且不可返回空值
//  2. 对于 MuxContext 缺少的方法，可通过直接调用 Ctx 来实现
//  3. Body 返回的字节在请求结束前有效
type MuxContext interface {
	Method() string // [重要方法]获得当前请求方法，取值为 http.MethodGet, http.MethodPost 等
	Path() string   // [重要方法]获的当前请求的路由模式，而非请求Url

	Ctx() any                 // 原始的 Context
	Context() context.Context // 请求的 context, 由引擎提供

	// === 与请求有关方法

	GetHeader(key string) string                   // 读取请求头
	Params(key string, undefined ...string) string // 读取路径参数
	Query(key string, undefined ...string) string  // 读取查询参数
	Body() ([]byte, error)                         // 读取请求体

	// === 与响应有关方法

	Header(key, value string)      // 添加响应头 [!!注意是添加响应头，而非读取]
	Status(code int)               // 设置响应状态码
	SendString(s string) error     // 写字符串到响应体,当此方法执行完毕时应中断后续流程
	SendStatus(code int) error     // 仅返回状态码
	JSON(code int, data any) error // 写入json响应体
}
