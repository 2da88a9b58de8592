// Package fiberWrapper 以 fiber 作为 decorapi 的路由器
package fiberWrapper

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/Chendemo12/decorapi"
	"github.com/Chendemo12/decorapi/utils"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

type FiberMux struct {
	app  *fiber.App
	pool *sync.Pool
}

// NewWrapper 创建App实例
func NewWrapper(app *fiber.App) *FiberMux {
	return &FiberMux{
		app:  app,
		pool: &sync.Pool{New: func() any { return &FiberContext{} }},
	}
}

// New 按 decorapi 的约定创建 fiber.App: 非严格路由, json 编解码使用 utils 中的 jsoniter 配置
func New() *fiber.App {
	return fiber.New(fiber.Config{
		Prefork:               false,               // 多进程模式
		CaseSensitive:         true,                // 区分路由大小写
		StrictRouting:         false,               // "/users" 和 "/users/" 为同一路由
		ServerHeader:          "decorapi",          // 服务器头
		AppName:               "decorapi.fiber",    // 设置为 Response.Header.Server 属性
		DisableStartupMessage: true,                // 启动信息由调用方输出
		Immutable:             true,                // 路径参数等字符串在请求结束后仍然有效
		JSONEncoder:           utils.JsonMarshal,   // json序列化器
		JSONDecoder:           utils.JsonUnmarshal, // json解码器
	})
}

// Default 默认的fiber.app，已做好基本的参数配置, 并输出访问日志
func Default() *FiberMux {
	app := New()

	// 输出API访问日志
	logConfig := fiberlogger.ConfigDefault
	logConfig.TimeFormat = time.DateTime
	logConfig.Format = "${time}    ${method}\t${path}    ${status}\n"
	app.Use(fiberlogger.New(logConfig))
	app.Use(recover.New())

	return NewWrapper(app)
}

func (m *FiberMux) App() *fiber.App { return m.app }

func (m *FiberMux) AcquireCtx(c *fiber.Ctx) *FiberContext {
	obj := m.pool.Get().(*FiberContext)
	obj.ctx = c

	return obj
}

func (m *FiberMux) ReleaseCtx(c *FiberContext) {
	c.ctx = nil
	m.pool.Put(c)
}

func (m *FiberMux) Listen(addr string) error {
	return m.app.Listen(addr)
}

func (m *FiberMux) ShutdownWithTimeout(timeout time.Duration) error {
	return m.app.ShutdownWithTimeout(timeout)
}

func (m *FiberMux) BindRoute(method, path string, handler decorapi.MuxHandler) error {
	return m.bind(m.app, method, path, handler)
}

func (m *FiberMux) Group(prefix string) decorapi.MuxRouter {
	if prefix == "" {
		return m
	}
	return &FiberGroup{mux: m, router: m.app.Group(prefix)}
}

func (m *FiberMux) bind(router fiber.Router, method, path string, handler decorapi.MuxHandler) error {
	switch method {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete,
		http.MethodPatch, http.MethodOptions, http.MethodHead:
	default:
		return fmt.Errorf("%w: '%s' for path: '%s'", decorapi.ErrUnknownMethod, method, path)
	}

	router.Add(method, path, func(c *fiber.Ctx) error {
		ctx := m.AcquireCtx(c)
		defer m.ReleaseCtx(ctx)

		return handler(ctx)
	})
	return nil
}

// FiberGroup fiber 路由组
type FiberGroup struct {
	mux    *FiberMux
	router fiber.Router
}

func (g *FiberGroup) BindRoute(method, path string, handler decorapi.MuxHandler) error {
	return g.mux.bind(g.router, method, path, handler)
}

type FiberContext struct {
	ctx *fiber.Ctx
}

func (c *FiberContext) Method() string { return c.ctx.Method() }

func (c *FiberContext) Path() string { return c.ctx.Route().Path }

func (c *FiberContext) Ctx() any { return c.ctx }

func (c *FiberContext) Context() context.Context { return c.ctx.UserContext() }

func (c *FiberContext) GetHeader(key string) string { return c.ctx.Get(key) }

func (c *FiberContext) Params(key string, undefined ...string) string {
	return c.ctx.Params(key, undefined...)
}

func (c *FiberContext) Query(key string, undefined ...string) string {
	return c.ctx.Query(key, undefined...)
}

func (c *FiberContext) Body() ([]byte, error) { return c.ctx.Body(), nil }

func (c *FiberContext) Header(key, value string) { c.ctx.Set(key, value) }

func (c *FiberContext) Status(code int) { c.ctx.Status(code) }

func (c *FiberContext) SendString(s string) error { return c.ctx.SendString(s) }

// SendStatus 仅设置状态码, 不同于 fiber.Ctx.SendStatus 不会写入状态码说明
func (c *FiberContext) SendStatus(code int) error {
	c.ctx.Status(code)
	return nil
}

func (c *FiberContext) JSON(code int, data any) error {
	return c.ctx.Status(code).JSON(data)
}
