// Package echoWrapper 以 echo 作为 decorapi 的路由器
package echoWrapper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Chendemo12/decorapi"
	"github.com/Chendemo12/decorapi/utils"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type EchoMux struct {
	e *echo.Echo
}

// NewWrapper 包装 echo 实例, 并以 utils 中的 jsoniter 配置替换其 JSON 序列化器
func NewWrapper(e *echo.Echo) *EchoMux {
	e.JSONSerializer = JSONSerializer{}
	return &EchoMux{e: e}
}

// Default 默认的 echo 实例, 隐藏启动信息并从 panic 中恢复
func Default() *EchoMux {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			decorapi.Logger().WithFields(map[string]any{
				"request_id": c.Response().Header().Get(echo.HeaderXRequestID),
				"stack":      string(stack),
			}).Error("panic recovered:", err.Error())
			return err
		},
	}))

	return NewWrapper(e)
}

func (m *EchoMux) Echo() *echo.Echo { return m.e }

func (m *EchoMux) Listen(addr string) error {
	err := m.e.Start(addr)
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (m *EchoMux) ShutdownWithTimeout(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	return m.e.Shutdown(ctx)
}

func (m *EchoMux) BindRoute(method, path string, handler decorapi.MuxHandler) error {
	if err := checkMethod(method, path); err != nil {
		return err
	}
	m.e.Add(method, path, wrap(handler))
	return nil
}

func (m *EchoMux) Group(prefix string) decorapi.MuxRouter {
	if prefix == "" {
		return m
	}
	return &EchoGroup{g: m.e.Group(prefix)}
}

// EchoGroup echo 路由组
type EchoGroup struct {
	g *echo.Group
}

func (g *EchoGroup) BindRoute(method, path string, handler decorapi.MuxHandler) error {
	if err := checkMethod(method, path); err != nil {
		return err
	}
	g.g.Add(method, path, wrap(handler))
	return nil
}

func checkMethod(method, path string) error {
	switch method {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete,
		http.MethodPatch, http.MethodOptions, http.MethodHead:
		return nil
	}
	return fmt.Errorf("%w: '%s' for path: '%s'", decorapi.ErrUnknownMethod, method, path)
}

func wrap(handler decorapi.MuxHandler) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handler(&EchoContext{ctx: c, status: http.StatusOK})
	}
}

// EchoContext echo.Context 的包装, 状态码在写入响应体时生效
type EchoContext struct {
	ctx    echo.Context
	status int
}

func (c *EchoContext) Method() string { return c.ctx.Request().Method }

func (c *EchoContext) Path() string { return c.ctx.Path() }

func (c *EchoContext) Ctx() any { return c.ctx }

func (c *EchoContext) Context() context.Context { return c.ctx.Request().Context() }

func (c *EchoContext) GetHeader(key string) string { return c.ctx.Request().Header.Get(key) }

func (c *EchoContext) Params(key string, undefined ...string) string {
	return orDefault(c.ctx.Param(key), undefined)
}

func (c *EchoContext) Query(key string, undefined ...string) string {
	return orDefault(c.ctx.QueryParam(key), undefined)
}

func (c *EchoContext) Body() ([]byte, error) {
	if c.ctx.Request().Body == nil {
		return nil, nil
	}
	return io.ReadAll(c.ctx.Request().Body)
}

func (c *EchoContext) Header(key, value string) { c.ctx.Response().Header().Set(key, value) }

func (c *EchoContext) Status(code int) { c.status = code }

// SendString 写入字符串, 已设置 Content-Type 时保留
func (c *EchoContext) SendString(s string) error {
	if ct := c.ctx.Response().Header().Get(echo.HeaderContentType); ct != "" {
		return c.ctx.Blob(c.status, ct, []byte(s))
	}
	return c.ctx.String(c.status, s)
}

func (c *EchoContext) SendStatus(code int) error { return c.ctx.NoContent(code) }

func (c *EchoContext) JSON(code int, data any) error { return c.ctx.JSON(code, data) }

func orDefault(v string, undefined []string) string {
	if v == "" && len(undefined) > 0 {
		return undefined[0]
	}
	return v
}

// JSONSerializer 以 jsoniter 实现的 echo.JSONSerializer
type JSONSerializer struct{}

func (JSONSerializer) Serialize(c echo.Context, i any, indent string) error {
	enc := utils.DefaultJson.NewEncoder(c.Response())
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc.Encode(i)
}

func (JSONSerializer) Deserialize(c echo.Context, i any) error {
	return utils.DefaultJson.NewDecoder(c.Request().Body).Decode(i)
}
