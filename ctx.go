package decorapi

import (
	"context"
	"reflect"
	"sync"

	"github.com/Chendemo12/decorapi/logger"
	"github.com/Chendemo12/decorapi/metadata"
)

func init() {
	// 路由方法中的 *Context 参数由框架注入, 不作为请求参数
	metadata.MarkInjected(reflect.TypeOf(&Context{}))
}

// Context 路由上下文信息, 可作为路由方法的参数由框架注入
//
//	注意: 当一个路由被执行完毕时, 路由函数中的 Context 将被立刻释放回收, 因此在return之后对
//	Context 的任何引用都是不对的, 若需在return之后监听 Context.Context() 则应该显式的复制或派生
type Context struct {
	muxCtx      MuxContext         `description:"路由器Context"`
	routeCtx    context.Context    `description:"获取针对此次请求的唯一context"`
	routeCancel context.CancelFunc `description:"获取针对此次请求的唯一取消函数"`
	route       *metadata.RouteDescriptor
	requestID   string
	log         logger.Logger
	// This mutex protects Keys map.
	mu sync.RWMutex
	// 每个请求专有的K/V
	Keys map[string]any
}

// 申请一个 Context 并初始化
func (a *App) acquireCtx(ctx MuxContext, route *metadata.RouteDescriptor, requestID string) *Context {
	c := a.pool.Get().(*Context)
	c.muxCtx = ctx
	c.route = route
	c.requestID = requestID
	c.routeCtx, c.routeCancel = context.WithCancel(ctx.Context())
	c.log = a.log.WithFields(map[string]any{
		"request_id": requestID,
		"method":     route.Method.Upper(),
		"handler":    route.HandlerName,
	})

	return c
}

// 释放并归还 Context
func (a *App) releaseCtx(c *Context) {
	c.routeCancel()

	c.muxCtx = nil
	c.routeCtx = nil
	c.routeCancel = nil
	c.route = nil
	c.log = nil
	c.Keys = nil

	a.pool.Put(c)
}

// MuxContext 获取web引擎的上下文
func (c *Context) MuxContext() MuxContext { return c.muxCtx }

// MX shortcut web引擎的上下文
func (c *Context) MX() any { return c.muxCtx.Ctx() }

// Context 针对此次请求的唯一context, 当路由执行完毕返回时,将会自动关闭
func (c *Context) Context() context.Context { return c.routeCtx }

// Done 监听 Context 是否完成退出
func (c *Context) Done() <-chan struct{} { return c.routeCtx.Done() }

// Route 当前请求的路由描述
func (c *Context) Route() *metadata.RouteDescriptor { return c.route }

// RequestID 请求ID, 取自请求头 X-Request-ID, 不存在时自动生成
func (c *Context) RequestID() string { return c.requestID }

// Logger 携带请求ID的日志句柄
func (c *Context) Logger() logger.Logger { return c.log }

// Query 获取查询参数
func (c *Context) Query(name string, undefined ...string) string {
	return c.muxCtx.Query(name, undefined...)
}

// PathField 获取路径参数
func (c *Context) PathField(name string, undefined ...string) string {
	return c.muxCtx.Params(name, undefined...)
}

// GetHeader 读取请求头
func (c *Context) GetHeader(key string) string { return c.muxCtx.GetHeader(key) }

// Set 存储一个键值对，延迟初始化
func (c *Context) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Keys == nil {
		c.Keys = make(map[string]any)
	}

	c.Keys[key] = value
}

// Get 从上下文中读取键值, 如果不存在则返回 (nil, false)
func (c *Context) Get(key string) (value any, exists bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	value, exists = c.Keys[key]
	return
}

// MustGet 从上下文中读取键值，如果不存在则panic
func (c *Context) MustGet(key string) any {
	if value, exists := c.Get(key); exists {
		return value
	}
	panic("Key \"" + key + "\" does not exist")
}

// GetString 以字符串形式读取键值
func (c *Context) GetString(key string) (s string) {
	if val, ok := c.Get(key); ok && val != nil {
		s, _ = val.(string)
	}
	return
}
