package metadata

import (
	"reflect"
	"sync"

	"github.com/Chendemo12/decorapi/schema"
)

// TypeOf 控制器的类型标识, 结构体与其指针得到相同的标识(指针类型)
func TypeOf(controller any) reflect.Type {
	rt, ok := controller.(reflect.Type)
	if !ok {
		rt = reflect.TypeOf(controller)
	}
	if rt == nil {
		return nil
	}
	for rt.Kind() == reflect.Pointer && rt.Elem().Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	if rt.Kind() != reflect.Pointer {
		rt = reflect.PointerTo(rt)
	}
	return rt
}

type pendingKey struct {
	id      reflect.Type
	handler string
}

// Snapshot 仓库的当前视图
//
// Controllers 和 Routes 为仓库内部的映射本身而非拷贝, 对其修改会同时作用于仓库;
// 需要稳定视图时应调用 Clone.
type Snapshot struct {
	Controllers map[reflect.Type]*ControllerDescriptor
	Routes      map[reflect.Type][]*RouteDescriptor
	Order       []reflect.Type // 控制器的声明顺序
}

// Clone 深拷贝
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Controllers: make(map[reflect.Type]*ControllerDescriptor, len(s.Controllers)),
		Routes:      make(map[reflect.Type][]*RouteDescriptor, len(s.Routes)),
		Order:       append([]reflect.Type(nil), s.Order...),
	}
	for id, c := range s.Controllers {
		out.Controllers[id] = cloneController(c)
	}
	for id, routes := range s.Routes {
		list := make([]*RouteDescriptor, len(routes))
		for i, r := range routes {
			list[i] = cloneRoute(r)
		}
		out.Routes[id] = list
	}
	return out
}

// Registry 控制器与路由元数据仓库
//
// 由调用方显式创建并传递给声明层、文档构建和路由绑定; 测试中每个用例创建新的仓库即可.
// 写操作加锁, 读操作在服务启动之后进行, 不做额外同步.
type Registry struct {
	mu          sync.RWMutex
	controllers map[reflect.Type]*ControllerDescriptor
	routes      map[reflect.Type][]*RouteDescriptor
	order       []reflect.Type
	pending     map[pendingKey][]*ParameterDescriptor
	schemas     *schema.Engine
}

func NewRegistry() *Registry {
	r := &Registry{schemas: schema.NewEngine()}
	r.init()
	return r
}

func (r *Registry) init() {
	r.controllers = make(map[reflect.Type]*ControllerDescriptor)
	r.routes = make(map[reflect.Type][]*RouteDescriptor)
	r.order = make([]reflect.Type, 0)
	r.pending = make(map[pendingKey][]*ParameterDescriptor)
}

// Schemas 仓库共享的模型推断引擎
func (r *Registry) Schemas() *schema.Engine { return r.schemas }

// RegisterController 登记控制器, 覆盖此前的描述; 首次登记的位置决定其在文档中的顺序
func (r *Registry) RegisterController(id reflect.Type, d *ControllerDescriptor) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.controllers[id]; !ok {
		r.order = append(r.order, id)
	}
	r.controllers[id] = d
}

// RegisterRoute 追加路由到控制器的路由列表
func (r *Registry) RegisterRoute(id reflect.Type, d *RouteDescriptor) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.routes[id] = append(r.routes[id], d)
}

// Controller 查询控制器描述
func (r *Registry) Controller(id reflect.Type) (*ControllerDescriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.controllers[id]
	return d, ok
}

// Controllers 按声明顺序返回全部控制器描述
func (r *Registry) Controllers() []*ControllerDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]*ControllerDescriptor, 0, len(r.order))
	for _, id := range r.order {
		list = append(list, r.controllers[id])
	}
	return list
}

// Routes 控制器的路由列表, 未登记路由的控制器返回空列表
func (r *Registry) Routes(id reflect.Type) []*RouteDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.routes[id]
}

// Snapshot 返回仓库的当前视图, 非拷贝
func (r *Registry) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return Snapshot{Controllers: r.controllers, Routes: r.routes, Order: r.order}
}

// AddPending 记录方法参数的声明, 等待路由声明时取用
func (r *Registry) AddPending(id reflect.Type, handler string, p *ParameterDescriptor) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := pendingKey{id: id, handler: handler}
	r.pending[key] = append(r.pending[key], p)
}

// TakePending 取出并移除方法的参数声明
func (r *Registry) TakePending(id reflect.Type, handler string) []*ParameterDescriptor {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := pendingKey{id: id, handler: handler}
	params := r.pending[key]
	delete(r.pending, key)
	return params
}

// Reset 清空仓库和模型缓存
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.init()
	r.schemas.Reset()
}
