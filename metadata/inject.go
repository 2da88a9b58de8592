package metadata

import (
	"context"
	"reflect"
	"sync"
)

var (
	injectedMu sync.RWMutex
	// 由框架在调用时注入的参数类型, 不参与请求体推断
	injected = map[reflect.Type]bool{
		reflect.TypeOf((*context.Context)(nil)).Elem(): true,
	}
)

// MarkInjected 登记由框架注入的参数类型, 例如路由上下文
func MarkInjected(types ...reflect.Type) {
	injectedMu.Lock()
	defer injectedMu.Unlock()

	for _, t := range types {
		injected[t] = true
	}
}

// IsInjected 参数类型是否由框架注入
func IsInjected(t reflect.Type) bool {
	injectedMu.RLock()
	defer injectedMu.RUnlock()

	return injected[t]
}
