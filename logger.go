package decorapi

import (
	"sync"

	"github.com/Chendemo12/decorapi/logger"
)

var (
	consoleMu sync.RWMutex
	console   logger.Logger = logger.NewDefaultLogger()
)

// SetLogger 替换包级别的默认日志句柄, 未在 Config 中设置日志的 App 使用此句柄
func SetLogger(l logger.Logger) {
	if l == nil {
		return
	}
	consoleMu.Lock()
	defer consoleMu.Unlock()
	console = l
}

// Logger 包级别的默认日志句柄
func Logger() logger.Logger {
	consoleMu.RLock()
	defer consoleMu.RUnlock()
	return console
}
