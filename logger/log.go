package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Iface 自定义logger接口，log及zap等均已实现此接口
type Iface interface {
	Debug(args ...any)
	Info(args ...any)
	Warn(args ...any)
	Error(args ...any)
}

// FIface 适用于 fmt.Errorf 风格的日志接口
type FIface interface {
	Errorf(format string, args ...any)
	Warnf(format string, args ...any)
	Infof(format string, args ...any)
	Debugf(format string, args ...any)
}

// Logger 完整的日志接口, 支持附加结构化字段
type Logger interface {
	Iface
	FIface
	WithFields(fields map[string]any) Logger
}

var _ Logger = (*ZeroLogger)(nil)

var callerMarshalOnce sync.Once

// ZeroLogger 基于 zerolog 的日志实现
type ZeroLogger struct {
	zlog *zerolog.Logger
}

// New 创建日志实例, pretty 为 true 时输出彩色控制台格式, 否则输出 JSON
// level 无法解析时缺省为 info
func New(out io.Writer, level string, pretty bool) *ZeroLogger {
	callerMarshalOnce.Do(func() {
		zerolog.CallerMarshalFunc = func(_ uintptr, file string, line int) string {
			parent := filepath.Base(filepath.Dir(file))
			if parent != "." && parent != "" {
				return parent + "/" + filepath.Base(file) + ":" + strconv.Itoa(line)
			}
			return filepath.Base(file) + ":" + strconv.Itoa(line)
		}
	})

	if pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.DateTime}
	}
	l := zerolog.New(out).With().Timestamp().CallerWithSkipFrameCount(3).Logger()

	zLevel, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		zLevel = zerolog.InfoLevel
	}
	l = l.Level(zLevel)

	return &ZeroLogger{zlog: &l}
}

// NewDefaultLogger 默认的控制台日志具柄
func NewDefaultLogger() *ZeroLogger {
	return New(os.Stdout, "info", true)
}

// Discard 丢弃全部日志, 多用于测试
func Discard() *ZeroLogger {
	l := zerolog.Nop()
	return &ZeroLogger{zlog: &l}
}

// Zerolog 原始的 zerolog.Logger
func (l *ZeroLogger) Zerolog() *zerolog.Logger { return l.zlog }

func (l *ZeroLogger) WithFields(fields map[string]any) Logger {
	zl := l.zlog.With().Fields(fields).Logger()
	return &ZeroLogger{zlog: &zl}
}

func (l *ZeroLogger) Debug(args ...any) { l.zlog.Debug().Msg(sprint(args...)) }

func (l *ZeroLogger) Info(args ...any) { l.zlog.Info().Msg(sprint(args...)) }

func (l *ZeroLogger) Warn(args ...any) { l.zlog.Warn().Msg(sprint(args...)) }

func (l *ZeroLogger) Error(args ...any) { l.zlog.Error().Msg(sprint(args...)) }

func (l *ZeroLogger) Debugf(format string, args ...any) { l.zlog.Debug().Msgf(format, args...) }

func (l *ZeroLogger) Infof(format string, args ...any) { l.zlog.Info().Msgf(format, args...) }

func (l *ZeroLogger) Warnf(format string, args ...any) { l.zlog.Warn().Msgf(format, args...) }

func (l *ZeroLogger) Errorf(format string, args ...any) { l.zlog.Error().Msgf(format, args...) }

// 参数之间以空格分隔, 与 log.Println 一致
func sprint(args ...any) string {
	return strings.TrimSuffix(fmt.Sprintln(args...), "\n")
}
