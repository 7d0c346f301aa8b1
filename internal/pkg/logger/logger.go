// internal/pkg/logger/logger.go
package logger

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// base 是全局的基础 Logger，所有日志最终都通过它输出。
var base = zerolog.New(os.Stdout).With().Timestamp().Logger()

// Init 初始化全局 Logger，为所有日志附加服务名字段。
// 应在每个服务的 main 函数中尽早调用。
func Init(serviceName string) {
	zerolog.TimeFieldFormat = time.RFC3339
	base = zerolog.New(os.Stdout).With().
		Timestamp().
		Str("service", serviceName).
		Logger()
}

// Logger 返回全局基础 Logger 的副本。
func Logger() zerolog.Logger {
	return base
}

// WithContext 将全局 Logger 注入到 context 中，
// 下游通过 Ctx(ctx) 取回同一个 Logger，保证日志字段的连续性。
func WithContext(ctx context.Context) context.Context {
	return base.WithContext(ctx)
}

// Ctx 从 context 中取出 Logger；如果 context 中没有，则退化为全局 Logger。
func Ctx(ctx context.Context) *zerolog.Logger {
	l := zerolog.Ctx(ctx)
	if l.GetLevel() == zerolog.Disabled {
		return &base
	}
	return l
}

func Debug() *zerolog.Event { return base.Debug() }
func Info() *zerolog.Event  { return base.Info() }
func Warn() *zerolog.Event  { return base.Warn() }
func Error() *zerolog.Event { return base.Error() }
func Fatal() *zerolog.Event { return base.Fatal() }
