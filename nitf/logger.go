package nitf

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// Logger 简洁的进度日志
type Logger struct {
	log        *log.Logger
	step       string
	stepStart  time.Time
	totalStart time.Time
}

// NewLogger 创建写到 w 的日志记录器
// 级别取自 SIDD_LOG_LEVEL，设置了 DEBUG 时为 debug
func NewLogger(w io.Writer) *Logger {
	l := log.NewWithOptions(w, log.Options{ReportTimestamp: false})
	l.SetLevel(envLevel())
	return &Logger{log: l, totalStart: time.Now()}
}

// NopLogger 丢弃所有输出
func NopLogger() *Logger {
	return NewLogger(io.Discard)
}

func envLevel() log.Level {
	if debugEnabled {
		return log.DebugLevel
	}
	if lvl, err := log.ParseLevel(os.Getenv("SIDD_LOG_LEVEL")); err == nil {
		return lvl
	}
	return log.InfoLevel
}

// Step 开始一个处理步骤
func (l *Logger) Step(name string, params ...interface{}) {
	l.step = name
	l.stepStart = time.Now()
	if len(params) > 0 {
		l.log.Debug(name, "args", params)
	}
}

// Done 完成当前步骤，超过 100ms 时带上耗时
func (l *Logger) Done(result string) {
	elapsed := time.Since(l.stepStart)
	if elapsed > 100*time.Millisecond {
		l.log.Info(l.step, "result", result, "elapsed", elapsed.Round(time.Millisecond))
	} else {
		l.log.Info(l.step, "result", result)
	}
}

// Total 输出总耗时
func (l *Logger) Total() {
	l.log.Info("done", "total", time.Since(l.totalStart).Round(time.Millisecond))
}

// Info 输出信息
func (l *Logger) Info(format string, args ...interface{}) {
	l.log.Infof(format, args...)
}

// Warn 输出警告
func (l *Logger) Warn(format string, args ...interface{}) {
	l.log.Warnf(format, args...)
}

// With 附带固定键值对的子日志
func (l *Logger) With(keyvals ...interface{}) *Logger {
	return &Logger{log: l.log.With(keyvals...), totalStart: l.totalStart}
}

var Debug = debug
var debugEnabled = os.Getenv("DEBUG") != ""

var debugLog = log.NewWithOptions(os.Stderr, log.Options{Level: log.DebugLevel, Prefix: "nitf"})

func debug(format string, args ...interface{}) {
	if debugEnabled {
		debugLog.Debugf(format, args...)
	}
}
