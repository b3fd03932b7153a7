package logger

import (
    "go.uber.org/zap"
    "go.uber.org/zap/zapcore"
)

var log = zap.NewNop()

// Init 初始化全局 logger。mode 为 "dev" 时输出易读格式。
func Init(level string, mode string) error {
    cfg := zap.NewProductionConfig()
    if mode == "dev" {
        cfg = zap.NewDevelopmentConfig()
    }
    if level != "" {
        lv, err := zapcore.ParseLevel(level)
        if err != nil {
            return err
        }
        cfg.Level = zap.NewAtomicLevelAt(lv)
    }
    l, err := cfg.Build(zap.AddCallerSkip(1))
    if err != nil {
        return err
    }
    log = l
    return nil
}

// L 返回底层 logger
func L() *zap.Logger { return log }

func Debug(msg string, fields ...zap.Field) { log.Debug(msg, fields...) }
func Info(msg string, fields ...zap.Field)  { log.Info(msg, fields...) }
func Warn(msg string, fields ...zap.Field)  { log.Warn(msg, fields...) }
func Error(msg string, fields ...zap.Field) { log.Error(msg, fields...) }

// Sync 刷出缓冲日志，进程退出前调用
func Sync() { _ = log.Sync() }
