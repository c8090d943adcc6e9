// internal/logging/logging.go
//
// Package logging 建立全程式共用的 zap logger。
// 每次執行配發一個 session ID，附加在所有日誌欄位中，方便區分不同次執行。
package logging

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	sessionID     string
	sessionIDOnce sync.Once
)

// SessionID 回傳本次執行的 ID。
func SessionID() string {
	sessionIDOnce.Do(func() {
		sessionID = uuid.New().String()
	})
	return sessionID
}

// New 依等級建立 logger，輸出到 stderr。
// development 為 true 時使用易讀的 console 格式，否則為 JSON。
func New(level string, development bool) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	if development {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	log, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return log.With(zap.String("session", SessionID())), nil
}
