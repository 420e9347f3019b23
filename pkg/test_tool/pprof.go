package testtool

import (
	"net/http"
	_ "net/http/pprof" // 匯入後會自動註冊 pprof endpoint

	"github.com/AsemAbuOthman/Forsah-sub000/pkg/config"
	"github.com/AsemAbuOthman/Forsah-sub000/pkg/logger"

	"go.uber.org/zap"
)

// StartPprof 非 production 環境時啟動 pprof 監控伺服器 (只綁 localhost)
func StartPprof(addr string) {
	if config.IsProduction() {
		logger.Log.Info("Production environment detected, pprof is disabled.")
		return
	}
	if addr == "" {
		addr = "127.0.0.1:6060"
	}

	go func() {
		logger.Log.Info("Starting pprof server", zap.String("addr", addr))
		if err := http.ListenAndServe(addr, nil); err != nil {
			logger.Log.Errorf("pprof server failed:", err)
		}
	}()
}
