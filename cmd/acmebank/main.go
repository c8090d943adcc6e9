// cmd/acmebank/main.go

// ACME Bank 帳本：預設啟動互動式選單；加上 -serve 則以 HTTP API 提供相同操作。
// 此檔案負責讀取設定、建立 logger、從 CSV 載入帳本，並組裝 session 與前端。
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"acmebank/internal/config"
	"acmebank/internal/logging"
	"acmebank/internal/menu"
	"acmebank/internal/server"
	"acmebank/internal/session"
	"acmebank/internal/storage"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const version = "1.0.0"

type flags struct {
	configPath  string
	serve       bool
	addr        string
	showVersion bool
}

// newLogger 可於測試中替換。
var newLogger = logging.New

func parseFlags(args []string) (flags, error) {
	var f flags
	fs := flag.NewFlagSet("acmebank", flag.ContinueOnError)
	fs.StringVar(&f.configPath, "config", "", "Path to YAML configuration file (optional)")
	fs.BoolVar(&f.serve, "serve", false, "Serve the HTTP API instead of the interactive menu")
	fs.StringVar(&f.addr, "addr", "", "HTTP listen address (overrides ACME_HTTP_ADDR)")
	fs.BoolVar(&f.showVersion, "version", false, "Show version and exit")

	fs.Usage = func() {
		out := fs.Output()
		fmt.Fprintf(out, "ACME Bank ledger v%s\n\n", version)
		fmt.Fprintf(out, "Usage: acmebank [options]\n\n")
		fmt.Fprintf(out, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(out, "\nEnvironment Variables:\n")
		fmt.Fprintf(out, "  ACME_CUSTOMERS_FILE  Customer table (default users.csv)\n")
		fmt.Fprintf(out, "  ACME_ACCOUNTS_FILE   Account table (default accounts.csv)\n")
		fmt.Fprintf(out, "  ACME_HTTP_ADDR       HTTP listen address (default :8080)\n")
		fmt.Fprintf(out, "  ACME_LOG_LEVEL       debug|info|warn|error (default warn)\n")
		fmt.Fprintf(out, "  ACME_LOG_DEV         Human-readable logs (default false)\n")
	}
	return f, fs.Parse(args)
}

func main() {
	os.Exit(realMain(os.Args[1:]))
}

// realMain 回傳結束碼；所有 defer（含 logger.Sync）都在 os.Exit 之前執行完畢。
func realMain(args []string) int {
	f, err := parseFlags(args)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		return 2
	}
	if f.showVersion {
		fmt.Printf("acmebank v%s\n", version)
		return 0
	}

	// .env 為可選
	_ = godotenv.Load()

	cfg, err := config.Load(f.configPath)
	if err != nil {
		log.Printf("Configuration error: %v", err)
		return 1
	}
	if f.addr != "" {
		cfg.HTTPAddr = f.addr
	}

	logger, err := newLogger(cfg.LogLevel, cfg.LogDev)
	if err != nil {
		log.Printf("Logger error: %v", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	if err := run(context.Background(), cfg, f.serve, logger); err != nil {
		logger.Error("exit", zap.Error(err))
		return 1
	}
	return 0
}

func run(ctx context.Context, cfg config.Config, serve bool, logger *zap.Logger) error {
	// 從上次的 CSV 載入；檔案不存在則以空帳本啟動
	store := storage.NewCSVStore(cfg.CustomersFile, cfg.AccountsFile, logger.Named("storage"))
	ledger, _, err := store.Load()
	if err != nil {
		return fmt.Errorf("load ledger: %w", err)
	}
	sess := session.New(ledger, store, logger.Named("session"))

	// 互動模式保留預設的 Ctrl-C 行為；每次變更皆已寫入，直接結束即可
	if !serve {
		return menu.New(sess).Run(ctx)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return serveHTTP(ctx, cfg.HTTPAddr, sess, logger.Named("http"))
}

func serveHTTP(ctx context.Context, addr string, sess *session.Session, logger *zap.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           server.NewServer(sess, logger).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("bank server running", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
