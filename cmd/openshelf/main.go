package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/openshelf/openshelf/config"
	"github.com/openshelf/openshelf/internal/adminapi"
	"github.com/openshelf/openshelf/internal/app"
	"github.com/openshelf/openshelf/internal/catalog"
	"github.com/openshelf/openshelf/internal/notifier"
	"github.com/openshelf/openshelf/internal/webserver"
	"github.com/openshelf/openshelf/pkg/changelog"
)

var (
	cfile   = flag.String("c", "/etc/openshelf.yml", "config file")
	initdb  = flag.Bool("initdb", false, "drop and recreate the database schema")
	showVer = flag.Bool("v", false, "print version and exit")
)

var version = "dev"

func main() {
	flag.Parse()
	if *showVer {
		fmt.Println("openshelf", version)
		return
	}

	cfg := config.LoadConfig(*cfile)
	application := app.NewApplication(cfg)
	application.Init(cfg)
	defer application.Release()

	if *initdb {
		application.InitDb()
		zap.S().Info("database schema recreated")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	journal, err := changelog.Open(filepath.Join(cfg.System.Workdir, "changelog.db"))
	if err != nil {
		zap.S().Warnf("snapshot journal disabled: %v", err)
		journal = nil
	} else {
		defer journal.Close()
	}

	repo := catalog.NewGormRepository(application.DB())
	provider := catalog.NewProvider(repo, application.Bus(), journal)
	if err := provider.Open(ctx); err != nil {
		zap.S().Fatalf("open catalog provider: %v", err)
	}
	defer provider.Close()

	mailer := notifier.NewMailer(cfg.Smtp)
	application.StartJobs(provider, mailer)

	ws := webserver.New(cfg)
	adminapi.Register(ws, &adminapi.Deps{
		DB:       application.DB(),
		Provider: provider,
		Settings: application.Settings(),
		Journal:  journal,
	})

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		if err := ws.Start(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return ws.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		zap.S().Errorf("server exited: %v", err)
		os.Exit(1)
	}
}
