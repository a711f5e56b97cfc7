package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang/glog"

	api "github.com/mind-engage/mindengage-qformat/internal/api/http"
	auth "github.com/mind-engage/mindengage-qformat/internal/auth/middleware"
	"github.com/mind-engage/mindengage-qformat/internal/bank"
	"github.com/mind-engage/mindengage-qformat/internal/config"
	"github.com/mind-engage/mindengage-qformat/internal/db"
	"github.com/mind-engage/mindengage-qformat/internal/export"
	"github.com/mind-engage/mindengage-qformat/internal/i18n"
	"github.com/mind-engage/mindengage-qformat/internal/render"
	"github.com/mind-engage/mindengage-qformat/internal/sink"
	"github.com/mind-engage/mindengage-qformat/internal/storage"
)

func main() {
	flag.Parse() // glog flags: -logtostderr, -v
	defer glog.Flush()

	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		glog.Fatalf("db open failed: %v", err)
	}
	defer dbh.Close()
	store := bank.NewSQLStore(dbh, cfg.DBDriver)

	bs, err := storage.NewFSStore(cfg.BlobBasePath)
	if err != nil {
		glog.Fatalf("blob store: %v", err)
	}
	archive := export.NewBlobArchive(dbh, bs)

	// --- Export ---
	loc := i18n.English()
	if cfg.LocaleBundle != "" {
		if loc, err = i18n.Load(cfg.LocaleBundle); err != nil {
			glog.Fatalf("locale bundle: %v", err)
		}
	}
	mode, err := render.ParseUnsupportedMode(cfg.ExportUnsupportedMode)
	if err != nil {
		glog.Fatalf("EXPORT_UNSUPPORTED_MODE: %v", err)
	}
	if _, ok := sink.Lookup(cfg.ExportDefaultFormat); !ok {
		glog.Fatalf("EXPORT_DEFAULT_FORMAT: unknown format %q (have %v)", cfg.ExportDefaultFormat, sink.Names())
	}
	exp := export.New(store, loc,
		export.WithStrict(cfg.ExportStrict),
		export.WithUnsupportedMode(mode),
		export.WithSinkOptions(sink.Options{FontRegular: cfg.PDFFontRegular, FontBold: cfg.PDFFontBold}),
		export.WithArchive(archive),
	)

	// --- Auth (local JWT) ---
	authSvc := auth.NewAuthService(cfg.AuthHMACSecret)
	var accounts auth.Accounts
	if cfg.EnableLocalAuth {
		accounts = auth.Accounts{{Username: cfg.AdminUser, PassHash: cfg.AdminPassHash, Role: "admin"}}
	}

	r := api.NewRouter(api.Deps{
		Auth:          authSvc,
		Accounts:      accounts,
		Store:         store,
		Exporter:      exp,
		Archive:       archive,
		Localizer:     loc,
		DefaultFormat: cfg.ExportDefaultFormat,
		CORSOrigins:   cfg.CORSOrigins(),
	})

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: r}
	go func() {
		glog.Infof("listening on %s (mode=%s, db=%s, strict=%t)", cfg.HTTPAddr, cfg.Mode, cfg.DBDriver, cfg.ExportStrict)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			glog.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	sctx, scancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer scancel()
	if err := srv.Shutdown(sctx); err != nil {
		glog.Errorf("shutdown: %v", err)
	}
}
