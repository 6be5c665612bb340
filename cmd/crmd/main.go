package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cooscarhuerta/CRMGrapHQL/config"
	"github.com/cooscarhuerta/CRMGrapHQL/internal/app"
	"github.com/cooscarhuerta/CRMGrapHQL/internal/auth"
	"github.com/cooscarhuerta/CRMGrapHQL/internal/graph"
	"github.com/cooscarhuerta/CRMGrapHQL/internal/order"
	"github.com/cooscarhuerta/CRMGrapHQL/internal/report"
	"github.com/cooscarhuerta/CRMGrapHQL/internal/repository"
	"github.com/cooscarhuerta/CRMGrapHQL/internal/webserver"
	"github.com/cooscarhuerta/CRMGrapHQL/pkg/common"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	cfile  = flag.String("c", "", "config file path")
	initdb = flag.Bool("initdb", false, "drop and recreate the database schema, then exit")
)

func main() {
	flag.Parse()

	cfg, err := config.LoadConfig(*cfile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	if cfg.Web.Secret == "" {
		fmt.Fprintln(os.Stderr, "web.secret is required (or set CRMD_WEB_SECRET)")
		os.Exit(1)
	}

	application := app.NewApplication(cfg)
	application.Init(cfg)
	defer application.Release()

	if *initdb {
		application.InitDb()
		zap.S().Info("database schema recreated")
		return
	}

	db := application.DB()
	users := repository.NewGormUserRepository(db)
	authsvc := auth.NewService(users, []byte(cfg.Web.Secret), common.UUIDint64)
	workflow := order.NewWorkflow(db, order.Options{
		RestockOnCancel: cfg.Policy.RestockOnCancel,
	}, common.UUIDint64)

	resolver := &graph.Resolver{
		Auth:     authsvc,
		Workflow: workflow,
		Reports:  report.NewService(db),
		Users:    users,
		Products: repository.NewGormProductRepository(db),
		Clients:  repository.NewGormClientRepository(db),
		Orders:   repository.NewGormOrderRepository(db),
		Bus:      application.Bus(),
		Policy:   cfg.Policy,
		NewID:    common.UUIDint64,
	}
	schema, err := graph.NewSchema(resolver)
	if err != nil {
		zap.S().Fatalf("schema init failed: %v", err)
	}

	server := webserver.New(cfg, schema, authsvc, db)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Start(ctx)
	})

	if err := g.Wait(); err != nil {
		zap.S().Fatalf("server stopped: %v", err)
	}
}
