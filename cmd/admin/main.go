package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/matchmaker/internal/admincli"
	"github.com/dmitrijs2005/matchmaker/internal/logging"
	"github.com/dmitrijs2005/matchmaker/internal/server/auth"
	"github.com/dmitrijs2005/matchmaker/internal/server/config"
	"github.com/dmitrijs2005/matchmaker/internal/server/metrics"
	"github.com/dmitrijs2005/matchmaker/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/matchmaker/internal/server/services"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()

	repos, err := repomanager.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("store init error: %v", err)
	}
	defer repos.Close()

	admins := services.NewAdminService(repos, auth.NewHasher(cfg.BcryptCost), metrics.NewRegistry(), logging.NewJSONLogger(os.Stderr, cfg.LogLevel), cfg)

	if err := admincli.NewApp(admins, os.Stdin, os.Stdout).Run(ctx, os.Args[1:]); err != nil {
		log.Printf("%v", err)
		repos.Close()
		os.Exit(1)
	}

}
