package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/go-compass/compass/internal/engine/conf"
	"github.com/go-compass/compass/internal/engine/router"
	"github.com/go-compass/compass/pkg/ctx"
	"github.com/go-compass/compass/pkg/database"
	"github.com/go-compass/compass/pkg/log"
	"github.com/go-compass/compass/pkg/runner"
	"github.com/go-compass/compass/pkg/server"
)

var (
	configFile string
)

func init() {
	flag.StringVar(&configFile, "conf", "conf.d/config.toml", "conf file path, e.g. -conf ./conf.d/config.toml")
}

func main() {
	flag.Parse()
	printRunner()

	appConf := conf.NewConf(configFile)

	logger, err := log.NewLog(&appConf.Log)
	if err != nil {
		panic(err)
	}

	// db
	db, err := database.NewDatabase(appConf.Database)
	if err != nil {
		panic(err)
	}

	appCtx := ctx.NewContext(context.Background(), db, logger.Sugar())

	route := router.NewRouter(&appConf.Http, appCtx, appConf.Menu)

	// http srv
	srv := server.NewHttp(appConf.Http)
	httpClean := srv.Server(route.Router())

	httpClean()
}

func printRunner() {
	fmt.Println("runner.pwd:", runner.Pwd)
	fmt.Println("runner.hostname:", runner.Hostname)
}
