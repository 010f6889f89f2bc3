package main

import (
	"flag"

	"github.com/handiism/nftposter/internal/server"
	"go.uber.org/fx"
)

func main() {
	configFlag := flag.String("config", "config/base.yaml", "Path to config file (.json or .yaml)")
	flag.Parse()

	fx.New(opts(server.ConfigPath(*configFlag))).Run()
}

func opts(path server.ConfigPath) fx.Option {
	return fx.Options(
		fx.Supply(path),
		server.Module,
	)
}
