package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"

	"github.com/costwatch/costwatch/internal/config"
	"github.com/costwatch/costwatch/internal/logger"
	"github.com/costwatch/costwatch/internal/migration"
	"github.com/costwatch/costwatch/internal/server"
	"github.com/costwatch/costwatch/pkg/db"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
