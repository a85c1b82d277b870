package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/unusco/unus/internal/config"
	"github.com/unusco/unus/internal/migration"
	"github.com/unusco/unus/internal/observability"
	"github.com/unusco/unus/internal/server"
	"github.com/unusco/unus/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
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
