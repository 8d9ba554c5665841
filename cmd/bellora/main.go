package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/bellora/internal/clock"
	"github.com/smallbiznis/bellora/internal/config"
	"github.com/smallbiznis/bellora/internal/migration"
	"github.com/smallbiznis/bellora/internal/server"
	"github.com/smallbiznis/bellora/pkg/db"
	"github.com/smallbiznis/bellora/pkg/log"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		log.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,

		// Schema and seed data before the HTTP surface comes up.
		migration.Module,

		// HTTP surface plus every domain module it serves.
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake(cfg config.Config) *snowflake.Node {
	node, err := snowflake.NewNode(cfg.SnowflakeNode)
	if err != nil {
		panic(err)
	}
	return node
}
