package main

import (
	"github.com/abi-lab/backend/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startMigrate(*cli.Context) error {
	s.loadDatabase()
	s.migrateDB()

	xcontext.Logger(s.ctx).Infof("Migrated %s database successfully",
		xcontext.Configs(s.ctx).Database.Driver)
	return nil
}
