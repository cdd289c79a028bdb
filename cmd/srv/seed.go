package main

import (
	"github.com/abi-lab/backend/internal/domain/badge"
	"github.com/abi-lab/backend/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startSeed(*cli.Context) error {
	s.loadDatabase()
	s.migrateDB()
	s.loadRepos()

	if err := badge.Seed(s.ctx, s.badgeRepo); err != nil {
		return err
	}

	xcontext.Logger(s.ctx).Infof("Seeded the badge catalogue successfully")
	return nil
}
