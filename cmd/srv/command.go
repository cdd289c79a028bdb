package main

import "github.com/urfave/cli/v2"

var configFlag = &cli.StringFlag{
	Name:    "config",
	Aliases: []string{"c"},
	Usage:   "Path to the toml configuration file",
	EnvVars: []string{"ABI_CONFIG"},
}

func (s *srv) loadApp() {
	s.app = cli.NewApp()
	s.app.Action = cli.ShowAppHelp
	s.app.Name = "abi"
	s.app.Usage = "Abi community service"
	s.app.Flags = []cli.Flag{configFlag}
	s.app.Before = s.loadConfig
	s.app.Commands = []*cli.Command{
		{
			Action:      s.startApi,
			Name:        "api",
			Usage:       "Start service api",
			Category:    "Api",
			Description: `Used for start service api, it serves the community and request apis.`,
		},
		{
			Action:      s.startMigrate,
			Name:        "migrate",
			Usage:       "Migrate the database schema",
			Category:    "Database",
			Description: `Used to bring the database schema up to date, then exit.`,
		},
		{
			Action:      s.startCron,
			Name:        "cron",
			Usage:       "Start cron jobs",
			Category:    "Worker",
			Description: `Used to reconcile cached counters and flush buffered view counts periodically.`,
		},
		{
			Action:      s.startSeed,
			Name:        "seed",
			Usage:       "Seed the badge catalogue",
			Category:    "Database",
			Description: `Used to insert or refresh the badge catalogue, then exit.`,
		},
	}
}
