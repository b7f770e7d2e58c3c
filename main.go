package main

import (
	"club-management-system/cmd/server"
	"club-management-system/config"
	"club-management-system/internal/global/database"
	"club-management-system/internal/global/redis"
	"club-management-system/internal/module/recruit"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"
	"gorm.io/gorm"
)

func main() {
	app := &cli.App{
		Name:  "club",
		Usage: "社团管理系统后端",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "config.yaml",
				Usage:   "配置文件路径",
				EnvVars: []string{"CONFIG_PATH"},
			},
		},
		Before: func(c *cli.Context) error {
			return os.Setenv("CONFIG_PATH", c.String("config"))
		},
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "启动 HTTP 服务",
				Action: serve,
			},
			migrateCommand(),
			exportCommand(),
			recruitCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serve(*cli.Context) error {
	server.Init()
	server.Run()
	return nil
}

var stepsFlag = &cli.IntFlag{
	Name:  "steps",
	Usage: "执行的迁移步数，0 表示全部",
}

func migrateCommand() *cli.Command {
	run := func(direction database.Direction) cli.ActionFunc {
		return func(c *cli.Context) error {
			cfg := config.Get().Database
			if err := database.Migrate(cfg, direction, c.Int("steps")); err != nil {
				return err
			}
			version, dirty, err := database.Version(cfg)
			if err != nil {
				return err
			}
			fmt.Printf("migrate %s done, version %d, dirty %v\n", direction, version, dirty)
			return nil
		}
	}

	return &cli.Command{
		Name:  "migrate",
		Usage: "数据库迁移",
		Subcommands: []*cli.Command{
			{
				Name:   "up",
				Usage:  "迁移到最新版本",
				Flags:  []cli.Flag{stepsFlag},
				Action: run(database.Up),
			},
			{
				Name:   "down",
				Usage:  "回滚迁移",
				Flags:  []cli.Flag{stepsFlag},
				Action: run(database.Down),
			},
			{
				Name:  "version",
				Usage: "查看当前版本",
				Action: func(c *cli.Context) error {
					version, dirty, err := database.Version(config.Get().Database)
					if err != nil {
						return err
					}
					fmt.Printf("version %d, dirty %v\n", version, dirty)
					return nil
				},
			},
		},
	}
}

func openDB() (*gorm.DB, error) {
	cfg := config.Get()
	return database.Open(cfg.Database, cfg.Mode)
}

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "导出数据",
		Subcommands: []*cli.Command{
			{
				Name:  "resumes",
				Usage: "导出简历到 xlsx",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "输出文件"},
					&cli.IntFlag{Name: "year", Usage: "提交年份"},
					&cli.StringFlag{Name: "status", Usage: "审核状态"},
				},
				Action: func(c *cli.Context) error {
					db, err := openDB()
					if err != nil {
						return err
					}
					data, err := recruit.ExportResumes(c.Context, db, recruit.ListFilter{
						Year:   c.Int("year"),
						Status: c.String("status"),
					})
					if err != nil {
						return err
					}
					out := c.String("out")
					if out == "" {
						out = fmt.Sprintf("resumes_%s.xlsx", time.Now().Format("20060102150405"))
					}
					if err := os.WriteFile(out, data, 0o644); err != nil {
						return err
					}
					fmt.Printf("exported to %s\n", out)
					return nil
				},
			},
		},
	}
}

func recruitCommand() *cli.Command {
	return &cli.Command{
		Name:  "recruit",
		Usage: "招新配置",
		Subcommands: []*cli.Command{
			{
				Name:  "sync",
				Usage: "按自动开关立即同步一次招新状态",
				Action: func(c *cli.Context) error {
					db, err := openDB()
					if err != nil {
						return err
					}
					if err := redis.Init(); err != nil {
						return err
					}
					defer redis.Close()

					changed, err := recruit.SyncSettings(c.Context, db, redis.Client, time.Now())
					if err != nil {
						return err
					}
					fmt.Printf("changed: %v\n", changed)
					return nil
				},
			},
		},
	}
}
