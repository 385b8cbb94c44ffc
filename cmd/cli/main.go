package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-compass/compass/internal/engine/conf"
	"github.com/go-compass/compass/internal/engine/model"
	"github.com/go-compass/compass/internal/engine/repo"
	"github.com/go-compass/compass/internal/engine/service"
	"github.com/go-compass/compass/pkg/ctx"
	"github.com/go-compass/compass/pkg/database"
	"github.com/go-compass/compass/pkg/log"
	"github.com/go-compass/compass/pkg/version"
	"github.com/spf13/cobra"
)

var (
	configFile string
	importMode string
)

var rootCmd = &cobra.Command{
	Use:   "compass-cli",
	Short: "compass cli is a command line tool for the navigation tree",
	Long:  "compass cli manages the navigation menu tree: export, import, declarative load and level repair",
	Run: func(cmd *cobra.Command, args []string) {
		err := cmd.Help()
		if err != nil {
			return
		}
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the whole menu tree as flat JSON records to stdout",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := buildServices()
		if err != nil {
			return err
		}
		records, err := svc.codec.Export()
		if err != nil {
			return err
		}
		out, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <records.json>",
	Short: "Import flat JSON records into the menu tree",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		var records []model.ExportRecord
		if err := json.Unmarshal(data, &records); err != nil {
			return err
		}

		svc, err := buildServices()
		if err != nil {
			return err
		}
		report, err := svc.codec.Import(records, model.ImportMode(importMode))
		if err != nil {
			return err
		}
		fmt.Printf("imported: %d, updated: %d, failed: %d\n", report.Imported, report.Updated, len(report.Errors))
		for _, e := range report.Errors {
			fmt.Println("  -", e)
		}
		return nil
	},
}

var loadCmd = &cobra.Command{
	Use:   "load <skeleton.json>",
	Short: "Load a declarative nested menu skeleton",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		var defs []model.MenuDef
		if err := json.Unmarshal(data, &defs); err != nil {
			return err
		}

		svc, err := buildServices()
		if err != nil {
			return err
		}
		report, err := svc.loader.Load(defs, model.ImportMode(importMode))
		if err != nil {
			return err
		}
		fmt.Printf("imported: %d, updated: %d, failed: %d\n", report.Imported, report.Updated, len(report.Errors))
		return nil
	},
}

var recalcCmd = &cobra.Command{
	Use:   "recalculate",
	Short: "Recompute every node level from its parent chain",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := buildServices()
		if err != nil {
			return err
		}
		changed, err := svc.hierarchy.RecalculateAllLevels()
		if err != nil {
			return err
		}
		fmt.Printf("levels rewritten: %d\n", changed)
		return nil
	},
}

type cliServices struct {
	hierarchy *service.HierarchyService
	codec     *service.CodecService
	loader    *service.LoaderService
}

func buildServices() (*cliServices, error) {
	appConf := conf.NewConf(configFile)

	logger, err := log.NewLog(&appConf.Log)
	if err != nil {
		return nil, err
	}

	db, err := database.NewDatabase(appConf.Database)
	if err != nil {
		return nil, err
	}
	appCtx := ctx.NewContext(context.Background(), db, logger.Sugar())

	menuRepo := repo.NewMenuRepo(database.NewGormDB(appCtx.MySQLIns))
	hierarchy := service.NewHierarchyService(menuRepo)
	codec := service.NewCodecService(menuRepo, hierarchy)

	return &cliServices{
		hierarchy: hierarchy,
		codec:     codec,
		loader:    service.NewLoaderService(codec),
	}, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "conf", "conf.d/config.toml", "conf file path")
	importCmd.Flags().StringVar(&importMode, "mode", string(model.ImportModeMerge), "import mode: replace or merge")
	loadCmd.Flags().StringVar(&importMode, "mode", string(model.ImportModeMerge), "import mode: replace or merge")

	rootCmd.AddCommand(version.VersionCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(recalcCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		panic(err)
	}
}
