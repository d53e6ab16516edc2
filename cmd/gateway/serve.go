package main

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/weisyn/contract-gateway/internal/app"
	"github.com/weisyn/contract-gateway/internal/app/version"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "启动HTTP网关",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	pterm.DefaultSection.Println(version.GetBuildInfo().String())

	gateway, err := app.Start(appOptions()...)
	if err != nil {
		pterm.Error.Println("启动失败")
		return err
	}
	pterm.Success.Println("网关已启动，按 Ctrl+C 停止")

	if err := gateway.Wait(); err != nil {
		return err
	}
	pterm.Info.Println("网关已停止")
	return nil
}
