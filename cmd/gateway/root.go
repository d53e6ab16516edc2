package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/weisyn/contract-gateway/internal/app"
)

// GlobalFlags 全局标志
type GlobalFlags struct {
	ConfigFile string // JSON配置文件
	EnvFile    string // .env 文件
}

var globalFlags GlobalFlags

// rootCmd 根命令，不带子命令时启动服务
var rootCmd = &cobra.Command{
	Use:   "gateway",
	Short: "智能合约HTTP网关",
	Long: `contract-gateway - 通过HTTP调用已部署的智能合约

POST /contract/interact 按函数名调用合约：
- 只读函数直接返回结果
- 状态变更函数签名发送交易，等待打包后返回交易哈希和区块高度

必需的环境变量:
  RPC_URL            节点RPC地址
  PRIVATE_KEY        签名私钥（未设置且在终端中运行时会提示输入）
  CONTRACT_ADDRESS   合约地址

可选的环境变量:
  PORT (默认3000), HOST, CONTRACT_ABI_PATH, LOG_LEVEL, LOG_FILE,
  RATE_LIMIT_RPS, RATE_LIMIT_BURST`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd, args)
	},
}

// Execute 执行根命令
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

// appOptions 根据全局标志生成应用选项
func appOptions() []app.Option {
	var opts []app.Option
	if globalFlags.ConfigFile != "" {
		opts = append(opts, app.WithConfigFile(globalFlags.ConfigFile))
	}
	if globalFlags.EnvFile != "" {
		opts = append(opts, app.WithEnvFile(globalFlags.EnvFile))
	}
	return opts
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&globalFlags.ConfigFile, "config", "c", "", "JSON配置文件路径 (环境变量优先)")
	rootCmd.PersistentFlags().StringVar(&globalFlags.EnvFile, "env-file", "", "环境变量文件 (默认: ./.env，存在时加载)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(functionsCmd)
	rootCmd.AddCommand(versionCmd)
}
