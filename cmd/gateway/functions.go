package main

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/weisyn/contract-gateway/internal/app"
	contractconfig "github.com/weisyn/contract-gateway/internal/config/contract"
	"github.com/weisyn/contract-gateway/internal/core/contract"
	contractiface "github.com/weisyn/contract-gateway/pkg/interfaces/contract"
	"github.com/weisyn/contract-gateway/pkg/types"
)

var abiPath string

// functionsCmd 离线列出ABI中的函数，不连接节点
var functionsCmd = &cobra.Command{
	Use:   "functions",
	Short: "列出合约ABI中可调用的函数",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := append(appOptions(), app.WithSecretReader(nil))
		appConfig, err := app.LoadAppConfig(opts...)
		if err != nil {
			return err
		}
		if abiPath != "" {
			appConfig.Contract.ABIPath = types.StringPtr(abiPath)
		}

		contractOptions := contractconfig.New(appConfig.Contract).GetOptions()
		parsed, err := contract.LoadABI(contractOptions)
		if err != nil {
			return fmt.Errorf("加载ABI失败: %w", err)
		}

		source := contractOptions.ABIPath
		if contractOptions.UsesEmbeddedABI() {
			source = "内置ABI"
		}
		pterm.DefaultSection.Println("合约函数 (" + source + ")")

		return pterm.DefaultTable.WithHasHeader(true).WithData(functionTable(contract.DescribeABI(parsed))).Render()
	},
}

// functionTable 生成函数表格数据
func functionTable(infos []contractiface.FunctionInfo) [][]string {
	data := [][]string{{"签名", "类型", "返回值"}}
	for _, info := range infos {
		kind := "读取"
		if info.Mutating {
			kind = "交易"
		}
		outputs := make([]string, 0, len(info.Outputs))
		for _, out := range info.Outputs {
			outputs = append(outputs, out.Type)
		}
		data = append(data, []string{
			info.Signature,
			fmt.Sprintf("%s (%s)", kind, info.StateMutability),
			strings.Join(outputs, ", "),
		})
	}
	return data
}

func init() {
	functionsCmd.Flags().StringVar(&abiPath, "abi", "", "ABI文件路径 (覆盖 CONTRACT_ABI_PATH)")
}
