package contract

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	contractconfig "github.com/weisyn/contract-gateway/internal/config/contract"
	contractiface "github.com/weisyn/contract-gateway/pkg/interfaces/contract"
	"github.com/weisyn/contract-gateway/pkg/interfaces/infrastructure/log"
)

// ModuleParams 合约模块依赖
type ModuleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Options    *contractconfig.ContractOptions
	Logger     log.Logger            `optional:"true"`
	Registerer prometheus.Registerer `optional:"true"`
}

// ModuleOutput 合约模块输出
type ModuleOutput struct {
	fx.Out

	Client       contractiface.Client
	Introspector contractiface.Introspector
}

// Module 返回合约客户端模块
//
// 提供：
// - contract.Client: 供HTTP调度器使用
// - contract.Introspector: 供函数列表接口使用
func Module() fx.Option {
	return fx.Module("contract",
		fx.Provide(ProvideClient),
	)
}

// ProvideClient 连接节点并构造合约客户端
// 停止时关闭RPC连接
func ProvideClient(params ModuleParams) (ModuleOutput, error) {
	opts := params.Options
	if opts == nil {
		return ModuleOutput{}, fmt.Errorf("缺少合约配置")
	}

	parsed, err := LoadABI(opts)
	if err != nil {
		return ModuleOutput{}, err
	}

	rpc, auth, err := Dial(context.Background(), opts)
	if err != nil {
		return ModuleOutput{}, err
	}

	address := common.HexToAddress(opts.Address)
	client, err := NewClient(ClientParams{
		Address:  address,
		ABI:      parsed,
		Contract: bind.NewBoundContract(address, parsed, rpc, rpc, rpc),
		Auth:     auth,
		Waiter:   NewBackendWaiter(rpc),
		Logger:   params.Logger,
		Registry: params.Registerer,
	})
	if err != nil {
		rpc.Close()
		return ModuleOutput{}, err
	}

	if params.Logger != nil {
		params.Logger.Infof("合约客户端已就绪: address=%s signer=%s functions=%d",
			address.Hex(), auth.From.Hex(), len(client.Functions()))
	}

	params.Lifecycle.Append(fx.Hook{
		OnStop: func(context.Context) error {
			rpc.Close()
			return nil
		},
	})

	return ModuleOutput{
		Client:       client,
		Introspector: client,
	}, nil
}

// Dial 连接节点并根据链ID创建交易签名配置
// 连接与查询chainId受 DialTimeout 约束
func Dial(ctx context.Context, opts *contractconfig.ContractOptions) (*ethclient.Client, *bind.TransactOpts, error) {
	key, err := crypto.HexToECDSA(opts.PrivateKeyHex())
	if err != nil {
		return nil, nil, fmt.Errorf("解析私钥失败: %w", err)
	}

	if opts.DialTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.DialTimeout)
		defer cancel()
	}

	rpc, err := ethclient.DialContext(ctx, opts.RPCURL)
	if err != nil {
		return nil, nil, fmt.Errorf("连接节点 %s 失败: %w", opts.RPCURL, err)
	}

	chainID, err := rpc.ChainID(ctx)
	if err != nil {
		rpc.Close()
		return nil, nil, fmt.Errorf("查询chainId失败: %w", err)
	}

	auth, err := bind.NewKeyedTransactorWithChainID(key, chainID)
	if err != nil {
		rpc.Close()
		return nil, nil, fmt.Errorf("创建交易签名器失败: %w", err)
	}

	return rpc, auth, nil
}
