package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/term"

	"github.com/weisyn/contract-gateway/pkg/types"
)

// 环境变量名
const (
	EnvRPCURL          = "RPC_URL"
	EnvPrivateKey      = "PRIVATE_KEY"
	EnvContractAddress = "CONTRACT_ADDRESS"
	EnvPort            = "PORT"
	EnvHost            = "HOST"
	EnvABIPath         = "CONTRACT_ABI_PATH"
	EnvLogLevel        = "LOG_LEVEL"
	EnvLogFile         = "LOG_FILE"
	EnvRateLimitRPS    = "RATE_LIMIT_RPS"
	EnvRateLimitBurst  = "RATE_LIMIT_BURST"
)

// defaultEnvFile 未指定 --env-file 时尝试加载的文件
const defaultEnvFile = ".env"

// LoadAppConfig 按优先级组装应用配置
//
// 优先级（高 → 低）：
//  1. 进程环境变量
//  2. .env 文件
//  3. JSON配置文件
//  4. 内置默认值（由 internal/config 各子模块应用）
//
// 三者都没有提供私钥且标准输入是终端时，交互式读取私钥。
func LoadAppConfig(opts ...Option) (*types.AppConfig, error) {
	return newOptions(opts...).load()
}

func (o *options) load() (*types.AppConfig, error) {
	if o.appConfig != nil {
		return o.appConfig, nil
	}

	appConfig := &types.AppConfig{}
	if o.configFilePath != "" {
		data, err := os.ReadFile(o.configFilePath)
		if err != nil {
			return nil, fmt.Errorf("读取配置文件 %s 失败: %w", o.configFilePath, err)
		}
		if err := json.Unmarshal(data, appConfig); err != nil {
			return nil, fmt.Errorf("解析配置文件 %s 失败: %w", o.configFilePath, err)
		}
	}

	fileEnv, err := o.readEnvFile()
	if err != nil {
		return nil, err
	}

	// 进程环境变量优先于 .env，不回写进程环境
	lookup := func(key string) (string, bool) {
		if v, ok := o.lookupEnv(key); ok {
			return v, true
		}
		v, ok := fileEnv[key]
		return v, ok
	}

	if err := applyEnv(appConfig, lookup); err != nil {
		return nil, err
	}

	if err := o.promptPrivateKey(appConfig); err != nil {
		return nil, err
	}

	return appConfig, nil
}

// readEnvFile 读取 .env 文件
// 显式指定的文件不存在时报错；默认文件不存在时忽略
func (o *options) readEnvFile() (map[string]string, error) {
	path := o.envFilePath
	explicit := path != ""
	if !explicit {
		path = defaultEnvFile
	}

	values, err := godotenv.Read(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("加载环境文件 %s 失败: %w", path, err)
	}
	return values, nil
}

// applyEnv 用环境变量覆盖配置
// 空字符串视为未设置
func applyEnv(appConfig *types.AppConfig, lookup func(string) (string, bool)) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		if !ok {
			return "", false
		}
		v = strings.TrimSpace(v)
		return v, v != ""
	}

	contract := appConfig.Contract
	if contract == nil {
		contract = &types.UserContractConfig{}
	}
	if v, ok := get(EnvRPCURL); ok {
		contract.RPCURL = types.StringPtr(v)
	}
	if v, ok := get(EnvPrivateKey); ok {
		contract.PrivateKey = types.StringPtr(v)
	}
	if v, ok := get(EnvContractAddress); ok {
		contract.Address = types.StringPtr(v)
	}
	if v, ok := get(EnvABIPath); ok {
		contract.ABIPath = types.StringPtr(v)
	}
	appConfig.Contract = contract

	api := appConfig.API
	if api == nil {
		api = &types.UserAPIConfig{}
	}
	if v, ok := get(EnvHost); ok {
		api.HTTPHost = types.StringPtr(v)
	}
	if v, ok := get(EnvPort); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("环境变量 %s 不是有效端口: %q", EnvPort, v)
		}
		api.HTTPPort = types.IntPtr(port)
	}
	if v, ok := get(EnvRateLimitRPS); ok {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("环境变量 %s 不是有效数字: %q", EnvRateLimitRPS, v)
		}
		api.RateLimitRPS = types.Float64Ptr(rps)
	}
	if v, ok := get(EnvRateLimitBurst); ok {
		burst, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("环境变量 %s 不是有效整数: %q", EnvRateLimitBurst, v)
		}
		api.RateLimitBurst = types.IntPtr(burst)
	}
	appConfig.API = api

	logCfg := appConfig.Log
	if logCfg == nil {
		logCfg = &types.UserLogConfig{}
	}
	if v, ok := get(EnvLogLevel); ok {
		logCfg.Level = types.StringPtr(v)
	}
	if v, ok := get(EnvLogFile); ok {
		logCfg.FilePath = types.StringPtr(v)
	}
	appConfig.Log = logCfg

	return nil
}

// promptPrivateKey 私钥缺失时尝试交互式读取
func (o *options) promptPrivateKey(appConfig *types.AppConfig) error {
	if o.secretReader == nil {
		return nil
	}
	if pk := appConfig.Contract.PrivateKey; pk != nil && *pk != "" {
		return nil
	}

	secret, ok, err := o.secretReader("请输入签名私钥 (PRIVATE_KEY): ")
	if err != nil {
		return fmt.Errorf("读取私钥失败: %w", err)
	}
	if !ok {
		return nil
	}
	if secret = strings.TrimSpace(secret); secret != "" {
		appConfig.Contract.PrivateKey = types.StringPtr(secret)
	}
	return nil
}

func lookupProcessEnv(key string) (string, bool) {
	return os.LookupEnv(key)
}

// readSecretFromTerminal 从终端读取私钥，输入不回显
// 标准输入不是终端时（容器、管道）直接跳过
func readSecretFromTerminal(prompt string) (string, bool, error) {
	fd := int(syscall.Stdin)
	if !term.IsTerminal(fd) {
		return "", false, nil
	}

	fmt.Fprint(os.Stderr, prompt)
	secret, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", false, err
	}
	return string(secret), true, nil
}
