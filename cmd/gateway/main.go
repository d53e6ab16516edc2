// Command gateway 启动合约HTTP网关
//
// 用法:
//
//	gateway                    # 等同于 gateway serve
//	gateway serve --env-file .env.local
//	gateway functions --abi ./artifacts/Storage.json
//	gateway version
package main

func main() {
	Execute()
}
