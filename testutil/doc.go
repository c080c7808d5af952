/*
Package testutil 提供各包测试共享的语料与特殊词元夹具，
避免在多个 _test.go 中重复定义相同的测试数据。
*/
package testutil
