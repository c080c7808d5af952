// Copyright (c) TokenFlow Authors.
// Licensed under the MIT License.

/*
Package config 提供 TokenFlow 的统一配置加载。

# 概述

配置来源按优先级合并：默认值 → YAML 文件 → 环境变量。加载器采用
Builder 模式，环境变量通过 env tag 反射注入，前缀默认为 TOKENFLOW。

# 使用示例

	cfg, err := config.NewLoader().
	    WithConfigPath("tokenflow.yaml").
	    WithEnvPrefix("TOKENFLOW").
	    Load()

# 配置段

  - train — 训练参数（变体、目标词表大小、切分模式、特殊词元）
  - log   — 日志参数（级别、格式、输出路径）
*/
package config
