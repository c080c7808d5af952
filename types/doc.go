// Copyright (c) TokenFlow Authors.
// Licensed under the MIT License.

/*
Package types 提供 TokenFlow 的全局共享类型定义。

# 概述

types 是最底层的公共包，不依赖任何内部包，为 bpe、tokenizer、gpt4、
config 等上层模块提供统一的类型契约。所有跨包共享的类型、常量和
错误码均定义于此，以避免循环依赖。

# 核心类型

  - Token             — 词元 ID（0-255 为原始字节，256 起为合并词元）
  - Error / ErrorCode — 结构化错误体系，含错误码与底层原因链

# 主要能力

  - 错误工具链：AsError / IsErrorCode / GetErrorCode
  - 常用错误构造：NewError / Errorf / WithCause
*/
package types
