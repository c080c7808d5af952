// Copyright (c) TokenFlow Authors.
// Licensed under the MIT License.

/*
Package gpt4 提供与 cl100k_base 兼容的预训练分词器。

# 概述

gpt4 在 tokenizer.Regex 之上加载外部 rank 表（tiktoken 格式），从中
恢复有序合并规则与字节置换，得到一个只读的预训练分词器。它不支持
训练：词表完全由外部 rank 表决定。

# 核心类型

  - RankTable — token 字节串到 rank 的映射（tiktoken .tiktoken 格式）
  - Tokenizer — 预训练分词器，编码走正向字节置换，解码走逆置换

# 主要能力

  - ParseRanks / RecoverMerges — 解析 rank 表并恢复合并规则
  - NewCL100kBase — 离线加载 cl100k_base（含 GPT-4 特殊词元）
  - 字节置换双射校验，失败返回 PERMUTATION_MISMATCH

# 使用示例

	tok, err := gpt4.NewCL100kBase()
	if err != nil {
		log.Fatal(err)
	}
	ids, _ := tok.Encode("hello world")
	text, _ := tok.Decode(ids)
*/
package gpt4
