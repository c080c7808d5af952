// Copyright (c) TokenFlow Authors.
// Licensed under the MIT License.

/*
Package tokenizer 提供字节级 BPE 分词器的训练、编码、解码与持久化。

# 概述

tokenizer 在 bpe 包的核心原语之上实现两个可训练变体：

  - Basic — 整个输入作为单一分块，无切分模式、无特殊词元
  - Regex — 按切分模式（regexp2，支持前瞻）分块后独立合并，
    支持特殊词元的原子编码与多种处理策略

GPT-4 兼容变体由 gpt4 包在 Regex 之上组合字节置换实现。

# 核心类型

  - Tokenizer / Trainable — 能力接口（encode / decode / train）
  - SpecialTable          — 有序的特殊词元注册表（标签 ↔ ID）
  - SpecialsPolicy        — 编码时特殊词元处理策略
    （ForbidSpecials / AllowAllSpecials / IgnoreSpecials / AllowSpecials）

# 持久化

Save 写出 <prefix>.model（可重载）与 <prefix>.vocab（只写的人类可读
词表）。Load 按模型文件自动重建对应变体，损坏或版本不符的文件返回
MALFORMED_MODEL 错误。

# 确定性

训练与编码是纯函数：相同输入与目标词表大小产生比特级相同的合并序列。
平局规则被精确固定（训练选数值最小的词元对，编码选创建最早的合并）。
*/
package tokenizer
