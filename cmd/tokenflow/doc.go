// Copyright (c) TokenFlow Authors.
// Licensed under the MIT License.

/*
tokenflow 是 BPE 分词器的命令行入口。

# 使用方法

	tokenflow train --input corpus.txt            # 训练并保存模型
	tokenflow train --config tokenflow.yaml ...   # 指定配置文件
	tokenflow encode --model m.model --text "hi"  # 文本编码为词元 ID
	tokenflow decode --model m.model 258 100 258  # 词元 ID 解码为文本
	tokenflow version                             # 显示版本信息
*/
package main
