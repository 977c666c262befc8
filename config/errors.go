package config

import "github.com/pkg/errors"

// 配置加载与校验返回的哨兵错误。
var (
	// ErrMissingKey 表示必填键缺失。
	ErrMissingKey = errors.New("缺少必填配置项")

	// ErrInvalidValue 表示键存在但值无法解析。
	ErrInvalidValue = errors.New("配置值无效")

	// ErrInvalidConfig 表示配置整体不满足排版约束。
	ErrInvalidConfig = errors.New("配置不合法")
)
