package service

import "errors"

var (
	// ErrNodeNotFound 目标节点不存在
	ErrNodeNotFound = errors.New("menu node not found")
	// ErrInvalidParent 引用的父节点无法落位（自引用或指向自身子树）
	ErrInvalidParent = errors.New("invalid parent node")
	// ErrLabelRequired 缺少必填的 label
	ErrLabelRequired = errors.New("menu node label is required")
)
