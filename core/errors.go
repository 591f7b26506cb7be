package core

import (
	"errors"
	"fmt"
	"strings"
)

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和消息（Message）
//   - 支持错误检查函数（IsXXX），也支持 errors.Is / errors.As
//
// 使用场景：
//   - 查询错误：NOT_FOUND（未知商品 ID）
//   - 训练错误：SCHEMA（缺少必需字段）、EMPTY_CORPUS（语料为空）
//   - 持久化错误：CORRUPT_MODEL（快照结构无效）、UNTRAINED（模型尚未训练）
//   - Store 错误：NOT_FOUND, NOT_SUPPORTED
type DomainError struct {
	Code    string // 错误代码（如 "NOT_FOUND", "SCHEMA"）
	Message string // 错误消息
	Module  string // 模块名称（如 "store", "feature", "recommend"）

	// Missing 仅 SCHEMA 错误使用：缺失的必需字段列表
	Missing []string

	cause error
}

func (e *DomainError) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

// Unwrap 返回底层错误（若有）。
func (e *DomainError) Unwrap() error {
	return e.cause
}

// Is 让 errors.Is 按 Module+Code 匹配，而不是按指针。
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code && (t.Module == "" || e.Module == t.Module)
}

// IsDomainError 检查错误是否为 DomainError 类型
func IsDomainError(err error) bool {
	return GetDomainError(err) != nil
}

// GetDomainError 获取 DomainError，如果不是则返回 nil
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// NewDomainError 创建新的领域错误
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// 错误代码常量
const (
	// 通用错误代码
	ErrorCodeNotFound      = "NOT_FOUND"      // 资源不存在
	ErrorCodeNotSupported  = "NOT_SUPPORTED"  // 操作不支持
	ErrorCodeInvalidInput  = "INVALID_INPUT"  // 输入无效
	ErrorCodeInternalError = "INTERNAL_ERROR" // 内部错误

	// 相似度引擎错误代码
	ErrorCodeSchema       = "SCHEMA"        // 训练目录缺少必需字段
	ErrorCodeEmptyCorpus  = "EMPTY_CORPUS"  // 训练时没有可用文档
	ErrorCodeCorruptModel = "CORRUPT_MODEL" // 快照结构校验失败
	ErrorCodeUntrained    = "UNTRAINED"     // 模型尚未训练
)

// 模块名称常量
const (
	ModuleStore      = "store"      // 存储模块
	ModuleFeature    = "feature"    // 特征模块
	ModuleSimilarity = "similarity" // 相似度索引模块
	ModuleRecommend  = "recommend"  // 查询模块
	ModuleCheckpoint = "checkpoint" // 持久化模块
)

var (
	// ErrEmptyCorpus 表示训练语料中没有任何非空文档
	ErrEmptyCorpus = NewDomainError(ModuleFeature, ErrorCodeEmptyCorpus, "feature: corpus has no non-empty documents")

	// ErrUntrainedModel 表示在训练之前发起了查询或保存
	ErrUntrainedModel = NewDomainError(ModuleRecommend, ErrorCodeUntrained, "recommend: model has not been trained")
)

// NewNotFoundError 创建未知商品错误
func NewNotFoundError(id int64) *DomainError {
	return NewDomainError(ModuleRecommend, ErrorCodeNotFound, fmt.Sprintf("recommend: product %d not found", id))
}

// NewSchemaError 创建 schema 错误，missing 为缺失字段列表
func NewSchemaError(missing []string) *DomainError {
	err := NewDomainError(ModuleSimilarity, ErrorCodeSchema,
		"similarity: catalog is missing required fields: "+strings.Join(missing, ", "))
	err.Missing = append([]string(nil), missing...)
	return err
}

// NewDuplicateIDError 创建重复商品 ID 错误（IndexMapping 必须是双射）
func NewDuplicateIDError(id int64) *DomainError {
	return NewDomainError(ModuleSimilarity, ErrorCodeSchema, fmt.Sprintf("similarity: duplicate product id %d", id))
}

// NewCorruptModelError 创建快照损坏错误；cause 可为 nil
func NewCorruptModelError(reason string, cause error) *DomainError {
	err := NewDomainError(ModuleCheckpoint, ErrorCodeCorruptModel, "checkpoint: corrupt model: "+reason)
	err.cause = cause
	return err
}

func hasCode(err error, code string) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == code
	}
	return false
}

// IsNotFound 检查错误是否为 NOT_FOUND（任意模块）
func IsNotFound(err error) bool { return hasCode(err, ErrorCodeNotFound) }

// IsNotSupported 检查错误是否为 NOT_SUPPORTED
func IsNotSupported(err error) bool { return hasCode(err, ErrorCodeNotSupported) }

// IsSchema 检查错误是否为 SCHEMA
func IsSchema(err error) bool { return hasCode(err, ErrorCodeSchema) }

// IsEmptyCorpus 检查错误是否为 EMPTY_CORPUS
func IsEmptyCorpus(err error) bool { return hasCode(err, ErrorCodeEmptyCorpus) }

// IsCorruptModel 检查错误是否为 CORRUPT_MODEL
func IsCorruptModel(err error) bool { return hasCode(err, ErrorCodeCorruptModel) }

// IsUntrained 检查错误是否为 UNTRAINED
func IsUntrained(err error) bool { return hasCode(err, ErrorCodeUntrained) }
