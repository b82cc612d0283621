package core

import "errors"

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和消息（Message）
//   - 支持错误检查函数（IsXXX）
//
// 使用场景：
//   - Dataset 错误：VALIDATION_ERROR（缺失/非法特征）
//   - Train 错误：TRAINING_ERROR（样本不足或退化数据）
//   - Predict 错误：SCHEMA_MISMATCH（特征维度不匹配）
//   - Hub 错误：MODEL_NOT_FOUND, DOWNLOAD_ERROR, CACHE_WRITE_ERROR
//   - Store 错误：NOT_FOUND
type DomainError struct {
	Code    string // 错误代码（如 "VALIDATION_ERROR", "MODEL_NOT_FOUND"）
	Message string // 错误消息
	Module  string // 模块名称（如 "dataset", "train", "hub"）

	cause error
}

func (e *DomainError) Error() string {
	return e.Message
}

// Unwrap 返回底层错误（网络/文件系统错误等），支持 errors.Is/As。
func (e *DomainError) Unwrap() error {
	return e.cause
}

// IsDomainError 检查错误是否为 DomainError 类型（支持包装链）
func IsDomainError(err error) bool {
	return GetDomainError(err) != nil
}

// GetDomainError 获取 DomainError，如果不是则返回 nil（支持包装链）
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

// WrapDomainError 创建携带底层原因的领域错误（如网络错误、文件系统错误）。
func WrapDomainError(module, code, message string, cause error) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
		cause:   cause,
	}
}

// 错误代码常量
const (
	// 通用错误代码
	ErrorCodeNotFound     = "NOT_FOUND"     // 资源不存在
	ErrorCodeNotSupported = "NOT_SUPPORTED" // 操作不支持

	// 分类链路错误代码
	ErrorCodeValidation     = "VALIDATION_ERROR" // 输入属性缺失/非法
	ErrorCodeTraining       = "TRAINING_ERROR"   // 训练数据不足或退化
	ErrorCodeSchemaMismatch = "SCHEMA_MISMATCH"  // 特征维度/顺序不匹配
	ErrorCodeModelNotFound  = "MODEL_NOT_FOUND"  // 请求的模型版本不存在
	ErrorCodeDownload       = "DOWNLOAD_ERROR"   // 网络/传输失败
	ErrorCodeCacheWrite     = "CACHE_WRITE_ERROR" // 缓存写入失败
)

// 模块名称常量
const (
	ModuleDataset = "dataset" // 数据集/预处理模块
	ModuleTrain   = "train"   // 训练模块
	ModulePredict = "predict" // 推理模块
	ModuleHub     = "hub"     // 模型加载模块
	ModuleStore   = "store"   // 存储模块
	ModuleConfig  = "config"  // 配置模块
)

// 通用错误检查函数

func is(err error, code string) bool {
	if err == nil {
		return false
	}
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == code
	}
	return false
}

// IsNotFound 检查错误是否为 NOT_FOUND
func IsNotFound(err error) bool {
	return is(err, ErrorCodeNotFound)
}

// IsValidation 检查错误是否为 VALIDATION_ERROR
func IsValidation(err error) bool {
	return is(err, ErrorCodeValidation)
}

// IsTraining 检查错误是否为 TRAINING_ERROR
func IsTraining(err error) bool {
	return is(err, ErrorCodeTraining)
}

// IsSchemaMismatch 检查错误是否为 SCHEMA_MISMATCH
func IsSchemaMismatch(err error) bool {
	return is(err, ErrorCodeSchemaMismatch)
}

// IsModelNotFound 检查错误是否为 MODEL_NOT_FOUND
func IsModelNotFound(err error) bool {
	return is(err, ErrorCodeModelNotFound)
}

// IsDownload 检查错误是否为 DOWNLOAD_ERROR
func IsDownload(err error) bool {
	return is(err, ErrorCodeDownload)
}

// IsCacheWrite 检查错误是否为 CACHE_WRITE_ERROR
func IsCacheWrite(err error) bool {
	return is(err, ErrorCodeCacheWrite)
}
