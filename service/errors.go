package service

import "errors"

// 业务错误，调用方用 errors.Is 判断
var (
	// ErrStoreUnavailable 存储读取失败，缓存保持上一次成功的状态
	ErrStoreUnavailable = errors.New("存储不可用")
	// ErrPersist 存储写入失败
	ErrPersist = errors.New("保存失败")
	// ErrNotFound 记录不存在
	ErrNotFound = errors.New("记录不存在")
	// ErrInvalidCredentials 用户名或密码错误
	ErrInvalidCredentials = errors.New("用户名或密码错误")
	// ErrProtectedEntity 受保护的用户不可删除或修改
	ErrProtectedEntity = errors.New("受保护的用户")
	// ErrInvalidOperand 支出金额为 0，无法计算收益率
	ErrInvalidOperand = errors.New("支出金额为0，无法计算收益率")
	// ErrInvalidTransaction 交易数据不合法
	ErrInvalidTransaction = errors.New("交易数据不合法")
	// ErrLinkConflict 支出已被其他收入关联
	ErrLinkConflict = errors.New("支出已被其他收入关联")
	// ErrNotLinked 支出尚未关联收入
	ErrNotLinked = errors.New("支出尚未关联收入")
	// ErrDuplicateUsername 用户名已存在
	ErrDuplicateUsername = errors.New("用户名已存在")
)

var (
	// ErrInvalidDateRange 日期区间不合法
	ErrInvalidDateRange = errors.New("日期区间不合法")
	// ErrInvalidUser 用户数据不合法
	ErrInvalidUser = errors.New("用户数据不合法")
	// ErrInvalidSpreadsheet 表格无法解析
	ErrInvalidSpreadsheet = errors.New("表格文件无法解析")
)
