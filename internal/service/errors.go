package service

import "errors"

// 服务层哨兵错误，handler 通过 errors.Is 映射为响应码
var (
	ErrNotFound           = errors.New("记录不存在")
	ErrInvalidEmail       = errors.New("邮箱格式无效")
	ErrEmailExists        = errors.New("邮箱已被注册")
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
	ErrInvalidPassword    = errors.New("原密码错误")
	ErrWeakPassword       = errors.New("密码强度不足")
	ErrUserDisabled       = errors.New("账号已被禁用")
	ErrEmailNotVerified   = errors.New("邮箱未验证")
	ErrInvalidRole        = errors.New("角色无效")
	ErrRoleImmutable      = errors.New("角色不允许修改")
	ErrTokenInvalid       = errors.New("令牌无效或已过期")

	ErrCaptchaRequired = errors.New("需要验证码")
	ErrCaptchaInvalid  = errors.New("验证码错误")

	ErrProfileMissing          = errors.New("角色档案不存在")
	ErrSellerProfileMissing    = errors.New("卖家档案不存在")
	ErrAffiliateProfileMissing = errors.New("推广档案不存在")

	ErrCategoryNotFound = errors.New("分类不存在")
	ErrCategoryInUse    = errors.New("分类下仍有商品")
	ErrSlugExists       = errors.New("slug 已存在")

	ErrProductNotFound     = errors.New("商品不存在")
	ErrProductUnavailable  = errors.New("商品不可购买")
	ErrProductNameRequired = errors.New("商品名称不能为空")
	ErrInvalidPrice        = errors.New("价格必须大于 0")
	ErrNotProductOwner     = errors.New("无权操作该商品")
	ErrProductNotPending   = errors.New("商品不在待审核状态")

	ErrCartEmpty       = errors.New("购物车为空")
	ErrInvalidQuantity = errors.New("数量无效")

	ErrInsufficientStock  = errors.New("库存不足")
	ErrOrderNotFound      = errors.New("订单不存在")
	ErrOrderNotCancelable = errors.New("当前状态不允许取消")
	ErrInvalidTransition  = errors.New("订单状态流转无效")
	ErrNotOrderOwner      = errors.New("无权操作该订单")

	ErrAffiliateCodeInvalid = errors.New("追踪码无效")

	ErrEmailServiceNotConfigured = errors.New("邮件服务未配置")
	ErrTooManyRequests           = errors.New("请求过于频繁")
	ErrFlagNotFound              = errors.New("风险标记不存在")
	ErrFlagClosed                = errors.New("风险标记已处理")
)
