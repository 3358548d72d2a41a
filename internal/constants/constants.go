package constants

// 用户角色常量
const (
	RoleAdmin     = "admin"
	RoleSeller    = "seller"
	RoleAffiliate = "affiliate"
	RoleCustomer  = "customer"
)

// 可注册角色（admin 仅能由管理员创建）
var RegisterableRoles = []string{RoleCustomer, RoleSeller, RoleAffiliate}

// 用户状态常量
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// 商品状态常量
const (
	ProductStatusPending  = "pending"
	ProductStatusActive   = "active"
	ProductStatusRejected = "rejected"
)

// 商品审核标记常量
const (
	ProductApprovalPending  = 0
	ProductApprovalApproved = 1
	ProductApprovalRejected = 2
)

// 订单状态常量
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCanceled   = "canceled"
)

// 推广链接常量
const (
	AffiliateCodeLength            = 8
	AffiliateFallbackCommissionPct = "5.0"
)

// 风险标记状态常量
const (
	FlagStatusOpen      = "open"
	FlagStatusResolved  = "resolved"
	FlagStatusDismissed = "dismissed"
)

// 风险标记严重程度常量
const (
	FlagSeverityLow    = "low"
	FlagSeverityMedium = "medium"
	FlagSeverityHigh   = "high"
)

// 验证码提供方常量
const (
	CaptchaProviderNone  = "none"
	CaptchaProviderImage = "image"
)

// 验证码校验场景常量
const (
	CaptchaSceneLogin    = "login"
	CaptchaSceneRegister = "register"
)

// 邮件令牌用途常量
const (
	EmailTokenPurposeVerify = "verify_email"
	EmailTokenPurposeReset  = "reset_password"
)

// 队列常量
const (
	QueueDefault           = "default"
	TaskEmailVerify        = "email:verify"
	TaskEmailPasswordReset = "email:password_reset"
	TaskEmailOrderCreated  = "email:order_created"
)

// 缓存默认配置常量
const (
	RedisPrefixDefault = "jishi"
)
