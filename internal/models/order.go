package models

import (
	"time"

	"gorm.io/gorm"
)

// Order 订单表（创建后仅 Status 可变）
type Order struct {
	ID              uint           `gorm:"primarykey" json:"id"`                                      // 主键
	OrderNo         string         `gorm:"uniqueIndex;not null" json:"order_no"`                      // 订单编号
	UserID          uint           `gorm:"index;not null" json:"user_id"`                             // 用户ID
	Status          string         `gorm:"index;not null" json:"status"`                              // 订单状态（pending/processing/shipped/delivered/canceled）
	TotalAmount     Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"` // 实付金额（创建时冻结）
	ShippingAddress string         `gorm:"type:varchar(1000)" json:"shipping_address"`                // 收货地址
	BillingAddress  string         `gorm:"type:varchar(1000)" json:"billing_address"`                 // 账单地址
	PaymentMethod   string         `gorm:"type:varchar(50)" json:"payment_method"`                    // 支付方式（仅记录）
	AffiliateCode   string         `gorm:"type:varchar(16);index" json:"affiliate_code,omitempty"`    // 推广码快照（下单时归因）
	CanceledAt      *time.Time     `gorm:"index" json:"canceled_at,omitempty"`                        // 取消时间
	CreatedAt       time.Time      `gorm:"index" json:"created_at"`                                   // 创建时间
	UpdatedAt       time.Time      `gorm:"index" json:"updated_at"`                                   // 更新时间
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`                                            // 软删除时间

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"` // 订单项
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
