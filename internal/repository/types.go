package repository

import "time"

// ProductListFilter 查询商品列表的过滤条件
type ProductListFilter struct {
	Page            int
	PageSize        int
	CategoryID      uint
	SellerProfileID uint
	Search          string
	Status          string
	MinPrice        string
	MaxPrice        string
	OnlyPurchasable bool
	WithCategory    bool
	WithImages      bool
	WithSeller      bool
	OrderBy         string
}

// OrderListFilter 查询订单列表的过滤条件
type OrderListFilter struct {
	Page        int
	PageSize    int
	UserID      uint
	Status      string
	OrderNo     string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// UserListFilter 查询用户列表的过滤条件
type UserListFilter struct {
	Page        int
	PageSize    int
	Keyword     string
	Role        string
	Status      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// SellerListFilter 查询卖家列表的过滤条件
type SellerListFilter struct {
	Page         int
	PageSize     int
	Search       string
	VerifiedOnly bool
}

// AffiliateLinkListFilter 查询推广链接列表的过滤条件
type AffiliateLinkListFilter struct {
	Page        int
	PageSize    int
	UserID      uint
	ProductID   uint
	WithProduct bool
}

// FlaggedListFilter 查询风险标记列表的过滤条件
type FlaggedListFilter struct {
	Page       int
	PageSize   int
	EntityType string
	Status     string
	Severity   string
}
