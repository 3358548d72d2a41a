package authz

import (
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAuthzServiceTest(t *testing.T) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	svc, err := NewService(db)
	if err != nil {
		t.Fatalf("new authz service failed: %v", err)
	}
	return svc
}

func TestEnforceRoleWithPolicy(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.GrantRolePolicy("seller", "/seller/products/:id", "GET"); err != nil {
		t.Fatalf("grant role policy failed: %v", err)
	}

	allow, err := svc.EnforceRole("seller", "/api/seller/products/42", "get")
	if err != nil {
		t.Fatalf("enforce allow failed: %v", err)
	}
	if !allow {
		t.Fatalf("expected allow=true")
	}

	allow, err = svc.EnforceRole("seller", "/api/seller/products/42", "POST")
	if err != nil {
		t.Fatalf("enforce deny failed: %v", err)
	}
	if allow {
		t.Fatalf("expected allow=false")
	}

	allow, err = svc.EnforceRole("customer", "/api/seller/products/42", "GET")
	if err != nil {
		t.Fatalf("enforce other role failed: %v", err)
	}
	if allow {
		t.Fatalf("expected other role denied")
	}
}

func TestNormalizeObject(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: "/api/admin/orders/:id", want: "/admin/orders/:id"},
		{in: "/admin/orders/:id", want: "/admin/orders/:id"},
		{in: "admin/orders", want: "/admin/orders"},
		{in: "/api", want: "/"},
		{in: "", want: "/"},
	}
	for _, item := range cases {
		got := NormalizeObject(item.in)
		if got != item.want {
			t.Fatalf("normalize object failed, in=%q want=%q got=%q", item.in, item.want, got)
		}
	}
}

func TestBootstrapBuiltinRoles(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap builtin roles failed: %v", err)
	}

	cases := []struct {
		role   string
		object string
		action string
		want   bool
	}{
		{role: "customer", object: "/api/cart", action: "GET", want: true},
		{role: "customer", object: "/api/orders/42/cancel", action: "PUT", want: true},
		{role: "customer", object: "/api/seller/dashboard", action: "GET", want: false},
		{role: "customer", object: "/api/admin/users", action: "GET", want: false},
		{role: "seller", object: "/api/seller/products", action: "POST", want: true},
		{role: "seller", object: "/api/cart", action: "POST", want: true},
		{role: "seller", object: "/api/affiliate/links", action: "POST", want: false},
		{role: "affiliate", object: "/api/affiliate/dashboard-stats", action: "GET", want: true},
		{role: "affiliate", object: "/api/admin/flags", action: "GET", want: false},
		{role: "admin", object: "/api/products/7/approve", action: "POST", want: true},
		{role: "admin", object: "/api/products/7/reject", action: "POST", want: true},
		{role: "customer", object: "/api/products/7/approve", action: "POST", want: false},
		{role: "seller", object: "/api/products/7/approve", action: "POST", want: false},
		{role: "admin", object: "/api/seller/dashboard", action: "GET", want: true},
	}
	for _, item := range cases {
		allow, err := svc.EnforceRole(item.role, item.object, item.action)
		if err != nil {
			t.Fatalf("enforce failed, role=%s object=%s: %v", item.role, item.object, err)
		}
		if allow != item.want {
			t.Fatalf("enforce role=%s object=%s action=%s want=%v got=%v", item.role, item.object, item.action, item.want, allow)
		}
	}
}
