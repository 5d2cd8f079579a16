package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Category string

const (
	CategoryLipstick   Category = "Lipstick"
	CategoryBlush      Category = "Blush"
	CategoryFoundation Category = "Foundation"
)

var Categories = []Category{CategoryLipstick, CategoryBlush, CategoryFoundation}

// ParseCategory matches s case-insensitively against the known categories
// and returns the canonical spelling.
func ParseCategory(s string) (Category, bool) {
	s = strings.TrimSpace(s)
	for _, c := range Categories {
		if strings.EqualFold(s, string(c)) {
			return c, true
		}
	}
	return "", false
}

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
)

func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleEmployee:
		return RoleEmployee, true
	}
	return "", false
}

type Product struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Category Category        `json:"category"`
	Shade    string          `json:"shade"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// Value is price times quantity.
func (p Product) Value() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(p.Quantity)))
}

type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Role         Role   `json:"role"`
}

type AuditAction string

const (
	AuditAdded    AuditAction = "ADDED"
	AuditUpdated  AuditAction = "UPDATED"
	AuditDeleted  AuditAction = "DELETED"
	AuditRestored AuditAction = "RESTORED"
)

type AuditEntry struct {
	Timestamp time.Time
	Action    AuditAction
	Product   Product
}
