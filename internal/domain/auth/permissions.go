package auth

import (
	"context"
	"slices"
)

const (
	RoleEmployee = "Employee"
	RoleManager  = "Manager"
	RoleHR       = "HR"
	RoleFinance  = "Finance"
)

const (
	PermFinancialCalculate = "financial.calculate"
	PermFinancialRates     = "financial.rates.read"
	PermFinancialExport    = "financial.export"
)

var RolePermissions = map[string][]string{
	RoleEmployee: {
		PermFinancialRates,
	},
	RoleManager: {
		PermFinancialRates,
		PermFinancialCalculate,
	},
	RoleHR: {
		PermFinancialRates,
		PermFinancialCalculate,
		PermFinancialExport,
	},
	RoleFinance: {
		PermFinancialRates,
		PermFinancialCalculate,
		PermFinancialExport,
	},
}

// StaticPermissions resolves permissions from RolePermissions by role name.
type StaticPermissions struct{}

func (StaticPermissions) HasPermission(_ context.Context, role, permission string) (bool, error) {
	return slices.Contains(RolePermissions[role], permission), nil
}
