// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema names the tables and columns created by the migrations so
// stores never spell identifiers by hand.
package schema

import "strings"

// DashboardAccountTable represents the 'dashboard.account' table.
type DashboardAccountTable struct {
	Table       string
	ID          string
	Username    string
	Email       string
	Password    string
	DisplayName string
	CreatedAt   string
}

// DashboardAccount is the schema definition for dashboard.account.
var DashboardAccount = DashboardAccountTable{
	Table:       "dashboard.account",
	ID:          "id",
	Username:    "username",
	Email:       "email",
	Password:    "passwordhash",
	DisplayName: "displayname",
	CreatedAt:   "createdat",
}

// Columns returns all column names in scan order.
func (t DashboardAccountTable) Columns() []string {
	return []string{t.ID, t.Username, t.Email, t.Password, t.DisplayName, t.CreatedAt}
}

// ColumnList returns [DashboardAccountTable.Columns] joined for a SELECT or INSERT.
func (t DashboardAccountTable) ColumnList() string {
	return strings.Join(t.Columns(), ", ")
}
