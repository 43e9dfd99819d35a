// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package web

import (
	"strconv"
	"strings"

	"github.com/taibuivan/dashboard/pkg/slice"
)

// Dashboard is the analytics summary shown on the landing page.
type Dashboard struct {
	Transactions []Transaction
	Weekly       []int
	WeeklyGrowth string
}

// Transaction is one row of the Transactions card.
type Transaction struct {
	Label  string
	Source string
	Amount string
}

// WeeklyValues renders the weekly series as the chart's data attribute.
func (dashboard *Dashboard) WeeklyValues() string {
	return strings.Join(slice.Map(dashboard.Weekly, strconv.Itoa), ",")
}

// SampleDashboard returns the demo figures rendered for every visitor.
func SampleDashboard() *Dashboard {
	return &Dashboard{
		Transactions: []Transaction{
			{Label: "Paypal", Source: "Send money", Amount: "+82.6 USD"},
			{Label: "Wallet", Source: "Mac'D", Amount: "+270.69 USD"},
			{Label: "Transfer", Source: "Refund", Amount: "+637.91 USD"},
			{Label: "Credit Card", Source: "Ordered Food", Amount: "-838.71 USD"},
		},
		Weekly:       []int{40, 65, 50, 45, 90, 55, 70},
		WeeklyGrowth: "45%",
	}
}
