package storages

import (
	"testing"
	"time"
)

func TestSubscriptionIsValid(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(24 * time.Hour)
	past := now.Add(-24 * time.Hour)

	cases := []struct {
		name string
		sub  Subscription
		want bool
	}{
		{
			name: "free plan is always valid",
			sub:  Subscription{Plan: PlanFree},
			want: true,
		},
		{
			name: "free plan valid even when inactive",
			sub:  Subscription{Plan: PlanFree, IsActive: false},
			want: true,
		},
		{
			name: "active paid plan before expiry",
			sub:  Subscription{Plan: PlanPremium, IsActive: true, ExpiresAt: &future},
			want: true,
		},
		{
			name: "active paid plan past expiry",
			sub:  Subscription{Plan: PlanPremium, IsActive: true, ExpiresAt: &past},
			want: false,
		},
		{
			name: "inactive paid plan before expiry",
			sub:  Subscription{Plan: PlanBasic, IsActive: false, ExpiresAt: &future},
			want: false,
		},
		{
			name: "paid plan without expiry",
			sub:  Subscription{Plan: PlanEnterprise, IsActive: true},
			want: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.sub.IsValid(now); got != tc.want {
				t.Errorf("IsValid() = %v, want %v", got, tc.want)
			}
		})
	}
}
