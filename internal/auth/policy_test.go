package auth

import (
	"testing"

	"github.com/parcelhub/parcelhub/internal/models"
)

func TestCanViewPayment(t *testing.T) {
	tests := []struct {
		name      string
		principal Principal
		ownerIDs  []int64
		want      bool
	}{
		{
			name:      "admin sees any owner set",
			principal: Principal{ID: 1, Role: models.RoleAdmin},
			ownerIDs:  []int64{5, 7},
			want:      true,
		},
		{
			name:      "admin sees empty owner set",
			principal: Principal{ID: 1, Role: models.RoleAdmin},
			ownerIDs:  nil,
			want:      true,
		},
		{
			name:      "admin not in owner set still allowed",
			principal: Principal{ID: 99, Role: models.RoleAdmin},
			ownerIDs:  []int64{1, 2, 3},
			want:      true,
		},
		{
			name:      "owner in set allowed",
			principal: Principal{ID: 5, Role: models.RoleParcelOwner},
			ownerIDs:  []int64{5, 7},
			want:      true,
		},
		{
			name:      "owner not in set denied",
			principal: Principal{ID: 3, Role: models.RoleParcelOwner},
			ownerIDs:  []int64{5, 7},
			want:      false,
		},
		{
			name:      "owner requesting own id allowed",
			principal: Principal{ID: 9, Role: models.RoleParcelOwner},
			ownerIDs:  []int64{9},
			want:      true,
		},
		{
			name:      "owner requesting other user denied",
			principal: Principal{ID: 3, Role: models.RoleParcelOwner},
			ownerIDs:  []int64{9},
			want:      false,
		},
		{
			name:      "non-admin with empty owner set denied",
			principal: Principal{ID: 5, Role: models.RoleParcelOwner},
			ownerIDs:  nil,
			want:      false,
		},
		{
			name:      "unknown role treated as non-admin",
			principal: Principal{ID: 5, Role: "visitor"},
			ownerIDs:  []int64{5},
			want:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanViewPayment(tt.principal, tt.ownerIDs); got != tt.want {
				t.Errorf("CanViewPayment(%+v, %v) = %v, want %v", tt.principal, tt.ownerIDs, got, tt.want)
			}
		})
	}
}
