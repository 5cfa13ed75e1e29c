package ddl

import "testing"

func TestGenerateIndexName(t *testing.T) {
	tests := []struct {
		table   string
		columns []string
		want    string
	}{
		{"users", []string{"email"}, "idx_users_email"},
		{"orders", []string{"user_id", "created_at"}, "idx_orders_user_id_created_at"},
		{"t", nil, "idx_t_"},
	}
	for _, tt := range tests {
		if got := GenerateIndexName(tt.table, tt.columns); got != tt.want {
			t.Errorf("GenerateIndexName(%q, %v) = %q, want %q", tt.table, tt.columns, got, tt.want)
		}
	}
}
