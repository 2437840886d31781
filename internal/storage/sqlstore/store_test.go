package sqlstore

import "testing"

func TestRebind(t *testing.T) {
	tests := []struct {
		name    string
		dialect Dialect
		query   string
		want    string
	}{
		{"sqlite untouched", SQLite, "SELECT * FROM events WHERE ts >= ? AND ts < ?", "SELECT * FROM events WHERE ts >= ? AND ts < ?"},
		{"postgres numbered", Postgres, "SELECT * FROM events WHERE ts >= ? AND ts < ?", "SELECT * FROM events WHERE ts >= $1 AND ts < $2"},
		{"postgres no args", Postgres, "SELECT 1", "SELECT 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.dialect.Rebind(tt.query); got != tt.want {
				t.Errorf("Rebind() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRunInTxWithoutDatabase(t *testing.T) {
	s := New(nil, SQLite, "", nil)
	if err := s.RunInTx(nil); err == nil {
		t.Error("RunInTx() without a database should fail")
	}
}
