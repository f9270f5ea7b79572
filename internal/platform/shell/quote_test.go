package shell

import (
	"context"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuote(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"region=us", "region=us"},
		{"root@10.0.0.1", "root@10.0.0.1"},
		{"[10.0.0.1]:2222", "'[10.0.0.1]:2222'"},
		{"", "''"},
		{"with space", "'with space'"},
		{"it's", `'it'\''s'`},
		{"$(reboot)", "'$(reboot)'"},
		{"a;b", "'a;b'"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Quote(tt.in))
		})
	}
}

func TestQuote_RoundTripsThroughBash(t *testing.T) {
	exec := NewLocal(logr.Discard())

	for _, s := range []string{"note=it's mine", "x=$(whoami)", "tab\there", "a b  c"} {
		res, err := exec.Run(context.Background(), "printf '%s' "+Quote(s))
		require.NoError(t, err)
		assert.Equal(t, s, res.Stdout)
	}
}
