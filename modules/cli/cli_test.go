package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCli_ReadTemp(t *testing.T) {
	tests := []struct {
		name    string
		out     string
		err     error
		want    int
		wantErr bool
	}{
		{name: "integer", out: "54", want: 54000},
		{name: "decimal", out: "54.375", want: 54375},
		{name: "unit", out: " 61.5°C", want: 61500},
		{name: "trailing dot", out: "47.", want: 47000},
		{name: "empty", out: "", wantErr: true},
		{name: "garbage", out: "n/a", wantErr: true},
		{name: "command error", err: errors.New("exit status 1"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			c := New("sensors | grep Package")
			c.run = func(cmd string) (string, error) {
				got = cmd
				return tt.out, tt.err
			}

			temp, err := c.ReadTemp()
			assert.Equal(t, "sensors | grep Package", got)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, temp)
		})
	}
}

func TestCli_Name(t *testing.T) {
	assert.Equal(t, "cli", New("true").Name())
}
