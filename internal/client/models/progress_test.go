package models

import (
	"testing"

	"github.com/dmitrijs2005/cardsync/internal/common"
	"github.com/stretchr/testify/require"
)

func TestParseCardStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    CardStatus
		wantErr bool
	}{
		{in: "active", want: StatusActive},
		{in: "unsure", want: StatusUnsure},
		{in: "learned", want: StatusLearned},
		{in: "deleted", want: StatusDeleted},
		{in: "", wantErr: true},
		{in: "Learned", wantErr: true},
		{in: "archived", wantErr: true},
	}

	for _, tc := range tests {
		got, err := ParseCardStatus(tc.in)
		if tc.wantErr {
			require.ErrorIs(t, err, common.ErrorInvalidStatus, "input %q", tc.in)
			continue
		}
		require.NoError(t, err)
		require.Equal(t, tc.want, got)
	}
}

func TestProgressEntry_Newer(t *testing.T) {
	a := ProgressEntry{Status: StatusLearned, UpdatedAt: 200}
	b := ProgressEntry{Status: StatusUnsure, UpdatedAt: 150}

	require.True(t, a.Newer(b))
	require.False(t, b.Newer(a))

	// equal timestamps are not newer: ties go to the compared-against side
	c := ProgressEntry{Status: StatusActive, UpdatedAt: 200}
	require.False(t, a.Newer(c))
}

func TestDefaultEntry(t *testing.T) {
	e := DefaultEntry()
	require.Equal(t, StatusActive, e.Status)
	require.Zero(t, e.UpdatedAt)
}
