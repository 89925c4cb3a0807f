package util

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShortID(t *testing.T) {
	tests := []struct {
		id   string
		n    int
		want string
	}{
		{"task-abcdef12", 0, "task-abc"},
		{"task-abcdef12", 10, "task-abcde"},
		{"task-abcdef12", 13, "task-abcdef12"},
		{"task-ab", 20, "task-ab"},
		{"", 0, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ShortID(tt.id, tt.n), "ShortID(%q, %d)", tt.id, tt.n)
	}
}

type mockFinder struct {
	ids []string
	err error
}

func (m *mockFinder) FindTaskIDsByPrefix(_ context.Context, prefix string) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []string
	for _, id := range m.ids {
		if strings.HasPrefix(id, prefix) {
			out = append(out, id)
		}
	}
	return out, nil
}

func TestResolveTaskID(t *testing.T) {
	finder := &mockFinder{ids: []string{"task-abc12345", "task-abd99999", "task-xyz00000"}}
	ctx := context.Background()

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{"full id", "task-abc12345", "task-abc12345", nil},
		{"unique prefix", "task-xy", "task-xyz00000", nil},
		{"bare prefix", "abc", "task-abc12345", nil},
		{"ambiguous", "ab", "", ErrAmbiguousID},
		{"missing", "zzz", "", ErrNotFound},
		{"empty", "  ", "", ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveTaskID(ctx, finder, tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveTaskID_FinderError(t *testing.T) {
	_, err := ResolveTaskID(context.Background(), &mockFinder{err: errors.New("db closed")}, "abc")
	assert.ErrorContains(t, err, "db closed")
}

func TestResolveID_ExactMatchBeatsLongerIDs(t *testing.T) {
	find := func(_ context.Context, prefix string) ([]string, error) {
		return []string{"session-ab", "session-abc"}, nil
	}
	got, err := ResolveID(context.Background(), find, "session", "ab")
	require.NoError(t, err)
	assert.Equal(t, "session-ab", got)
}

func TestAmbiguousErrorMessage(t *testing.T) {
	var ids []string
	for _, s := range []string{"a1", "a2", "a3", "a4", "a5", "a6", "a7"} {
		ids = append(ids, "task-"+s)
	}
	_, err := ResolveTaskID(context.Background(), &mockFinder{ids: ids}, "a")
	require.ErrorIs(t, err, ErrAmbiguousID)
	assert.Contains(t, err.Error(), "matches 7 tasks")
	assert.NotContains(t, err.Error(), "task-a6")
}
