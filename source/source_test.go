package source

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.sr.ht/~whereswaldon/ugraph/series"
)

func TestLoad(t *testing.T) {
	type testcase struct {
		name     string
		input    string
		expected []*series.Series
		err      error
	}
	for _, tc := range []testcase{
		{
			name:  "dense",
			input: "x, cpu, gpu\n0, 1.5, 3\n1, 2, 4\n",
			expected: []*series.Series{
				series.New("cpu", series.Point{X: 0, Y: 1.5}, series.Point{X: 1, Y: 2}),
				series.New("gpu", series.Point{X: 0, Y: 3}, series.Point{X: 1, Y: 4}),
			},
		},
		{
			name:  "sparse and unordered",
			input: "x,a,b\n2,1,\n0,,5\n1,3\n",
			expected: []*series.Series{
				series.New("a", series.Point{X: 1, Y: 3}, series.Point{X: 2, Y: 1}),
				series.New("b", series.Point{X: 0, Y: 5}),
			},
		},
		{
			name:  "bad cells are skipped",
			input: "# comment\nx,a\nnope,1\n1,two\n2,2\n2,3\n",
			expected: []*series.Series{
				series.New("a", series.Point{X: 2, Y: 2}),
			},
		},
		{
			name:  "headings only",
			input: "x,a\n",
			expected: []*series.Series{
				series.New("a"),
			},
		},
		{
			name:  "empty",
			input: "",
			err:   ErrNoSeries,
		},
		{
			name:  "no series",
			input: "x\n1\n",
			err:   ErrNoSeries,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Load(strings.NewReader(tc.input))
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			require.Len(t, got, len(tc.expected))
			for i := range got {
				require.Equal(t, tc.expected[i].Name, got[i].Name)
				require.Equal(t, len(tc.expected[i].Data), len(got[i].Data))
				for j := range got[i].Data {
					require.Equal(t, tc.expected[i].Data[j], got[i].Data[j])
				}
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.csv")
	require.NoError(t, os.WriteFile(path, []byte("x,a\n0,1\n"), 0o644))
	got, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, []series.Point{{X: 0, Y: 1}}, got[0].Data)

	_, err = LoadFile(filepath.Join(dir, "missing.csv"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func receive(t *testing.T, sessions <-chan Session) (Session, bool) {
	t.Helper()
	select {
	case s, ok := <-sessions:
		return s, ok
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a session")
	}
	return Session{}, false
}

func TestFollowReader(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sessions := Follow(ctx, io.NopCloser(strings.NewReader("x,a\n0,1\n1,2\n2,")))
	s, ok := receive(t, sessions)
	require.True(t, ok)
	require.NoError(t, s.Err)
	require.Empty(t, s.Path)
	require.Len(t, s.Series, 1)
	require.Equal(t, []series.Point{{X: 0, Y: 1}, {X: 1, Y: 2}}, s.Series[0].Data, "the partial row is not parsed")

	_, ok = receive(t, sessions)
	require.False(t, ok, "plain readers end at EOF")
}

func TestFollowReaderWithoutSeries(t *testing.T) {
	sessions := Follow(context.Background(), io.NopCloser(strings.NewReader("")))
	s, ok := receive(t, sessions)
	require.True(t, ok)
	require.ErrorIs(t, s.Err, ErrNoSeries)
}

func TestWatch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte("x,a\n0,1\n"), 0o644))

	sessions, err := Watch(ctx, path)
	require.NoError(t, err)
	first, ok := receive(t, sessions)
	require.True(t, ok)
	require.NoError(t, first.Err)
	require.Equal(t, path, first.Path)
	require.Equal(t, []series.Point{{X: 0, Y: 1}}, first.Series[0].Data)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0)
	require.NoError(t, err)
	_, err = f.WriteString("1,2\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	second, ok := receive(t, sessions)
	require.True(t, ok)
	require.Equal(t, []series.Point{{X: 0, Y: 1}, {X: 1, Y: 2}}, second.Series[0].Data)
	require.NotSame(t, first.Series[0], second.Series[0], "snapshots are distinct series")
	require.Len(t, first.Series[0].Data, 1, "earlier snapshots are not modified")

	cancel()
	for range sessions {
	}
}

func TestWatchMissingFile(t *testing.T) {
	_, err := Watch(context.Background(), filepath.Join(t.TempDir(), "missing.csv"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
