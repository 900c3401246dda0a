package rowsource

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, src Source) []Row {
	t.Helper()
	var out []Row
	for {
		row, err := src.Next()
		if errors.Is(err, io.EOF) {
			return out
		}
		require.NoError(t, err)
		out = append(out, row)
	}
}

func TestCSV_RowsKeyedByHeaderInFileOrder(t *testing.T) {
	t.Parallel()

	in := "\ufeff" + "membership_number, first_name ,last_name\n" +
		"12345,Julia,Roberts\n" +
		"\n" +
		"54321,Kevin,\"Bacon, Jr\"\n"
	src, err := NewCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Equal(t, []string{"membership_number", "first_name", "last_name"}, src.Header())

	rows := readAll(t, src)
	require.Len(t, rows, 2)

	require.Equal(t, 1, rows[0].Number)
	require.Equal(t, 2, rows[0].Line)
	require.Equal(t, map[string]string{
		"membership_number": "12345",
		"first_name":        "Julia",
		"last_name":         "Roberts",
	}, rows[0].Fields)

	require.Equal(t, 2, rows[1].Number)
	require.Equal(t, 4, rows[1].Line)
	require.Equal(t, "Bacon, Jr", rows[1].Fields["last_name"])
}

func TestCSV_ShortAndLongRows(t *testing.T) {
	t.Parallel()

	src, err := NewCSV(strings.NewReader("a,b,c\n1,2\n1,2,3,4\n"))
	require.NoError(t, err)

	rows := readAll(t, src)
	require.Len(t, rows, 2)

	_, ok := rows[0].Fields["c"]
	require.False(t, ok, "short row must not invent trailing columns")
	require.Equal(t, map[string]string{"a": "1", "b": "2", "c": "3"}, rows[1].Fields)
}

func TestCSV_EmptyInput(t *testing.T) {
	t.Parallel()

	_, err := NewCSV(strings.NewReader(""))
	require.ErrorIs(t, err, ErrNoHeader)
}

func TestCSV_MalformedQuoting(t *testing.T) {
	t.Parallel()

	src, err := NewCSV(strings.NewReader("a,b\n\"unterminated,2\n"))
	require.NoError(t, err)

	_, err = src.Next()
	require.Error(t, err)
	require.NotErrorIs(t, err, io.EOF)
}

func TestDetect(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name, file, contentType string
		want                    Format
	}{
		{"csv default", "export.csv", "text/csv", FormatCSV},
		{"no hints", "", "", FormatCSV},
		{"xlsx extension", "Export.XLSX", "", FormatXLSX},
		{"xlsx mime", "", xlsxContentType + "; charset=binary", FormatXLSX},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, Detect(tc.file, tc.contentType))
		})
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	f, err := ParseFormat(" XLSX ")
	require.NoError(t, err)
	require.Equal(t, FormatXLSX, f)

	_, err = ParseFormat("ods")
	require.Error(t, err)
}
