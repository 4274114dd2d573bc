package csvimport_test

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Maxx-Protein/compliance-companion/internal/csvimport"
	"github.com/Maxx-Protein/compliance-companion/internal/domain"
)

func readAll(t *testing.T, r *csvimport.Reader) []csvimport.Row {
	t.Helper()
	var rows []csvimport.Row
	for {
		row, err := r.Next()
		if err == io.EOF {
			return rows
		}
		require.NoError(t, err)
		rows = append(rows, row)
	}
}

func TestNewReader_HeaderNormalised(t *testing.T) {
	input := "\xEF\xBB\xBFProduct_Name, HSN_Code ,GST_RATE\nWhey,2106,18%\n"

	r, err := csvimport.NewReader(strings.NewReader(input), "product_name", "hsn_code", "gst_rate")
	require.NoError(t, err)

	rows := readAll(t, r)
	require.Len(t, rows, 1)
	assert.Equal(t, "Whey", rows[0].Get("product_name"))
	assert.Equal(t, "2106", rows[0].Get("hsn_code"))
	assert.Equal(t, "18%", rows[0].Get("gst_rate"))
	assert.Equal(t, 2, rows[0].Line)
}

func TestNewReader_MissingColumns(t *testing.T) {
	_, err := csvimport.NewReader(strings.NewReader("product_name\nWhey\n"),
		"product_name", "hsn_code", "gst_rate")

	require.ErrorIs(t, err, domain.ErrMissingColumns)
	assert.Contains(t, err.Error(), "hsn_code, gst_rate")
}

func TestNewReader_Empty(t *testing.T) {
	_, err := csvimport.NewReader(strings.NewReader(""))
	assert.ErrorIs(t, err, domain.ErrEmptyCSV)
}

func TestReader_SkipsBlankRowsAndTracksLines(t *testing.T) {
	input := "name,amount\na,1\n,\n\nb,2\n"

	r, err := csvimport.NewReader(strings.NewReader(input), "name")
	require.NoError(t, err)

	rows := readAll(t, r)
	require.Len(t, rows, 2)
	assert.Equal(t, "a", rows[0].Get("name"))
	assert.Equal(t, 2, rows[0].Line)
	assert.Equal(t, "b", rows[1].Get("name"))
	assert.Equal(t, 5, rows[1].Line)
}

func TestReader_ShortRecords(t *testing.T) {
	r, err := csvimport.NewReader(strings.NewReader("name,amount,notes\nonly-name\n"))
	require.NoError(t, err)

	rows := readAll(t, r)
	require.Len(t, rows, 1)
	assert.Equal(t, "only-name", rows[0].Get("name"))
	assert.Equal(t, "", rows[0].Get("notes"))
}

func TestRow_Float(t *testing.T) {
	r, err := csvimport.NewReader(strings.NewReader("a,b,c\n\"1,250.50\",,abc\n"))
	require.NoError(t, err)
	rows := readAll(t, r)
	require.Len(t, rows, 1)

	v, ok, err := rows[0].Float("a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1250.5, v)

	_, ok, err = rows[0].Float("b")
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = rows[0].Float("c")
	assert.Error(t, err)
}

func TestRow_Bool(t *testing.T) {
	r, err := csvimport.NewReader(strings.NewReader("v\ntrue\nTRUE\nyes\n1\nfalse\nno\n"))
	require.NoError(t, err)

	var got []bool
	for _, row := range readAll(t, r) {
		got = append(got, row.Bool("v"))
	}
	assert.Equal(t, []bool{true, true, true, true, false, false}, got)
}

func TestReader_MalformedRow(t *testing.T) {
	r, err := csvimport.NewReader(strings.NewReader("name\n\"unterminated\n"))
	require.NoError(t, err)

	_, err = r.Next()
	assert.ErrorIs(t, err, domain.ErrMalformedCSV)
}
