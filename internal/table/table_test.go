package table

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rowsOf(t *Table) [][]Value {
	out := make([][]Value, t.NumRows())
	for i := range out {
		out[i] = t.Row(i)
	}
	return out
}

func TestValue(t *testing.T) {
	tests := []struct {
		name    string
		v       Value
		str     string
		isNull  bool
		numeric bool
	}{
		{"zero value is null", Value{}, "", true, false},
		{"text", Text("P12345"), "P12345", false, false},
		{"number", Number(12.5), "12.5", false, true},
		{"integer number", Number(50), "50", false, true},
		{"positive infinity", Number(math.Inf(1)), "+Inf", false, true},
		{"nan", Number(math.NaN()), "NaN", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.str, tt.v.String())
			assert.Equal(t, tt.isNull, tt.v.IsNull())
			_, ok := tt.v.Float()
			assert.Equal(t, tt.numeric, ok)
		})
	}
}

func TestValueKeyDistinguishesKinds(t *testing.T) {
	assert.NotEqual(t, Text("1").key(), Number(1).key())
	assert.NotEqual(t, Text("").key(), Null().key())
	assert.Equal(t, Null().key(), Value{}.key())
	assert.Equal(t, Number(math.NaN()).key(), Number(math.NaN()).key())
}

func TestNew(t *testing.T) {
	_, err := New([]string{"a", "a"}, nil)
	assert.ErrorIs(t, err, ErrDuplicateColumn)

	_, err = New([]string{"a", "b"}, [][]Value{{Text("x")}})
	assert.ErrorIs(t, err, ErrShape)

	src := [][]Value{{Text("x"), Number(1)}}
	tbl, err := New([]string{"a", "b"}, src)
	require.NoError(t, err)
	src[0][0] = Text("mutated")
	v, err := tbl.Value(0, "a")
	require.NoError(t, err)
	assert.Equal(t, Text("x"), v, "New must copy its input")
}

func TestSelectDropRename(t *testing.T) {
	tbl := MustNew([]string{"a", "b", "c"}, [][]Value{
		{Text("1"), Number(2), Null()},
		{Text("4"), Number(5), Number(6)},
	})

	sel, err := tbl.Select("c", "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a"}, sel.Columns())
	assert.Equal(t, [][]Value{{Null(), Text("1")}, {Number(6), Text("4")}}, rowsOf(sel))

	_, err = tbl.Select("missing")
	assert.ErrorIs(t, err, ErrColumnNotFound)
	_, err = tbl.Select("a", "a")
	assert.ErrorIs(t, err, ErrDuplicateColumn)

	dropped, err := tbl.Drop("b")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, dropped.Columns())

	renamed, err := tbl.Rename(map[string]string{"b": "b_run1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b_run1", "c"}, renamed.Columns())
	assert.Equal(t, []string{"a", "b", "c"}, tbl.Columns(), "receiver is unchanged")

	_, err = tbl.Rename(map[string]string{"b": "a"})
	assert.ErrorIs(t, err, ErrDuplicateColumn)
	_, err = tbl.Rename(map[string]string{"zz": "a"})
	assert.ErrorIs(t, err, ErrColumnNotFound)
}

func TestWithColumn(t *testing.T) {
	tbl := MustNew([]string{"a"}, [][]Value{{Number(1)}, {Number(2)}})

	out, err := tbl.WithColumn("b", []Value{Text("x"), Null()})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, out.Columns())
	assert.Equal(t, 1, tbl.NumCols())

	col, err := out.Column("b")
	require.NoError(t, err)
	assert.Equal(t, []Value{Text("x"), Null()}, col)

	_, err = tbl.WithColumn("a", []Value{Null(), Null()})
	assert.ErrorIs(t, err, ErrDuplicateColumn)
	_, err = tbl.WithColumn("b", []Value{Null()})
	assert.ErrorIs(t, err, ErrShape)
}

func TestConcatDistinct(t *testing.T) {
	a := MustNew([]string{"acc", "desc"}, [][]Value{
		{Text("P1"), Text("d1")},
		{Text("P2"), Text("d2")},
	})
	b := MustNew([]string{"acc", "desc"}, [][]Value{
		{Text("P2"), Text("d2")},
		{Text("P3"), Null()},
		{Text("P1"), Text("other")},
	})

	all, err := Concat(a, b)
	require.NoError(t, err)
	assert.Equal(t, 5, all.NumRows())

	uniq := all.Distinct()
	assert.Equal(t, [][]Value{
		{Text("P1"), Text("d1")},
		{Text("P2"), Text("d2")},
		{Text("P3"), Null()},
		{Text("P1"), Text("other")},
	}, rowsOf(uniq))

	_, err = Concat()
	assert.ErrorIs(t, err, ErrShape)
	_, err = Concat(a, MustNew([]string{"desc", "acc"}, nil))
	assert.ErrorIs(t, err, ErrShape)
}

func TestDistinctDoesNotConfuseSeparators(t *testing.T) {
	tbl := MustNew([]string{"x", "y"}, [][]Value{
		{Text("a|tb"), Text("c")},
		{Text("a"), Text("b|tc")},
	})
	assert.Equal(t, 2, tbl.Distinct().NumRows())
}

func TestLeftJoin(t *testing.T) {
	left := MustNew([]string{"acc", "desc"}, [][]Value{
		{Text("P1"), Text("d1")},
		{Text("P2"), Text("d2")},
		{Text("P3"), Text("d3")},
	})
	right := MustNew([]string{"acc", "psm", "mw"}, [][]Value{
		{Text("P2"), Number(10), Number(5)},
		{Text("P1"), Number(50), Number(10)},
		{Text("P2"), Number(11), Number(math.NaN())},
		{Text("P9"), Number(1), Number(1)},
	})

	suffix := func(c string) string {
		if c == "mw" {
			return "mw_run2"
		}
		return c
	}
	got, err := left.LeftJoin(right, "acc", suffix)
	require.NoError(t, err)

	assert.Equal(t, []string{"acc", "desc", "psm", "mw_run2"}, got.Columns())
	want := [][]Value{
		{Text("P1"), Text("d1"), Number(50), Number(10)},
		{Text("P2"), Text("d2"), Number(10), Number(5)},
		{Text("P2"), Text("d2"), Number(11), Number(math.NaN())},
		{Text("P3"), Text("d3"), Null(), Null()},
	}
	if diff := cmp.Diff(want, rowsOf(got), cmpopts.EquateNaNs()); diff != "" {
		t.Errorf("LeftJoin rows mismatch (-want +got):\n%s", diff)
	}
}

func TestLeftJoinErrors(t *testing.T) {
	left := MustNew([]string{"acc", "psm"}, nil)
	right := MustNew([]string{"acc", "psm"}, nil)

	_, err := left.LeftJoin(right, "acc", nil)
	assert.ErrorIs(t, err, ErrDuplicateColumn, "unrenamed collision must not overwrite")

	_, err = left.LeftJoin(MustNew([]string{"id"}, nil), "acc", nil)
	assert.ErrorIs(t, err, ErrColumnNotFound)
	_, err = MustNew([]string{"id"}, nil).LeftJoin(right, "acc", nil)
	assert.ErrorIs(t, err, ErrColumnNotFound)
}

func TestLeftJoinFanOutMultiplies(t *testing.T) {
	left := MustNew([]string{"acc"}, [][]Value{{Text("A")}, {Text("A")}})
	right := MustNew([]string{"acc", "v"}, [][]Value{
		{Text("A"), Number(1)},
		{Text("A"), Number(2)},
		{Text("A"), Number(3)},
	})

	got, err := left.LeftJoin(right, "acc", nil)
	require.NoError(t, err)
	assert.Equal(t, 6, got.NumRows())
}
