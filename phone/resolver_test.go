package phone

import (
	"strconv"
	"sync"
	"testing"

	"github.com/nyaruka/phonenumbers"
	"github.com/stretchr/testify/require"
)

func block(prefix uint64) Range {
	start := 995_000_000_000 + prefix*1_000_000
	return Range{Start: start, End: start + 999_999}
}

func testTable() Table {
	return Table{
		{Name: Magti, Ranges: []Range{block(555), block(591)}},
		{Name: Silknet, Ranges: []Range{block(550), block(551)}},
		{Name: Cellfie, Ranges: []Range{block(568), block(571)}},
	}
}

func newTestResolver(t *testing.T, opts ...Option) *Resolver {
	t.Helper()
	r, err := New(testTable(), opts...)
	require.NoError(t, err)
	return r
}

func TestIdentify(t *testing.T) {
	r := newTestResolver(t)

	tests := []struct {
		in   string
		want string
	}{
		{in: "555123456", want: Magti},
		{in: "995555123456", want: Magti},
		{in: "+995 591 000 001", want: Magti},
		{in: "550 00 00 00", want: Silknet},
		{in: "551999999", want: Silknet},
		{in: "568123456", want: Cellfie},
		{in: "571000000", want: Cellfie},
	}
	for _, tt := range tests {
		got, err := r.Identify(tt.in)
		require.NoError(t, err, tt.in)
		require.Equal(t, tt.want, got, tt.in)
	}
}

func TestIdentify_LocalAndCountryCodeAgree(t *testing.T) {
	r := newTestResolver(t)
	for _, d := range []string{"555000000", "550123456", "568999999", "599123456"} {
		a, errA := r.Identify(d)
		b, errB := r.Identify(CountryCode + d)
		require.Equal(t, a, b)
		require.Equal(t, errA == nil, errB == nil)
	}
}

func TestIdentify_InclusiveBounds(t *testing.T) {
	r := newTestResolver(t)

	for _, n := range []string{"995555000000", "995555999999"} {
		got, err := r.Identify(n)
		require.NoError(t, err)
		require.Equal(t, Magti, got)
	}

	_, err := r.Identify("995554999999")
	require.ErrorIs(t, err, ErrProviderNotFound)
	_, err = r.Identify("995556000000")
	require.ErrorIs(t, err, ErrProviderNotFound)
}

func TestIdentify_FirstMatchWins(t *testing.T) {
	table := Table{
		{Name: "First", Ranges: []Range{{Start: 995555000000, End: 995555500000}}},
		{Name: "Second", Ranges: []Range{{Start: 995555400000, End: 995555999999}}},
	}
	r, err := New(table)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		got, err := r.Identify("555450000")
		require.NoError(t, err)
		require.Equal(t, "First", got)
	}

	got, err := r.Identify("555600000")
	require.NoError(t, err)
	require.Equal(t, "Second", got)
}

func TestIdentify_Errors(t *testing.T) {
	r := newTestResolver(t)

	_, err := r.Identify("123")
	require.ErrorIs(t, err, ErrInvalidFormat)

	_, err = r.Identify("599123456")
	require.ErrorIs(t, err, ErrProviderNotFound)
	require.Contains(t, err.Error(), "995599123456")
}

func TestPredicates(t *testing.T) {
	r := newTestResolver(t)

	ok, err := r.IsMagti("555123456")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = r.IsSilknet("555123456")
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = r.IsCellfie("568000001")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = r.Is("550000000", Silknet)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestPredicates_PropagateErrors(t *testing.T) {
	r := newTestResolver(t)

	ok, err := r.IsMagti("12")
	require.ErrorIs(t, err, ErrInvalidFormat)
	require.False(t, ok)

	ok, err = r.IsCellfie("599000000")
	require.ErrorIs(t, err, ErrProviderNotFound)
	require.False(t, ok)
}

func TestResolverFormat(t *testing.T) {
	r := newTestResolver(t)

	got, ok := r.Format("995555123456", E164)
	require.True(t, ok)
	require.Equal(t, "+995555123456", got)

	got, ok = r.FormatAs("995555123456", "rfc3966")
	require.True(t, ok)
	require.Equal(t, "tel:+995-555-123456", got)

	unknown, ok := r.FormatAs("555123456", "bogus")
	require.True(t, ok)
	intl, _ := r.Format("555123456", International)
	require.Equal(t, intl, unknown)

	// Formatting does not need a provider match.
	got, ok = r.Format("599123456", National)
	require.True(t, ok)
	require.Equal(t, "599 123456", got)

	got, ok = r.Format("abc", E164)
	require.False(t, ok)
	require.Empty(t, got)
}

func TestResolverParse_Reconstructs(t *testing.T) {
	r := newTestResolver(t)
	for _, in := range []string{"555123456", "+995-568-000-111", "995 550 999 999"} {
		p, err := r.Parse(in)
		require.NoError(t, err)
		n, err := Normalize(in)
		require.NoError(t, err)
		require.Equal(t, n[3:], p.Prefix+p.Main)
		require.Equal(t, n, p.Full)
	}
}

func TestLookup(t *testing.T) {
	r := newTestResolver(t)

	res, err := r.Lookup("555 123 456")
	require.NoError(t, err)
	require.Equal(t, Magti, res.Provider)
	require.Equal(t, "995555123456", res.Full)
	require.Len(t, res.Formats, len(Styles()))
	require.Equal(t, "tel:+995-555-123456", res.Formats[RFC3966])

	_, err = r.Lookup("599123456")
	require.ErrorIs(t, err, ErrProviderNotFound)

	_, err = r.Lookup("1")
	require.ErrorIs(t, err, ErrInvalidFormat)
}

func TestNew_RejectsInvalidTable(t *testing.T) {
	tests := []struct {
		name  string
		table Table
		field string
	}{
		{name: "empty", table: nil, field: "table"},
		{name: "reversed range", table: Table{{Name: "X", Ranges: []Range{{Start: 10, End: 5}}}}, field: "providers[0].Ranges[0].End"},
		{name: "missing name", table: Table{{Ranges: []Range{{Start: 1, End: 5}}}}, field: "providers[0].Name"},
		{name: "no ranges", table: Table{{Name: "X"}}, field: "providers[0].Ranges"},
		{name: "duplicate name", table: Table{
			{Name: "X", Ranges: []Range{{Start: 1, End: 2}}},
			{Name: "X", Ranges: []Range{{Start: 3, End: 4}}},
		}, field: "providers[1].Name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.table)
			require.ErrorIs(t, err, ErrInvalidTable)

			var te *TableError
			require.ErrorAs(t, err, &te)
			require.Contains(t, te.Fields, tt.field)
		})
	}
}

func TestNew_AllowsSingleValueRange(t *testing.T) {
	_, err := New(Table{{Name: "X", Ranges: []Range{{Start: 995555123456, End: 995555123456}}}})
	require.NoError(t, err)
}

func TestResolver_TableIsIsolated(t *testing.T) {
	table := testTable()
	r, err := New(table)
	require.NoError(t, err)

	table[0].Name = "Mutated"
	table[0].Ranges[0] = Range{Start: 1, End: 2}
	got, err := r.Identify("555123456")
	require.NoError(t, err)
	require.Equal(t, Magti, got)

	out := r.Table()
	out[0].Ranges[0] = Range{Start: 1, End: 2}
	got, err = r.Identify("555123456")
	require.NoError(t, err)
	require.Equal(t, Magti, got)

	require.Equal(t, []string{Magti, Silknet, Cellfie}, r.Providers())
}

func TestResolver_ConcurrentUse(t *testing.T) {
	r := newTestResolver(t)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				got, err := r.Identify("550123456")
				if err != nil || got != Silknet {
					t.Errorf("Identify = %q, %v", got, err)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestStrictValidation(t *testing.T) {
	ex := phonenumbers.GetExampleNumberForType(Region, phonenumbers.MOBILE)
	require.NotNil(t, ex)
	national := strconv.FormatUint(ex.GetNationalNumber(), 10)

	require.NoError(t, Validate(national))
	require.ErrorIs(t, Validate("995000000000"), ErrInvalidFormat)
	require.ErrorIs(t, Validate("12"), ErrInvalidFormat)

	table := Table{{Name: "All", Ranges: []Range{{Start: 995_000_000_000, End: 995_999_999_999}}}}

	lenient, err := New(table)
	require.NoError(t, err)
	require.False(t, lenient.Strict())
	got, err := lenient.Identify("000000000")
	require.NoError(t, err)
	require.Equal(t, "All", got)

	strict, err := New(table, WithStrictValidation())
	require.NoError(t, err)
	require.True(t, strict.Strict())

	_, err = strict.Identify("000000000")
	require.ErrorIs(t, err, ErrInvalidFormat)
	_, ok := strict.Format("000000000", E164)
	require.False(t, ok)

	got, err = strict.Identify(national)
	require.NoError(t, err)
	require.Equal(t, "All", got)
}

func TestMustNew_PanicsOnInvalidTable(t *testing.T) {
	require.Panics(t, func() { MustNew(nil) })
	require.NotPanics(t, func() { MustNew(testTable()) })
}
