package masterdata

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/five82/grocy-tui/internal/grocy"
)

func TestParseFactor(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"6", 6, true},
		{" 0.5 ", 0.5, true},
		{"2,5", 2.5, true},
		{"0", 0, false},
		{"-1", 0, false},
		{"", 0, false},
		{"six", 0, false},
		{"NaN", 0, false},
		{"Inf", 0, false},
		{"+Inf", 0, false},
		{"-Inf", 0, false},
		{"infinity", 0, false},
		{"1e400", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseFactor(tt.in)
		assert.Equal(t, tt.ok, ok, "ParseFactor(%q)", tt.in)
		assert.InDelta(t, tt.want, got, 1e-9, "ParseFactor(%q)", tt.in)
	}
}

func TestConversionForm_Validation(t *testing.T) {
	units := []grocy.QuantityUnit{{ID: 1, Name: "Piece"}, {ID: 2, Name: "Box"}}
	repo := &memRepo{units: units}
	f := NewConversionForm(repo, units[1], nil)

	assert.Equal(t, ConversionFactorInvalid, f.Status())

	f.SetFactor("6")
	assert.Equal(t, ConversionUnitUnknown, f.Status())

	f.SetToUnit("Box")
	assert.Equal(t, ConversionUnitSame, f.Status())
	assert.False(t, f.CanSubmit())

	f.SetToUnit("Piece")
	assert.Equal(t, ConversionOK, f.Status())
	assert.True(t, f.CanSubmit())
	assert.Equal(t, "1 Box = 6 Piece", f.Preview())
	assert.Equal(t, []grocy.QuantityUnit{{ID: 1, Name: "Piece"}}, f.UnitChoices())

	f.SetFactor("NaN")
	assert.Equal(t, ConversionFactorInvalid, f.Status())
	assert.False(t, f.CanSubmit())

	f.SetFactor("Inf")
	assert.Equal(t, ConversionFactorInvalid, f.Status())
	assert.False(t, f.CanSubmit())
}

func TestConversionForm_CreateSuccess(t *testing.T) {
	units := []grocy.QuantityUnit{{ID: 1, Name: "Piece"}, {ID: 2, Name: "Box"}}
	repo := &memRepo{
		units: units,
		convs: []grocy.QuantityUnitConversion{{ID: 8, FromQuID: 1, ToQuID: 2, Factor: 0.5}},
	}
	parent := NewQuantityUnitForm(repo, EditUnit(units[1]), WithClock(clock))
	f, ok := parent.NewConversionForm(nil)
	require.True(t, ok)
	assert.True(t, f.IsNew())

	f.SetToUnit("Piece")
	f.SetFactor("6")
	p, ok := f.Submit()
	require.True(t, ok)

	assert.Equal(t, grocy.QuantityUnitConversion{
		ID:                  9,
		FromQuID:            2,
		ToQuID:              1,
		Factor:              6,
		RowCreatedTimestamp: "2024-03-09T13:05:06.789Z",
	}, p.Payload())

	assert.Equal(t, OutcomeSuccessAdd, p.Run(context.Background()))
	assert.True(t, f.CloseRequested())

	last, ok := repo.lastRefresh()
	require.True(t, ok)
	assert.Equal(t, []grocy.ObjectKind{grocy.KindQuantityUnitConversions}, last.kinds)
	assert.True(t, last.ignoreCache)

	rows := parent.Conversions()
	require.Len(t, rows, 1)
	assert.Equal(t, "6 Piece", rows[0].Label)
}

func TestConversionForm_EditPreservesIdentity(t *testing.T) {
	product := 42
	units := []grocy.QuantityUnit{{ID: 1, Name: "Piece"}, {ID: 2, Name: "Box"}, {ID: 3, Name: "Pack"}}
	existing := grocy.QuantityUnitConversion{
		ID: 5, FromQuID: 2, ToQuID: 1, Factor: 6, ProductID: &product,
		RowCreatedTimestamp: "2023-05-01T10:00:00.000Z",
	}
	repo := &memRepo{units: units, convs: []grocy.QuantityUnitConversion{existing}}
	f := NewConversionForm(repo, units[1], &existing, WithClock(clock))

	assert.Equal(t, "Piece", f.ToUnit())
	assert.Equal(t, "6", f.Factor())
	assert.False(t, f.IsNew())

	f.SetToUnit("Pack")
	f.SetFactor("2")
	p, ok := f.Submit()
	require.True(t, ok)
	assert.Equal(t, OutcomeSuccessEdit, p.Run(context.Background()))

	require.Len(t, repo.updates, 1)
	sent := repo.updates[0].payload.(grocy.QuantityUnitConversion)
	assert.Equal(t, 5, sent.ID)
	assert.Equal(t, 3, sent.ToQuID)
	assert.Equal(t, "2023-05-01T10:00:00.000Z", sent.RowCreatedTimestamp)
	require.NotNil(t, sent.ProductID)
	assert.Equal(t, 42, *sent.ProductID)
}

func TestConversionForm_Failure(t *testing.T) {
	units := []grocy.QuantityUnit{{ID: 1, Name: "Piece"}, {ID: 2, Name: "Box"}}
	repo := &memRepo{units: units, createErr: errors.New("boom")}
	f := NewConversionForm(repo, units[1], nil)
	f.SetToUnit("Piece")
	f.SetFactor("6")

	p, ok := f.Submit()
	require.True(t, ok)
	_, again := f.Submit()
	assert.False(t, again)

	assert.Equal(t, OutcomeFailAdd, p.Run(context.Background()))
	assert.False(t, f.CloseRequested())
	assert.Equal(t, "6", f.Factor())
	assert.Empty(t, repo.refreshes)
}

func TestFormatAmount_Locale(t *testing.T) {
	units := []grocy.QuantityUnit{{ID: 1, Name: "Piece"}, {ID: 2, Name: "Box"}}
	repo := &memRepo{
		units: units,
		convs: []grocy.QuantityUnitConversion{{ID: 1, FromQuID: 2, ToQuID: 1, Factor: 1234.5}},
	}

	en := NewQuantityUnitForm(repo, EditUnit(units[1]))
	de := NewQuantityUnitForm(repo, EditUnit(units[1]), WithLocale(language.German))

	assert.Equal(t, "1,234.5 Piece", en.Conversions()[0].Label)
	assert.Equal(t, "1.234,5 Piece", de.Conversions()[0].Label)
}
