package indicator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var meta = []string{"organisationunitid", "organisationunitname", "organisationunitcode", "organisationunitdescription"}

func TestParseHeaderExample(t *testing.T) {
	h, ok := ParseHeader("Cas Confirmés Janvier 2024 CS")
	require.True(t, ok)
	assert.Equal(t, "Cas Confirmés", h.Indicator)
	assert.Equal(t, "Janvier 2024", h.Month)
	assert.Equal(t, "CS", h.Structure)
}

func TestParseHeaderRoundTrip(t *testing.T) {
	tests := []Header{
		{"Cas Confirmés", "Janvier 2024", "CS"},
		{"TDR réalisés", "Février 2023", "Hôpital de district"},
		{"Décès palu", "Août", "CSI"},
		{"MILDA distribuées", "Décembre 2024", "Poste de santé"},
		{"Cas graves < 5 ans", "Mai 2025", "CS privé"},
		{"Cas simples", "Fevrier 2024", "CS"},
	}
	for _, want := range tests {
		t.Run(want.Column(), func(t *testing.T) {
			got, ok := ParseHeader(want.Column())
			require.True(t, ok)
			assert.Equal(t, want, got)
		})
	}
}

func TestParseHeaderRejects(t *testing.T) {
	for _, col := range []string{
		"",
		"organisationunitname",
		"Cas confirmés 2024 CS",
		"Janvier 2024 CS",
		"Cas confirmés Janvier",
		"Cas confirmés Janvier 2024",
		"Cas confirmés janvier 2024 CS",
	} {
		_, ok := ParseHeader(col)
		assert.False(t, ok, "column %q should not parse", col)
	}
}

func TestBuildSkipsMetadataAndUnmatched(t *testing.T) {
	cols := append(append([]string{}, meta...),
		"Cas Confirmés Janvier 2024 CS",
		"Cas Confirmés Janvier 2024 HD",
		"Cas Confirmés Février 2024 CS",
		"TDR Réalisés Janvier 2024 CS",
		"latitude", "longitude",
		"Total général",
	)
	ix := Build(cols, meta)
	assert.Equal(t, 2, ix.Len())
	assert.Equal(t, []string{"Cas Confirmés", "TDR Réalisés"}, ix.Indicators())
	assert.Equal(t, []string{"Total général"}, ix.Unmatched)
	assert.Len(t, ix.Entries("Cas Confirmés"), 3)
}

func TestMonthsAreChronological(t *testing.T) {
	ix := Build([]string{
		"Cas Mars 2024 CS",
		"Cas Décembre 2023 CS",
		"Cas Janvier 2024 CS",
		"Cas Février 2024 CS",
		"Cas Janvier 2024 HD",
	}, meta)
	assert.Equal(t, []string{"Décembre 2023", "Janvier 2024", "Février 2024", "Mars 2024"}, ix.Months("Cas"))
	assert.Equal(t, []string{"CS", "HD"}, ix.Structures("Cas", "Janvier 2024"))
	assert.Equal(t, []string{"CS"}, ix.Structures("Cas", "Mars 2024"))
	assert.Equal(t, []string{"CS", "HD"}, ix.Structures("Cas", ""))
}

func TestResolveEveryEntry(t *testing.T) {
	cols := []string{
		"Cas Confirmés Janvier 2024 CS",
		"Cas Confirmés Janvier 2024 HD",
		"Cas Confirmés Février 2024 CS",
		"Décès Janvier 2024 CS",
	}
	ix := Build(cols, meta)
	for _, ind := range ix.Indicators() {
		for _, e := range ix.Entries(ind) {
			col, ok := ix.Resolve(ind, e.Month, e.Structure)
			require.True(t, ok)
			assert.Equal(t, e.Column, col)
			// deterministic across calls
			again, _ := ix.Resolve(ind, e.Month, e.Structure)
			assert.Equal(t, col, again)
		}
	}

	col, err := ix.Column(Selection{"Cas Confirmés", "Janvier 2024", "CS"})
	require.NoError(t, err)
	assert.Equal(t, "Cas Confirmés Janvier 2024 CS", col)

	_, err = ix.Column(Selection{"Cas Confirmés", "Février 2024", "HD"})
	assert.True(t, errors.Is(err, ErrUnknownSelection))
}

func TestNormalizeFallsBackToFirstOption(t *testing.T) {
	ix := Build([]string{
		"Cas Janvier 2024 HD",
		"Cas Février 2024 CS",
		"Décès Janvier 2024 CS",
	}, meta)

	sel := ix.Normalize(Selection{})
	assert.Equal(t, Selection{"Cas", "Janvier 2024", "HD"}, sel)

	sel = ix.Normalize(Selection{Indicator: "Cas", Month: "Février 2024", Structure: "HD"})
	assert.Equal(t, Selection{"Cas", "Février 2024", "CS"}, sel)

	sel = ix.Normalize(Selection{Indicator: "inconnu", Month: "Janvier 2024", Structure: "CS"})
	assert.Equal(t, "Cas", sel.Indicator)
	_, err := ix.Column(sel)
	assert.NoError(t, err)
}

func TestEmptyIndex(t *testing.T) {
	ix := Build(meta, meta)
	assert.Equal(t, 0, ix.Len())
	assert.Equal(t, Selection{}, ix.Normalize(Selection{Indicator: "x"}))
	_, err := ix.Column(Selection{})
	assert.ErrorIs(t, err, ErrNoIndicators)
}
