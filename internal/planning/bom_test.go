package planning

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveConsumptionMultipliesByRate(t *testing.T) {
	// Ürün 1, hafta 11'de 10 birim üretiyor; 1 birim için 2.5 birim hammadde 7 tüketiliyor
	production := map[uint]map[WeekKey]decimal.Decimal{
		1: {wk(2025, 11): dec("10")},
	}
	rates := map[uint][]BomRate{
		1: {{MaterialID: 7, ConsumePerUnit: dec("2.5")}},
	}

	out := DeriveConsumption(production, rates)

	require.Contains(t, out, uint(7))
	assert.Equal(t, "25", out[7][wk(2025, 11)].String())
}

func TestDeriveConsumptionSumsAcrossProducts(t *testing.T) {
	// İki ürün aynı hammaddeyi aynı hafta tüketiyor: tüketimler toplanır
	production := map[uint]map[WeekKey]decimal.Decimal{
		1: {wk(2025, 11): dec("10")},
		2: {wk(2025, 11): dec("4")},
	}
	rates := map[uint][]BomRate{
		1: {{MaterialID: 7, ConsumePerUnit: dec("2")}},
		2: {{MaterialID: 7, ConsumePerUnit: dec("0.5")}},
	}

	out := DeriveConsumption(production, rates)

	assert.Equal(t, "22", out[7][wk(2025, 11)].String())
}

func TestDeriveConsumptionMultipleMaterialsPerProduct(t *testing.T) {
	production := map[uint]map[WeekKey]decimal.Decimal{
		1: {wk(2025, 11): dec("10")},
	}
	rates := map[uint][]BomRate{
		1: {
			{MaterialID: 7, ConsumePerUnit: dec("2")},
			{MaterialID: 8, ConsumePerUnit: dec("1.5")},
		},
	}

	out := DeriveConsumption(production, rates)

	assert.Equal(t, "20", out[7][wk(2025, 11)].String())
	assert.Equal(t, "15", out[8][wk(2025, 11)].String())
}

func TestDeriveConsumptionProductWithoutBom(t *testing.T) {
	// Reçetesi olmayan ürünün üretimi hiçbir hammaddeye tüketim yazmaz
	production := map[uint]map[WeekKey]decimal.Decimal{
		1: {wk(2025, 11): dec("10")},
	}

	out := DeriveConsumption(production, map[uint][]BomRate{})

	assert.Empty(t, out)
}
