package planning

import "github.com/shopspring/decimal"

// BomRate: Reçete oranı - 1 birim üretim için tüketilen hammadde miktarı
type BomRate struct {
	MaterialID     uint
	ConsumePerUnit decimal.Decimal
}

// DeriveConsumption: Ürün bazındaki haftalık üretim miktarlarını reçete oranlarıyla
// hammadde bazındaki haftalık tüketime çevirir:
//
//	tüketim(hammadde, hafta) += üretim(ürün, hafta) × birim tüketim
//
// Reçetesi olmayan ürün hiçbir hammaddeye tüketim üretmez; bu bir hata değildir.
// Aynı ürünün farklı hammadde satırları birbirinden bağımsız hesaplanır.
func DeriveConsumption(production map[uint]map[WeekKey]decimal.Decimal, rates map[uint][]BomRate) map[uint]map[WeekKey]decimal.Decimal {
	out := make(map[uint]map[WeekKey]decimal.Decimal)
	for productID, byWeek := range production {
		for _, rate := range rates[productID] {
			for week, qty := range byWeek {
				byMaterial, ok := out[rate.MaterialID]
				if !ok {
					byMaterial = make(map[WeekKey]decimal.Decimal)
					out[rate.MaterialID] = byMaterial
				}
				byMaterial[week] = byMaterial[week].Add(qty.Mul(rate.ConsumePerUnit))
			}
		}
	}
	return out
}
