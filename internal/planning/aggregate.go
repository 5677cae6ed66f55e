package planning

import "github.com/shopspring/decimal"

// Movement: Ham hareket satırı - bir kalemin bir haftadaki tek bir miktar kaydı.
// Sevk planı, üretim emri ve satınalma satırları hep bu şekle indirgenir;
// durum filtresi (ACTIVE/COMPLETE, CONFIRM) store katmanında uygulanır.
type Movement struct {
	ItemID uint
	Week   WeekKey
	Qty    decimal.Decimal
}

// Aggregate: Hareket satırlarını kalem ve hafta bazında toplar.
// Aynı (kalem, hafta) anahtarına düşen birden çok satır toplanır (ör: aynı ürüne
// aynı hafta iki üretim emri). [from, to] dışındaki satırlar toplamaya girmez.
func Aggregate(rows []Movement, from, to WeekKey) map[uint]map[WeekKey]decimal.Decimal {
	out := make(map[uint]map[WeekKey]decimal.Decimal)
	for _, r := range rows {
		if !r.Week.InRange(from, to) {
			continue
		}
		byWeek, ok := out[r.ItemID]
		if !ok {
			byWeek = make(map[WeekKey]decimal.Decimal)
			out[r.ItemID] = byWeek
		}
		byWeek[r.Week] = byWeek[r.Week].Add(r.Qty)
	}
	return out
}
