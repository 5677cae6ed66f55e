package planning

import "github.com/shopspring/decimal"

// Opening: Projeksiyonun çapası - dönem başı bakiyesinin haftası ve miktarı
type Opening struct {
	Week WeekKey
	Qty  decimal.Decimal
}

// WeekBalance: Bir haftanın yürüyen bakiyesi
type WeekBalance struct {
	Week    WeekKey
	Balance decimal.Decimal
}

// Project: [from, to] aralığı için haftalık yürüyen bakiyeyi tek geçişte hesaplar.
//
//   - Çapadan önceki haftalar (veya çapa hiç yoksa tüm haftalar) tanım gereği 0'dır;
//     "bilinmiyor" değil, kesin sıfır.
//   - Çapa haftasının bakiyesi dönem başı miktarının kendisidir; o haftaya düşen
//     hareketler çapayı değiştirmez.
//   - Sonraki her hafta: bakiye = önceki bakiye - çıkış(hafta) + giriş(hafta).
//
// Çağıranın from'u çapadan sonra olsa bile yürüyüş çapadan başlar ve sadece istenen
// dilim döndürülür; aksi halde aralık başı dışındaki haftaların bakiyesi yanlış olurdu.
// Haritalarda kaydı olmayan hafta sıfır hareket demektir. Negatif bakiye geçerlidir,
// kırpılmaz. from > to ise boş sonuç döner; bunu 400'e çevirmek HTTP katmanının işidir.
func Project(opening *Opening, from, to WeekKey, outflow, inflow map[WeekKey]decimal.Decimal) []WeekBalance {
	if from.After(to) {
		return nil
	}

	start := from
	if opening != nil && opening.Week.Before(from) {
		start = opening.Week
	}

	out := make([]WeekBalance, 0, 8)
	var bal decimal.Decimal
	for w := start; !w.After(to); w = w.Next() {
		switch {
		case opening == nil || w.Before(opening.Week):
			bal = decimal.Zero
		case w == opening.Week:
			bal = opening.Qty
		default:
			bal = bal.Sub(outflow[w]).Add(inflow[w])
		}
		if w.InRange(from, to) {
			out = append(out, WeekBalance{Week: w, Balance: bal})
		}
	}
	return out
}
