package domain

type MethodTotal struct {
	Method PaymentMethod
	Count  int
	Total  int64
}

// Settlement always carries one row per payment method, in PaymentMethods
// order, even when a method has no sales.
type Settlement struct {
	Methods []MethodTotal
	Count   int
	Total   int64
}

func AggregateByMethod(txns []Transaction) Settlement {
	rows := make([]MethodTotal, len(PaymentMethods))
	index := make(map[PaymentMethod]int, len(PaymentMethods))
	for i, m := range PaymentMethods {
		rows[i] = MethodTotal{Method: m}
		index[m] = i
	}

	s := Settlement{}
	for _, t := range txns {
		if i, ok := index[t.PaymentMethod]; ok {
			rows[i].Count++
			rows[i].Total += t.TotalAmount
		}
		s.Count++
		s.Total += t.TotalAmount
	}
	s.Methods = rows
	return s
}

type Summary struct {
	Count   int
	Total   int64
	Average int64
}

func Summarize(txns []Transaction) Summary {
	var s Summary
	for _, t := range txns {
		s.Count++
		s.Total += t.TotalAmount
	}
	if s.Count > 0 {
		s.Average = s.Total / int64(s.Count)
	}
	return s
}
