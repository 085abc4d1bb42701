package report

// Aggregate folds a row sequence into aggregate counts. The fold is a single
// commutative pass with no other side effects, so row order never changes the
// result. Nil event slots are excluded.
func Aggregate(rows []Row) Statistics {
	var stats Statistics
	for _, row := range rows {
		switch r := row.(type) {
		case Skipped:
			stats.NumSkipped++
		case Analyzed:
			for _, event := range r.Events {
				switch event.(type) {
				case nil:
				case Informational:
					stats.NumInformational++
				case Warning:
					stats.NumWarnings++
				}
			}
		}
	}
	return stats
}
