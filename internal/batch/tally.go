package batch

// Outcome es el resultado fallido de un inquilino en una corrida.
type Outcome struct {
	TenantName string
	Email      string
	Reason     string
}

// Tally acumula los resultados de una corrida. Se crea por corrida y se
// descarta al terminar los reportes; no hay contadores globales.
type Tally struct {
	SuccessCount int
	FailureCount int
	Failed       []Outcome // en el orden en que fallaron
}

func (t *Tally) success() {
	t.SuccessCount++
}

func (t *Tally) failure(o Outcome) {
	t.FailureCount++
	t.Failed = append(t.Failed, o)
}

// Processed es la cantidad de inquilinos que pasaron por el batch.
func (t Tally) Processed() int {
	return t.SuccessCount + t.FailureCount
}
