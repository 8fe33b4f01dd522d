package domain

// Instrument es un test psicometrico registrado en la tabla tests.
type Instrument struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Question pertenece a un unico instrumento. Section ubica la pregunta en una
// banda (CHASIDE, IPP-R) o en una pseudo-escala (MACI sin clave); ScaleTag
// distingue interes/aptitud en CHASIDE y la categoria en DAT.
type Question struct {
	ID           int64  `json:"id"`
	InstrumentID int64  `json:"instrument_id"`
	Section      int    `json:"section"`
	ScaleTag     string `json:"scale_tag,omitempty"`
}

// AnswerOption es la etiqueta inmutable de una opcion de respuesta.
type AnswerOption struct {
	ID         int64  `json:"id"`
	QuestionID int64  `json:"question_id"`
	Text       string `json:"text"`
	Tag        string `json:"tag,omitempty"` // DAT: "correcta"
}

// RawAnswer es la respuesta de un cliente a una pregunta. Cuando
// AnswerOptionID es nil se usa FreeText.
type RawAnswer struct {
	QuestionID     int64  `json:"question_id"`
	AnswerOptionID *int64 `json:"answer_option_id,omitempty"`
	FreeText       string `json:"free_text,omitempty"`
}

// ScaleKey asigna una pregunta MACI a una escala clinica.
type ScaleKey struct {
	QuestionID     int64   `json:"question_id"`
	Scale          string  `json:"scale"`
	ScaleLabel     string  `json:"scale_label,omitempty"`
	KeyedDirection bool    `json:"keyed_direction"`
	Weight         float64 `json:"weight"`
}

// ScaleScore es el puntaje acumulado de una banda o escala.
// Value nunca supera MaxPossible.
type ScaleScore struct {
	Code        string  `json:"code"`
	Label       string  `json:"label"`
	Value       float64 `json:"value"`
	MaxPossible float64 `json:"max_possible"`
	Answered    int     `json:"answered"`
}
