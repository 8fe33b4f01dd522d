package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"vida-plena/internal/domain"
	"vida-plena/internal/scoring"
)

// MetaField is one label/value line printed above the table.
type MetaField struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Table is the renderer-neutral shape of a report: an instrument specific
// header, one row per scale and free text lines below it.
type Table struct {
	Title   string      `json:"title"`
	Meta    []MetaField `json:"meta"`
	Header  []string    `json:"header"`
	Rows    [][]string  `json:"rows"`
	Summary []string    `json:"summary,omitempty"`
	Notes   []string    `json:"notes,omitempty"`
}

// Subject identifies who the report is about.
type Subject struct {
	ClientID    int64
	ClientName  string
	GeneratedAt time.Time
}

// Display is the client name, or the id when the name is unknown.
func (s Subject) Display() string {
	if n := strings.TrimSpace(s.ClientName); n != "" {
		return n
	}
	return strconv.FormatInt(s.ClientID, 10)
}

const (
	chasideTop = 3
	ipprTop    = 5
)

// Build shapes a scored result into a Table. Extra notes (for example read
// warnings) are appended after the instrument's own notes.
func Build(sub Subject, res scoring.Result, notes ...string) Table {
	t := Table{
		Title: "Reporte " + res.Instrument.Title(),
		Meta: []MetaField{
			{Label: "Cliente", Value: sub.Display()},
			{Label: "Fecha", Value: sub.GeneratedAt.Format("02/01/2006")},
			{Label: "Preguntas respondidas", Value: strconv.Itoa(res.Answered)},
		},
	}

	switch res.Instrument {
	case scoring.KindChaside:
		buildChaside(&t, res)
	case scoring.KindIppr:
		buildIppr(&t, res)
	case scoring.KindMaci:
		buildMaci(&t, res)
	case scoring.KindDat:
		buildDat(&t, res)
	default:
		buildGeneric(&t, res)
	}

	t.Notes = append(t.Notes, res.Notes...)
	t.Notes = append(t.Notes, notes...)
	return t
}

// FileName is "<INSTRUMENT>_<client>.<ext>" with spaces replaced by "_".
func FileName(kind scoring.Kind, sub Subject, ext string) string {
	name := kind.Title() + "_" + sub.Display()
	name = strings.Join(strings.Fields(name), "_")
	name = strings.NewReplacer("/", "_", "\\", "_", "\"", "").Replace(name)
	return name + "." + strings.TrimPrefix(ext, ".")
}

func buildChaside(t *Table, res scoring.Result) {
	t.Header = []string{"Banda", "Interés", "Aptitud", "Total", "Posición"}
	for _, sc := range res.Scales {
		interest, _ := res.SubScale(scoring.SubInterest, sc.Code)
		aptitude, _ := res.SubScale(scoring.SubAptitude, sc.Code)
		t.Rows = append(t.Rows, []string{
			sc.Code + " - " + sc.Label,
			num(interest.Value),
			num(aptitude.Value),
			num(sc.Value),
			strconv.Itoa(scoring.Position(res.Ranking, sc.Code)),
		})
	}

	topInterest := scoring.Top(res.SubRankings[scoring.SubInterest], chasideTop)
	topAptitude := scoring.Top(res.SubRankings[scoring.SubAptitude], chasideTop)
	if len(topInterest) > 0 && len(topAptitude) > 0 {
		t.Summary = append(t.Summary, fmt.Sprintf("Mayor interés en %s y mayor aptitud en %s.",
			topInterest[0].Label, topAptitude[0].Label))
	}
	t.Summary = append(t.Summary,
		"Intereses principales: "+listScores(topInterest),
		"Aptitudes principales: "+listScores(topAptitude),
	)
}

func buildIppr(t *Table, res scoring.Result) {
	t.Header = []string{"#", "Campo", "Puntaje", "Posición"}
	for _, sc := range res.Scales {
		t.Rows = append(t.Rows, []string{
			sc.Code,
			sc.Label,
			num(sc.Value) + " / " + num(sc.MaxPossible),
			strconv.Itoa(scoring.Position(res.Ranking, sc.Code)),
		})
	}
	t.Summary = append(t.Summary, "Campos con mayor preferencia:")
	for i, sc := range scoring.Top(res.Ranking, ipprTop) {
		t.Summary = append(t.Summary, fmt.Sprintf("%d. %s (%s)", i+1, sc.Label, num(sc.Value)))
	}
}

func buildMaci(t *Table, res scoring.Result) {
	t.Header = []string{"Escala", "PD", "TB", "Interpretación"}
	for _, sc := range res.Scales {
		tb := scoring.TB(sc)
		t.Rows = append(t.Rows, []string{
			sc.Label,
			num(sc.Value),
			strconv.Itoa(tb),
			string(scoring.Classify(tb)),
		})
	}

	if res.FallbackNote != "" {
		t.Notes = append(t.Notes, "Resultado aproximado: "+res.FallbackNote)
	}
	if v := res.Validity; v != nil {
		if v.Valid {
			t.Summary = append(t.Summary, "Indicadores de validez dentro de rango.")
		}
		for _, w := range v.Warnings {
			t.Summary = append(t.Summary, "Advertencia: "+w)
		}
	}
	t.Notes = append(t.Notes, scoring.TBCaveat)
}

func buildDat(t *Table, res scoring.Result) {
	t.Header = []string{"Aptitud", "Resultado", "Porcentaje"}
	for _, sc := range res.Scales {
		if sc.Answered == 0 {
			t.Rows = append(t.Rows, []string{sc.Label, "Pendiente", "-"})
			continue
		}
		pct := 0
		if sc.MaxPossible > 0 {
			pct = scoring.TB(sc)
		}
		t.Rows = append(t.Rows, []string{
			sc.Label,
			num(sc.Value) + " / " + num(sc.MaxPossible),
			strconv.Itoa(pct) + "%",
		})
	}
	t.Summary = append(t.Summary,
		fmt.Sprintf("El cliente ha completado %d de %d sub-tests.", scoring.Completed(res.Scales), len(res.Scales)),
		fmt.Sprintf("Respuestas correctas: %d de %d.", res.Hits, res.Answered),
	)
}

func buildGeneric(t *Table, res scoring.Result) {
	t.Header = []string{"Escala", "Puntaje", "Posición"}
	for _, sc := range res.Scales {
		t.Rows = append(t.Rows, []string{sc.Label, num(sc.Value), strconv.Itoa(scoring.Position(res.Ranking, sc.Code))})
	}
}

func listScores(scales []domain.ScaleScore) string {
	if len(scales) == 0 {
		return "-"
	}
	parts := make([]string, len(scales))
	for i, sc := range scales {
		parts[i] = fmt.Sprintf("%s (%s)", sc.Label, num(sc.Value))
	}
	return strings.Join(parts, ", ")
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
