package scoring

// CHASIDE sub-scales, matched against Question.ScaleTag.
const (
	SubInterest = "interest"
	SubAptitude = "aptitude"
)

var chasideBands = []Band{
	{Code: "C", Label: "Científico"},
	{Code: "H", Label: "Humanístico"},
	{Code: "A", Label: "Artístico"},
	{Code: "S", Label: "Social"},
	{Code: "I", Label: "Investigativo"},
	{Code: "D", Label: "Directivo"},
	{Code: "E", Label: "Emprendedor"},
}

var chasideSections = map[int]string{1: "C", 2: "H", 3: "A", 4: "S", 5: "I", 6: "D", 7: "E"}

var ipprFields = []Band{
	{Code: "1", Label: "Ciencias naturales y medio ambiente"},
	{Code: "2", Label: "Ingeniería y arquitectura"},
	{Code: "3", Label: "Ciencias de la salud"},
	{Code: "4", Label: "Humanidades y ciencias sociales"},
	{Code: "5", Label: "Derecho, criminología y RR. LL./RR. HH."},
	{Code: "6", Label: "Comunicación, publicidad y audiovisuales"},
	{Code: "7", Label: "Educación y pedagogía"},
	{Code: "8", Label: "Administración, economía y negocios"},
	{Code: "9", Label: "Informática y telemática/multimedia"},
	{Code: "10", Label: "Agropecuaria y recursos naturales"},
	{Code: "11", Label: "Diseño, artes plásticas y restauración"},
	{Code: "12", Label: "Artes escénicas y música"},
	{Code: "13", Label: "Seguridad y defensa"},
	{Code: "14", Label: "Actividad física y deporte"},
	{Code: "15", Label: "Turismo, hostelería y ocio"},
}

var ipprSections = func() map[int]string {
	m := make(map[int]string, len(ipprFields))
	for i, f := range ipprFields {
		m[i+1] = f.Code
	}
	return m
}()

// maciScales is the declared MACI scale order with its display labels.
var maciScales = []Band{
	{Code: "X", Label: "X-Transparencia"},
	{Code: "Y", Label: "Y-Deseabilidad"},
	{Code: "Z", Label: "Z-Alteración"},
	{Code: "1", Label: "1-Introvertido"},
	{Code: "2A", Label: "2A-Inhibido"},
	{Code: "2B", Label: "2B-Pesimista"},
	{Code: "3", Label: "3-Sumiso"},
	{Code: "4", Label: "4-Histriónico"},
	{Code: "5", Label: "5-Egocéntrico"},
	{Code: "6A", Label: "6A-Rebelde"},
	{Code: "6B", Label: "6B-Rudo"},
	{Code: "7", Label: "7-Conformista"},
	{Code: "8A", Label: "8A-Oposicionista"},
	{Code: "8B", Label: "8B-Autopunitivo"},
	{Code: "9", Label: "9-Tendencia Límite"},
	{Code: "A", Label: "A-Difusión de la Identidad"},
	{Code: "B", Label: "B-Desvalorización de sí mismo"},
	{Code: "C", Label: "C-Desagrado por propio cuerpo"},
	{Code: "D", Label: "D-Incomodidad respecto al sexo"},
	{Code: "E", Label: "E-Inseguridad con los iguales"},
	{Code: "F", Label: "F-Insensibilidad social"},
	{Code: "G", Label: "G-Discordancia Familiar"},
	{Code: "H", Label: "H-Abusos en la infancia"},
	{Code: "AA", Label: "AA-Trastornos de la Alimentación"},
	{Code: "BB", Label: "BB-Inclinación abuso sustancias"},
	{Code: "CC", Label: "CC-Predisposición a la delincuencia"},
	{Code: "DD", Label: "DD-Propensión a la impulsividad"},
	{Code: "EE", Label: "EE-Sentimientos de ansiedad"},
	{Code: "FF", Label: "FF-Afecto depresivo"},
	{Code: "GG", Label: "GG-Tendencia al suicidio"},
}

// MACI validity warnings.
const (
	WarnLowTransparency   = "Baja transparencia en las respuestas"
	WarnHighDesirability  = "Alta deseabilidad social"
	WarnSymptomDistortion = "Posible exageración o distorsión de síntomas"
)

var maciValidity = []ValidityRule{
	{Scale: "X", Fires: func(pd float64) bool { return pd < 150 }, Warning: WarnLowTransparency},
	{Scale: "Y", Fires: func(pd float64) bool { return pd > 20 }, Warning: WarnHighDesirability},
	{Scale: "Z", Fires: func(pd float64) bool { return pd > 15 }, Warning: WarnSymptomDistortion},
}

var datCategories = []Band{
	{Code: "razonamiento_verbal", Label: "Razonamiento Verbal"},
	{Code: "razonamiento_numerico", Label: "Razonamiento Numérico"},
	{Code: "razonamiento_abstracto", Label: "Razonamiento Abstracto"},
	{Code: "razonamiento_mecanico", Label: "Razonamiento Mecánico"},
	{Code: "razonamiento_espacial", Label: "Relaciones Espaciales"},
	{Code: "ortografia", Label: "Ortografía"},
}

// Chaside scores yes/no answers into seven bands, split by interest and aptitude.
func Chaside() *FixedBand {
	return NewFixedBand(KindChaside, chasideBands, chasideSections, ChasideYes, 1, SubInterest, SubAptitude)
}

// Ippr scores Likert answers (0..3) into fifteen vocational fields.
func Ippr() *FixedBand {
	return NewFixedBand(KindIppr, ipprFields, ipprSections, IpprLikert, 3)
}

// Maci scores true/false answers through the MACI key, or by section without one.
func Maci() *KeyedWithFallback {
	return NewKeyedWithFallback(KindMaci, MaciTrue, maciScales, maciValidity...)
}

// Dat counts correct options per aptitude category.
func Dat() *CorrectCount {
	return NewCorrectCount(KindDat, datCategories, DatCorrect)
}

// DefaultStrategies wires every supported instrument.
func DefaultStrategies() map[Kind]Strategy {
	return map[Kind]Strategy{
		KindChaside: Chaside(),
		KindIppr:    Ippr(),
		KindMaci:    Maci(),
		KindDat:     Dat(),
	}
}

