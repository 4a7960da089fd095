package domain

// ProgramRecord is a program parsed from a catalogue document.
// JSON tags follow the catalogue export format.
type ProgramRecord struct {
	// Program is the raw "Programa:" header line.
	Program string `json:"programa"`

	// StrategicObjectives are the bullet lines under "Objetivo Geral".
	StrategicObjectives []string `json:"objetivos_estrategicos"`

	// TargetAudience are the lines under "Público Alvo".
	TargetAudience []string `json:"publico_alvo"`

	// ResponsibleAgency is the line following "Órgão Responsável".
	ResponsibleAgency string `json:"orgao_responsavel"`

	// SpecificObjectives are coded lines like "1234 - ...".
	SpecificObjectives []string `json:"objetivos_especificos"`
}

// NewProgramRecord starts a record with empty, non-nil lists.
func NewProgramRecord(header string) ProgramRecord {
	return ProgramRecord{
		Program:             header,
		StrategicObjectives: []string{},
		TargetAudience:      []string{},
		SpecificObjectives:  []string{},
	}
}

// IsComplete reports whether every section was captured.
// Incomplete records are still emitted.
func (p ProgramRecord) IsComplete() bool {
	return p.Program != "" &&
		len(p.StrategicObjectives) > 0 &&
		len(p.TargetAudience) > 0 &&
		p.ResponsibleAgency != "" &&
		len(p.SpecificObjectives) > 0
}
