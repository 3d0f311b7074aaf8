package domain

// ValueSet is the values of one attribute in one language, used for import/export
type ValueSet struct {
	Attribute AttributeID  `json:"attribute"`
	Language  LanguageCode `json:"language"`
	Values    Values       `json:"values"`
}

// NewValueSet creates an empty value set
func NewValueSet(att AttributeID, lang LanguageCode) *ValueSet {
	return &ValueSet{
		Attribute: att,
		Language:  lang,
		Values:    make(Values),
	}
}

// NewValueSetFromRows builds a value set from fetched rows
func NewValueSetFromRows(att AttributeID, lang LanguageCode, rows ResultMap) *ValueSet {
	vs := NewValueSet(att, lang)
	for id, row := range rows {
		vs.Values[id] = row.Value
	}
	return vs
}

// Set assigns the value for an entity
func (v *ValueSet) Set(id EntityID, value string) {
	if v.Values == nil {
		v.Values = make(Values)
	}
	v.Values[id] = value
}
