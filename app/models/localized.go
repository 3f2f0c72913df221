package models

import "encoding/json"

// LocalizedText holds the bilingual fields used across the catalog. Legacy
// documents carry plain strings where newer ones carry {es,en} objects;
// UnmarshalJSON accepts both so the rest of the code only ever sees the
// struct form.
type LocalizedText struct {
	Es string `json:"es"`
	En string `json:"en"`
}

func (t *LocalizedText) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		t.Es = s
		t.En = ""
		return nil
	}
	type plain LocalizedText
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*t = LocalizedText(p)
	return nil
}

// In returns the text for the given language, falling back to Spanish.
func (t LocalizedText) In(lang string) string {
	if lang == "en" && t.En != "" {
		return t.En
	}
	return t.Es
}

func (t LocalizedText) IsEmpty() bool {
	return t.Es == "" && t.En == ""
}
