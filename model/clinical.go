package model

// ClinicalDetails holds free-text background for an hcNumber. It lives
// independently of the loan lifecycle and survives across loan cycles;
// only full-history deletion removes it.
type ClinicalDetails struct {
	Antecedents string `json:"antecedents"`
	Notes       string `json:"notes"`
}
