package fetch

// SessionListing is one session row from the registry session index.
type SessionListing struct {
	Id        string `json:"CONF_ID"`
	Era       string `json:"ERACO"`
	Committee string `json:"CMIT_NM"`
	Date      string `json:"CONF_DT"`
	PDFURL    string `json:"DOWN_URL"`
}

// BillListing is one bill row from the registry bill index.
type BillListing struct {
	Id       string `json:"BILL_ID"`
	Name     string `json:"BILL_NM"`
	Proposer string `json:"PPSR_NM"`
	Kind     string `json:"BILL_KND"`
}

// VoteListing is one per-member vote row for a bill.
type VoteListing struct {
	BillId      string `json:"BILL_ID"`
	SpeakerId   string `json:"MONA_CD"`
	SpeakerName string `json:"HG_NM"`
	Result      string `json:"RESULT_VOTE_MOD"`
}

// SpeakerListing is one member row from the registry member index.
// PartyHistory is the source's slash-delimited affiliation string, oldest
// first; the resolver splits it into ordered affiliations.
type SpeakerListing struct {
	Id           string `json:"MONA_CD"`
	Name         string `json:"HG_NM"`
	PartyHistory string `json:"POLY_NM"`
}
