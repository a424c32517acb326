// Code generated by musgen-go. DO NOT EDIT.

package core

import (
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

var (
	slice5l9R4ScBwsh3rD7fkuzXwQΞΞ = ord.NewSliceSer[PartyAffiliation](PartyAffiliationMUS)
	sliceV7grjewCoBbb70vYhu9QhQΞΞ = ord.NewSliceSer[string](ord.String)
)

var IDMUS = iDMUS{}

type iDMUS struct{}

func (s iDMUS) Marshal(v ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (s iDMUS) Unmarshal(bs []byte) (v ID, n int, err error) {
	tmp, n, err := varint.Uint64.Unmarshal(bs)
	if err != nil {
		return
	}
	v = ID(tmp)
	return
}

func (s iDMUS) Size(v ID) (size int) {
	return varint.Uint64.Size(uint64(v))
}

func (s iDMUS) Skip(bs []byte) (n int, err error) {
	return varint.Uint64.Skip(bs)
}

var VoteResultMUS = voteResultMUS{}

type voteResultMUS struct{}

func (s voteResultMUS) Marshal(v VoteResult, bs []byte) (n int) {
	return varint.Int.Marshal(int(v), bs)
}

func (s voteResultMUS) Unmarshal(bs []byte) (v VoteResult, n int, err error) {
	tmp, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	v = VoteResult(tmp)
	return
}

func (s voteResultMUS) Size(v VoteResult) (size int) {
	return varint.Int.Size(int(v))
}

func (s voteResultMUS) Skip(bs []byte) (n int, err error) {
	return varint.Int.Skip(bs)
}

var SessionMUS = sessionMUS{}

type sessionMUS struct{}

func (s sessionMUS) Marshal(v Session, bs []byte) (n int) {
	n = ord.String.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.Era, bs[n:])
	n += ord.String.Marshal(v.Committee, bs[n:])
	n += raw.TimeUnixMicro.Marshal(v.Date, bs[n:])
	n += ord.String.Marshal(v.SourceURL, bs[n:])
	n += raw.TimeUnixMicro.Marshal(v.LastAttemptAt, bs[n:])
	n += raw.TimeUnixMicro.Marshal(v.InsertedAt, bs[n:])
	return n + raw.TimeUnixMicro.Marshal(v.UpdatedAt, bs[n:])
}

func (s sessionMUS) Unmarshal(bs []byte) (v Session, n int, err error) {
	v.Id, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Era, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Committee, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Date, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.SourceURL, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.LastAttemptAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.InsertedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.UpdatedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	return
}

func (s sessionMUS) Size(v Session) (size int) {
	size = ord.String.Size(v.Id)
	size += ord.String.Size(v.Era)
	size += ord.String.Size(v.Committee)
	size += raw.TimeUnixMicro.Size(v.Date)
	size += ord.String.Size(v.SourceURL)
	size += raw.TimeUnixMicro.Size(v.LastAttemptAt)
	size += raw.TimeUnixMicro.Size(v.InsertedAt)
	return size + raw.TimeUnixMicro.Size(v.UpdatedAt)
}

func (s sessionMUS) Skip(bs []byte) (n int, err error) {
	n, err = ord.String.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	return
}

var BillMUS = billMUS{}

type billMUS struct{}

func (s billMUS) Marshal(v Bill, bs []byte) (n int) {
	n = ord.String.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.SessionId, bs[n:])
	n += ord.String.Marshal(v.Name, bs[n:])
	n += ord.String.Marshal(v.Proposer, bs[n:])
	n += ord.String.Marshal(v.MainCategory, bs[n:])
	n += sliceV7grjewCoBbb70vYhu9QhQΞΞ.Marshal(v.SubCategories, bs[n:])
	n += sliceV7grjewCoBbb70vYhu9QhQΞΞ.Marshal(v.Keywords, bs[n:])
	n += ord.Bool.Marshal(v.Synthetic, bs[n:])
	n += raw.TimeUnixMicro.Marshal(v.InsertedAt, bs[n:])
	return n + raw.TimeUnixMicro.Marshal(v.UpdatedAt, bs[n:])
}

func (s billMUS) Unmarshal(bs []byte) (v Bill, n int, err error) {
	v.Id, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.SessionId, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Name, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Proposer, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.MainCategory, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.SubCategories, n1, err = sliceV7grjewCoBbb70vYhu9QhQΞΞ.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Keywords, n1, err = sliceV7grjewCoBbb70vYhu9QhQΞΞ.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Synthetic, n1, err = ord.Bool.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.InsertedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.UpdatedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	return
}

func (s billMUS) Size(v Bill) (size int) {
	size = ord.String.Size(v.Id)
	size += ord.String.Size(v.SessionId)
	size += ord.String.Size(v.Name)
	size += ord.String.Size(v.Proposer)
	size += ord.String.Size(v.MainCategory)
	size += sliceV7grjewCoBbb70vYhu9QhQΞΞ.Size(v.SubCategories)
	size += sliceV7grjewCoBbb70vYhu9QhQΞΞ.Size(v.Keywords)
	size += ord.Bool.Size(v.Synthetic)
	size += raw.TimeUnixMicro.Size(v.InsertedAt)
	return size + raw.TimeUnixMicro.Size(v.UpdatedAt)
}

func (s billMUS) Skip(bs []byte) (n int, err error) {
	n, err = ord.String.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = sliceV7grjewCoBbb70vYhu9QhQΞΞ.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = sliceV7grjewCoBbb70vYhu9QhQΞΞ.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.Bool.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	return
}

var PartyAffiliationMUS = partyAffiliationMUS{}

type partyAffiliationMUS struct{}

func (s partyAffiliationMUS) Marshal(v PartyAffiliation, bs []byte) (n int) {
	n = ord.String.Marshal(v.Party, bs)
	n += varint.Int.Marshal(v.Ordinal, bs[n:])
	return n + ord.Bool.Marshal(v.IsCurrent, bs[n:])
}

func (s partyAffiliationMUS) Unmarshal(bs []byte) (v PartyAffiliation, n int, err error) {
	v.Party, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Ordinal, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.IsCurrent, n1, err = ord.Bool.Unmarshal(bs[n:])
	n += n1
	return
}

func (s partyAffiliationMUS) Size(v PartyAffiliation) (size int) {
	size = ord.String.Size(v.Party)
	size += varint.Int.Size(v.Ordinal)
	return size + ord.Bool.Size(v.IsCurrent)
}

func (s partyAffiliationMUS) Skip(bs []byte) (n int, err error) {
	n, err = ord.String.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = varint.Int.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.Bool.Skip(bs[n:])
	n += n1
	return
}

var SpeakerMUS = speakerMUS{}

type speakerMUS struct{}

func (s speakerMUS) Marshal(v Speaker, bs []byte) (n int) {
	n = ord.String.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.Name, bs[n:])
	n += ord.String.Marshal(v.CurrentParty, bs[n:])
	n += slice5l9R4ScBwsh3rD7fkuzXwQΞΞ.Marshal(v.Affiliations, bs[n:])
	n += ord.Bool.Marshal(v.Placeholder, bs[n:])
	n += raw.TimeUnixMicro.Marshal(v.InsertedAt, bs[n:])
	return n + raw.TimeUnixMicro.Marshal(v.UpdatedAt, bs[n:])
}

func (s speakerMUS) Unmarshal(bs []byte) (v Speaker, n int, err error) {
	v.Id, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Name, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.CurrentParty, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Affiliations, n1, err = slice5l9R4ScBwsh3rD7fkuzXwQΞΞ.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Placeholder, n1, err = ord.Bool.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.InsertedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.UpdatedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	return
}

func (s speakerMUS) Size(v Speaker) (size int) {
	size = ord.String.Size(v.Id)
	size += ord.String.Size(v.Name)
	size += ord.String.Size(v.CurrentParty)
	size += slice5l9R4ScBwsh3rD7fkuzXwQΞΞ.Size(v.Affiliations)
	size += ord.Bool.Size(v.Placeholder)
	size += raw.TimeUnixMicro.Size(v.InsertedAt)
	return size + raw.TimeUnixMicro.Size(v.UpdatedAt)
}

func (s speakerMUS) Skip(bs []byte) (n int, err error) {
	n, err = ord.String.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = slice5l9R4ScBwsh3rD7fkuzXwQΞΞ.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.Bool.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	return
}

var StatementMUS = statementMUS{}

type statementMUS struct{}

func (s statementMUS) Marshal(v Statement, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.SessionId, bs[n:])
	n += ord.String.Marshal(v.BillId, bs[n:])
	n += ord.String.Marshal(v.SpeakerId, bs[n:])
	n += ord.String.Marshal(v.Text, bs[n:])
	n += varint.Float64.Marshal(v.Score, bs[n:])
	n += ord.Bool.Marshal(v.ScoreValid, bs[n:])
	n += ord.String.Marshal(v.Reason, bs[n:])
	n += sliceV7grjewCoBbb70vYhu9QhQΞΞ.Marshal(v.PolicyTags, bs[n:])
	n += raw.TimeUnixMicro.Marshal(v.InsertedAt, bs[n:])
	return n + raw.TimeUnixMicro.Marshal(v.UpdatedAt, bs[n:])
}

func (s statementMUS) Unmarshal(bs []byte) (v Statement, n int, err error) {
	v.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.SessionId, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.BillId, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.SpeakerId, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Text, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Score, n1, err = varint.Float64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.ScoreValid, n1, err = ord.Bool.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Reason, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.PolicyTags, n1, err = sliceV7grjewCoBbb70vYhu9QhQΞΞ.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.InsertedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.UpdatedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	return
}

func (s statementMUS) Size(v Statement) (size int) {
	size = IDMUS.Size(v.Id)
	size += ord.String.Size(v.SessionId)
	size += ord.String.Size(v.BillId)
	size += ord.String.Size(v.SpeakerId)
	size += ord.String.Size(v.Text)
	size += varint.Float64.Size(v.Score)
	size += ord.Bool.Size(v.ScoreValid)
	size += ord.String.Size(v.Reason)
	size += sliceV7grjewCoBbb70vYhu9QhQΞΞ.Size(v.PolicyTags)
	size += raw.TimeUnixMicro.Size(v.InsertedAt)
	return size + raw.TimeUnixMicro.Size(v.UpdatedAt)
}

func (s statementMUS) Skip(bs []byte) (n int, err error) {
	n, err = IDMUS.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Float64.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.Bool.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = sliceV7grjewCoBbb70vYhu9QhQΞΞ.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	return
}

var VotingRecordMUS = votingRecordMUS{}

type votingRecordMUS struct{}

func (s votingRecordMUS) Marshal(v VotingRecord, bs []byte) (n int) {
	n = ord.String.Marshal(v.BillId, bs)
	n += ord.String.Marshal(v.SpeakerId, bs[n:])
	n += VoteResultMUS.Marshal(v.Result, bs[n:])
	n += raw.TimeUnixMicro.Marshal(v.InsertedAt, bs[n:])
	return n + raw.TimeUnixMicro.Marshal(v.UpdatedAt, bs[n:])
}

func (s votingRecordMUS) Unmarshal(bs []byte) (v VotingRecord, n int, err error) {
	v.BillId, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.SpeakerId, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Result, n1, err = VoteResultMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.InsertedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.UpdatedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	return
}

func (s votingRecordMUS) Size(v VotingRecord) (size int) {
	size = ord.String.Size(v.BillId)
	size += ord.String.Size(v.SpeakerId)
	size += VoteResultMUS.Size(v.Result)
	size += raw.TimeUnixMicro.Size(v.InsertedAt)
	return size + raw.TimeUnixMicro.Size(v.UpdatedAt)
}

func (s votingRecordMUS) Skip(bs []byte) (n int, err error) {
	n, err = ord.String.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = VoteResultMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	return
}

var CategoryMUS = categoryMUS{}

type categoryMUS struct{}

func (s categoryMUS) Marshal(v Category, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.Kind, bs[n:])
	n += ord.String.Marshal(v.Name, bs[n:])
	n += raw.TimeUnixMicro.Marshal(v.InsertedAt, bs[n:])
	return n + raw.TimeUnixMicro.Marshal(v.UpdatedAt, bs[n:])
}

func (s categoryMUS) Unmarshal(bs []byte) (v Category, n int, err error) {
	v.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Kind, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Name, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.InsertedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.UpdatedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	return
}

func (s categoryMUS) Size(v Category) (size int) {
	size = IDMUS.Size(v.Id)
	size += ord.String.Size(v.Kind)
	size += ord.String.Size(v.Name)
	size += raw.TimeUnixMicro.Size(v.InsertedAt)
	return size + raw.TimeUnixMicro.Size(v.UpdatedAt)
}

func (s categoryMUS) Skip(bs []byte) (n int, err error) {
	n, err = IDMUS.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	return
}
