package reads

import "github.com/grailbio/lrge"

// nextFASTA reads one FASTA record, accumulating all sequence lines up to
// the next header (or EOF), in the same spirit as the eager unindexed
// reader in github.com/grailbio/bio/encoding/fasta, but streaming one record
// at a time rather than loading the whole file.
func (r *Reader) nextFASTA() (Record, bool) {
	header, ok := r.scanLine()
	if !ok {
		return Record{}, false
	}
	if len(header) == 0 || header[0] != '>' {
		r.err = lrge.Errorf(lrge.InvalidRecord, "expected '>' header, got %q", header)
		return Record{}, false
	}
	id := splitID(header[1:])

	var seq []byte
	for {
		peek, err := r.br.Peek(1)
		if err != nil || len(peek) == 0 {
			break
		}
		if peek[0] == '>' {
			break
		}
		line, ok := r.scanLine()
		if !ok {
			break
		}
		seq = append(seq, line...)
	}
	if len(seq) == 0 {
		r.err = lrge.Errorf(lrge.InvalidRecord, "empty sequence for record %q", id)
		return Record{}, false
	}
	return Record{ID: id, Length: len(seq), Seq: seq}, true
}
