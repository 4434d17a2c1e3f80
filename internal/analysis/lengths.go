package analysis

// LengthTable maps a document title to the highest page number observed
// for it across the whole manifest. It is an inferred page count: it
// only holds the true document length when the corpus actually contains
// the document's last page.
type LengthTable map[string]int

// BuildLengthTable derives the length table from annotated records.
// Records without document title or page number contribute nothing, so
// a document whose every record lacks a page number is omitted.
func BuildLengthTable(records []ImageRecord) LengthTable {
	table := make(LengthTable)
	for _, rec := range records {
		if rec.DocTitle == "" || rec.PageNr == 0 {
			continue
		}
		if rec.PageNr > table[rec.DocTitle] {
			table[rec.DocTitle] = rec.PageNr
		}
	}
	return table
}

// LastPages returns the records of selection sitting on their document's
// inferred last page. Records whose document is absent from the table
// are excluded.
func LastPages(selection []ImageRecord, table LengthTable) []ImageRecord {
	var last []ImageRecord
	for _, rec := range selection {
		if rec.DocTitle == "" || rec.PageNr == 0 {
			continue
		}
		if nr, ok := table[rec.DocTitle]; ok && rec.PageNr == nr {
			last = append(last, rec)
		}
	}
	return last
}

// FirstPages returns the records of selection sitting on page 1 of
// their document.
func FirstPages(selection []ImageRecord) []ImageRecord {
	var first []ImageRecord
	for _, rec := range selection {
		if rec.DocTitle != "" && rec.PageNr == 1 {
			first = append(first, rec)
		}
	}
	return first
}
