package data

// A Lookup records the identifying strings a source was invoked with, so a
// candidate can always be traced back to the query that produced it.
type Lookup struct {
	MBID       string
	WikidataID string
	Name       string
}

// A Candidate is one source's best answer for an artist image lookup. Err
// carries transport detail when the source failed; a nil-URL candidate with a
// nil Err means the source answered "not found".
type Candidate struct {
	// Source names the adapter that produced this candidate, like
	// "bandcamp" or "wikidata".
	Source string

	URL string
	Err error

	Invoked Lookup
}
