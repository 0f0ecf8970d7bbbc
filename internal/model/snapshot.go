package model

import "time"

// SubdomainCount is one entry of the subdomain frequency table.
type SubdomainCount struct {
	// Subdomain is the scheme://host form of the subdomain.
	Subdomain string `json:"subdomain"`

	// Count is the number of unique pages accepted under the subdomain.
	Count int `json:"count"`
}

// WordCount is one entry of the word frequency table.
type WordCount struct {
	// Word is the lowercased token.
	Word string `json:"word"`

	// Count is the number of occurrences across all accepted pages.
	Count int `json:"count"`
}

// Snapshot holds the corpus statistics accumulated over a crawl.
// It is produced once at crawl end (including interrupted crawls) and
// consumed by the report writers.
type Snapshot struct {
	// UniquePages is the number of distinct canonical pages the crawl
	// processed. A page rejected by the content checks still counts:
	// it was fetched and considered once, and will never be again.
	UniquePages int `json:"unique_pages"`

	// LongestURL is the page with the highest word count.
	LongestURL string `json:"longest_url"`

	// LongestWordCount is the word count of LongestURL.
	LongestWordCount int `json:"longest_word_count"`

	// Subdomains lists (subdomain, page count) pairs sorted
	// alphabetically by subdomain, restricted to hosts under the
	// overall allowed domain.
	Subdomains []SubdomainCount `json:"subdomains"`

	// TopWords lists the 50 most frequent words in descending order
	// of frequency, stop words excluded.
	TopWords []WordCount `json:"top_words"`

	// TotalDiscovered is the number of distinct URLs ever enqueued.
	TotalDiscovered int `json:"total_discovered"`

	// TotalCompleted is the number of URLs fetched and marked complete.
	TotalCompleted int `json:"total_completed"`

	// Started is when the crawl began.
	Started time.Time `json:"started"`

	// Finished is when the snapshot was taken.
	Finished time.Time `json:"finished"`
}
