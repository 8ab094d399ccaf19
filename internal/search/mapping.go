package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/simple"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"
)

// Indexed field names.
const (
	fieldTitle   = "title"
	fieldSummary = "summary"
	fieldGenres  = "genres"
	fieldTeams   = "teams"
	fieldIndex   = "index"
)

// buildIndexMapping creates the Bleve mapping for game documents.
//
// Titles and summaries use English stemming. Genre and team names use the
// simple analyzer so "Turn Based Strategy" is not stemmed. The row index is
// numeric so an empty query can list games in table order.
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = en.AnalyzerName

	docMapping := bleve.NewDocumentMapping()

	titleFieldMapping := bleve.NewTextFieldMapping()
	titleFieldMapping.Analyzer = en.AnalyzerName
	titleFieldMapping.Store = true
	titleFieldMapping.IncludeTermVectors = true // For highlighting
	docMapping.AddFieldMappingsAt(fieldTitle, titleFieldMapping)

	// Searchable but not stored (too large)
	summaryFieldMapping := bleve.NewTextFieldMapping()
	summaryFieldMapping.Analyzer = en.AnalyzerName
	summaryFieldMapping.Store = false
	docMapping.AddFieldMappingsAt(fieldSummary, summaryFieldMapping)

	genresFieldMapping := bleve.NewTextFieldMapping()
	genresFieldMapping.Analyzer = simple.Name
	genresFieldMapping.Store = true
	docMapping.AddFieldMappingsAt(fieldGenres, genresFieldMapping)

	teamsFieldMapping := bleve.NewTextFieldMapping()
	teamsFieldMapping.Analyzer = simple.Name
	teamsFieldMapping.Store = true
	docMapping.AddFieldMappingsAt(fieldTeams, teamsFieldMapping)

	indexFieldMapping := bleve.NewNumericFieldMapping()
	indexFieldMapping.Store = true
	docMapping.AddFieldMappingsAt(fieldIndex, indexFieldMapping)

	indexMapping.AddDocumentMapping("_default", docMapping)

	return indexMapping
}
