package cases

import (
	"fmt"
	"os"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
)

// Index is a bleve full-text index over cases
type Index struct {
	index bleve.Index
	path  string
	mu    sync.RWMutex
}

// caseDocument is the indexed view of a case
type caseDocument struct {
	Project   string `json:"project"`
	Package   string `json:"package"`
	ClassName string `json:"class_name"`
	SmellType string `json:"smell_type"`
	Reason    string `json:"reason"`
	Excerpt   string `json:"excerpt"`
	Strategy  string `json:"strategy"`
}

// SearchResult is one matching case
type SearchResult struct {
	CaseID    string  `json:"case_id"`
	ClassName string  `json:"class_name"`
	SmellType string  `json:"smell_type"`
	Score     float64 `json:"score"`
	Snippet   string  `json:"snippet,omitempty"`
}

// OpenIndex opens the index at path, creating it when missing. A corrupt
// index is discarded and rebuilt empty.
func OpenIndex(path string) (*Index, error) {
	index, err := bleve.Open(path)
	if err == bleve.ErrorIndexPathDoesNotExist {
		index, err = bleve.New(path, buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("failed to create case index: %w", err)
		}
	} else if err != nil {
		_ = os.RemoveAll(path)
		index, err = bleve.New(path, buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("failed to create case index: %w", err)
		}
	}

	return &Index{index: index, path: path}, nil
}

func buildIndexMapping() mapping.IndexMapping {
	textField := bleve.NewTextFieldMapping()
	textField.Analyzer = "en"

	// Code is tokenized without stemming so identifiers stay intact
	codeField := bleve.NewTextFieldMapping()
	codeField.Analyzer = "standard"

	keywordField := bleve.NewTextFieldMapping()
	keywordField.Analyzer = "keyword"

	caseMapping := bleve.NewDocumentMapping()
	caseMapping.AddFieldMappingsAt("project", keywordField)
	caseMapping.AddFieldMappingsAt("package", keywordField)
	caseMapping.AddFieldMappingsAt("class_name", keywordField)
	caseMapping.AddFieldMappingsAt("smell_type", keywordField)
	caseMapping.AddFieldMappingsAt("strategy", keywordField)
	caseMapping.AddFieldMappingsAt("reason", textField)
	caseMapping.AddFieldMappingsAt("excerpt", codeField)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = caseMapping
	indexMapping.DefaultAnalyzer = "standard"
	return indexMapping
}

func toDocument(c *Case) caseDocument {
	return caseDocument{
		Project:   c.Project,
		Package:   c.Package,
		ClassName: c.ClassName,
		SmellType: c.SmellType,
		Reason:    c.DetectorReason,
		Excerpt:   c.CodeExcerpt,
		Strategy:  string(c.ExcerptStrategy),
	}
}

// Replace makes the index hold exactly all: cases indexed by an earlier
// build that are not in all are deleted in the same batch.
func (x *Index) Replace(all []Case) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	keep := make(map[string]bool, len(all))
	for i := range all {
		keep[all[i].CaseID] = true
	}

	existing, err := x.documentIDs()
	if err != nil {
		return err
	}

	batch := x.index.NewBatch()
	for _, id := range existing {
		if !keep[id] {
			batch.Delete(id)
		}
	}
	for i := range all {
		if err := batch.Index(all[i].CaseID, toDocument(&all[i])); err != nil {
			return fmt.Errorf("failed to index case %s: %w", all[i].CaseID, err)
		}
	}
	return x.index.Batch(batch)
}

func (x *Index) documentIDs() ([]string, error) {
	count, err := x.index.DocCount()
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, nil
	}

	req := bleve.NewSearchRequestOptions(bleve.NewMatchAllQuery(), int(count), 0, false)
	res, err := x.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("failed to list indexed cases: %w", err)
	}
	ids := make([]string, 0, len(res.Hits))
	for _, hit := range res.Hits {
		ids = append(ids, hit.ID)
	}
	return ids, nil
}

// Search runs a full-text query over reasons and excerpts. A non-empty
// smellType restricts results to that smell.
func (x *Index) Search(text, smellType string, limit int) ([]SearchResult, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}

	textQuery := bleve.NewMatchQuery(text)
	textQuery.SetFuzziness(1)

	var q query.Query = textQuery
	if smellType != "" {
		typeQuery := bleve.NewTermQuery(smellType)
		typeQuery.SetField("smell_type")
		q = bleve.NewConjunctionQuery(textQuery, typeQuery)
	}

	req := bleve.NewSearchRequest(q)
	req.Size = limit
	req.Fields = []string{"class_name", "smell_type"}
	req.Highlight = bleve.NewHighlight()

	res, err := x.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	results := make([]SearchResult, 0, len(res.Hits))
	for _, hit := range res.Hits {
		r := SearchResult{CaseID: hit.ID, Score: hit.Score}
		if v, ok := hit.Fields["class_name"].(string); ok {
			r.ClassName = v
		}
		if v, ok := hit.Fields["smell_type"].(string); ok {
			r.SmellType = v
		}
		for _, fragments := range hit.Fragments {
			if len(fragments) > 0 {
				r.Snippet = fragments[0]
				break
			}
		}
		results = append(results, r)
	}
	return results, nil
}

// DocCount returns the number of indexed cases
func (x *Index) DocCount() (uint64, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.index.DocCount()
}

// Close closes the index
func (x *Index) Close() error {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.index.Close()
}
