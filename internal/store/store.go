// Package store keeps document collections in memory, grouped by type name,
// with Roaring bitmap indexes of which documents carry which fields.
package store

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/usestring/exemplar-mcp/pkg/document"
	"github.com/usestring/exemplar-mcp/pkg/exemplar"
)

// ErrLimitExceeded is returned when an add would grow a collection past the
// configured per-type limit.
var ErrLimitExceeded = errors.New("document limit exceeded")

// collection tracks the documents of one type.
type collection struct {
	docIDs     *roaring.Bitmap
	coverage   map[string]*roaring.Bitmap // selector -> docs with a typed value there
	generation uint64
	updatedAt  time.Time
}

// Store maintains typed document collections. Document IDs are assigned
// from a single sequence shared by all types, so iterating a collection's
// bitmap yields its documents in insertion order.
type Store struct {
	mu sync.RWMutex

	docs       []*document.Object // docID -> document, nil once removed
	nextDocID  uint32
	generation uint64 // last generation handed to any collection
	types      map[string]*collection

	maxPerType int
	classifier exemplar.Classifier
}

// New creates a store. maxPerType <= 0 disables the per-type limit.
func New(maxPerType int) *Store {
	return &Store{
		docs:       make([]*document.Object, 0, 1024),
		types:      make(map[string]*collection),
		maxPerType: maxPerType,
		classifier: exemplar.DefaultClassifier(),
	}
}

// AddResult describes a collection after a write.
type AddResult struct {
	Added      int
	Total      int
	Generation uint64
}

// Add appends docs to typeName's collection, creating it if needed. Every
// successful call gives the collection a new generation, unique within the
// store even across Reset.
func (s *Store) Add(typeName string, docs []*document.Object) (AddResult, error) {
	return s.write(typeName, docs, false)
}

// Replace swaps typeName's documents for docs.
func (s *Store) Replace(typeName string, docs []*document.Object) (AddResult, error) {
	return s.write(typeName, docs, true)
}

func (s *Store) write(typeName string, docs []*document.Object, replace bool) (AddResult, error) {
	if typeName == "" {
		return AddResult{}, errors.New("type name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	coll, exists := s.types[typeName]
	current := 0
	if exists && !replace {
		current = int(coll.docIDs.GetCardinality())
	}
	if s.maxPerType > 0 && current+len(docs) > s.maxPerType {
		return AddResult{}, fmt.Errorf("%w: type %q would hold %d documents (max %d)",
			ErrLimitExceeded, typeName, current+len(docs), s.maxPerType)
	}

	if !exists {
		coll = &collection{
			docIDs:   roaring.New(),
			coverage: make(map[string]*roaring.Bitmap),
		}
		s.types[typeName] = coll
	} else if replace {
		s.release(coll)
		coll.docIDs = roaring.New()
		coll.coverage = make(map[string]*roaring.Bitmap)
	}

	added := 0
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		added++
		docID := s.nextDocID
		s.nextDocID++
		s.docs = append(s.docs, doc)
		coll.docIDs.Add(docID)
		s.indexFields(coll, document.ObjectValue(doc), "", docID)
	}

	s.generation++
	coll.generation = s.generation
	coll.updatedAt = time.Now()

	return AddResult{
		Added:      added,
		Total:      int(coll.docIDs.GetCardinality()),
		Generation: coll.generation,
	}, nil
}

// indexFields marks docID in the coverage bitmap of every selector under v
// holding a typed value. Objects inside arrays share their array's selector.
func (s *Store) indexFields(coll *collection, v document.Value, prefix string, docID uint32) {
	switch v.Kind() {
	case document.KindArray:
		for _, e := range v.Elems() {
			s.indexFields(coll, e, prefix, docID)
		}
	case document.KindObject:
		v.Object().Range(func(key string, child document.Value) bool {
			if key == "" {
				return true
			}
			selector := key
			if prefix != "" {
				selector = prefix + "." + key
			}
			if s.classifier.Classify(child) != exemplar.TagNone {
				bm, ok := coll.coverage[selector]
				if !ok {
					bm = roaring.New()
					coll.coverage[selector] = bm
				}
				bm.Add(docID)
			}
			s.indexFields(coll, child, selector, docID)
			return true
		})
	}
}

// release drops the document references of coll.
func (s *Store) release(coll *collection) {
	it := coll.docIDs.Iterator()
	for it.HasNext() {
		s.docs[it.Next()] = nil
	}
}

// Documents returns typeName's documents in insertion order with the
// collection generation. ok is false for unknown types.
func (s *Store) Documents(typeName string) (docs []*document.Object, generation uint64, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	coll, exists := s.types[typeName]
	if !exists {
		return nil, 0, false
	}

	docs = make([]*document.Object, 0, coll.docIDs.GetCardinality())
	it := coll.docIDs.Iterator()
	for it.HasNext() {
		docs = append(docs, s.docs[it.Next()])
	}
	return docs, coll.generation, true
}

// Generation returns the write counter of typeName, 0 if unknown.
func (s *Store) Generation(typeName string) uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if coll, ok := s.types[typeName]; ok {
		return coll.generation
	}
	return 0
}

// FieldCoverage counts the documents holding a typed value at Selector.
type FieldCoverage struct {
	Selector  string
	Documents int
}

// Coverage returns per-selector document counts for typeName sorted by
// selector, plus the collection size.
func (s *Store) Coverage(typeName string) (fields []FieldCoverage, total int, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	coll, exists := s.types[typeName]
	if !exists {
		return nil, 0, false
	}

	fields = make([]FieldCoverage, 0, len(coll.coverage))
	for sel, bm := range coll.coverage {
		fields = append(fields, FieldCoverage{Selector: sel, Documents: int(bm.GetCardinality())})
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].Selector < fields[j].Selector })
	return fields, int(coll.docIDs.GetCardinality()), true
}

// Missing returns the documents of typeName lacking a typed value at
// selector, in insertion order.
func (s *Store) Missing(typeName, selector string) []*document.Object {
	s.mu.RLock()
	defer s.mu.RUnlock()

	coll, exists := s.types[typeName]
	if !exists {
		return nil
	}

	missing := coll.docIDs.Clone()
	if bm, ok := coll.coverage[selector]; ok {
		missing.AndNot(bm)
	}

	out := make([]*document.Object, 0, missing.GetCardinality())
	it := missing.Iterator()
	for it.HasNext() {
		out = append(out, s.docs[it.Next()])
	}
	return out
}

// TypeInfo summarizes one collection.
type TypeInfo struct {
	Name       string
	Documents  int
	Fields     int
	Generation uint64
	UpdatedAt  time.Time
}

// Types lists all collections sorted by name.
func (s *Store) Types() []TypeInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]TypeInfo, 0, len(s.types))
	for name, coll := range s.types {
		out = append(out, TypeInfo{
			Name:       name,
			Documents:  int(coll.docIDs.GetCardinality()),
			Fields:     len(coll.coverage),
			Generation: coll.generation,
			UpdatedAt:  coll.updatedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Reset removes typeName and its documents. Reports whether it existed.
func (s *Store) Reset(typeName string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	coll, ok := s.types[typeName]
	if !ok {
		return false
	}
	s.release(coll)
	delete(s.types, typeName)
	return true
}

// DocCount returns the number of live documents across all types.
func (s *Store) DocCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, coll := range s.types {
		n += int(coll.docIDs.GetCardinality())
	}
	return n
}
