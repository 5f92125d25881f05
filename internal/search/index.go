// Package search implements the semantic lookup collaborator as a
// brute-force cosine search over hashed bag-of-words vectors. The index
// is rebuilt from the store on every query, so results always reflect
// the current collection. Exact, not approximate; at todo-list sizes
// this is sub-millisecond.
package search

import (
	"context"
	"hash/fnv"
	"math"
	"sort"
	"strings"
	"unicode"

	"pkt.systems/todoagent/core"
	"pkt.systems/todoagent/schema"
)

// vectorDims is the hashed embedding width. Collisions are acceptable;
// the vectors only need to rank todos, not identify them.
const vectorDims = 256

// Index searches todos by meaning rather than exact match.
type Index struct {
	store core.Store
}

// NewIndex constructs an index over the given store.
func NewIndex(store core.Store) *Index {
	return &Index{store: store}
}

// Search returns the top-k todos by cosine similarity to the query,
// scores in [0,1], best first. Todos with no term overlap are omitted.
func (idx *Index) Search(ctx context.Context, query string, k int) ([]schema.ScoredTodo, error) {
	if k <= 0 {
		k = schema.DefaultSearchLimit
	}
	todos, err := idx.store.List(ctx)
	if err != nil {
		return nil, err
	}
	queryVec := embed(query)
	results := make([]schema.ScoredTodo, 0, len(todos))
	for _, todo := range todos {
		doc := todo.Title
		if todo.Description != "" {
			doc += ". " + todo.Description
		}
		score := dot(queryVec, embed(doc))
		if score <= 0 {
			continue
		}
		results = append(results, schema.ScoredTodo{Todo: todo, Score: score})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// embed maps text to an L2-normalized hashed bag-of-words vector, so
// the dot product of two embeddings is their cosine similarity.
func embed(text string) []float64 {
	vec := make([]float64, vectorDims)
	for _, term := range terms(text) {
		h := fnv.New32a()
		_, _ = h.Write([]byte(term))
		vec[h.Sum32()%vectorDims]++
	}
	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	if norm == 0 {
		return vec
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i] /= norm
	}
	return vec
}

func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// terms lowercases and splits text into alphanumeric runs, folding
// trivial plurals so "exams" matches "exam".
func terms(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) > 3 && strings.HasSuffix(f, "s") {
			f = strings.TrimSuffix(f, "s")
		}
		out = append(out, f)
	}
	return out
}
