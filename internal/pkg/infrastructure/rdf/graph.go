package rdf

import (
	"fmt"

	"github.com/cayleygraph/quad"
)

// Graph is an in-memory set of subject-predicate-object triples. Terms are
// quad values: IRIs, blank nodes and literals. Insertion order is preserved
// for all lookups, and adding a triple that is already present is a no-op.
//
// A Graph is not safe for concurrent mutation. The mapping layer builds one
// graph per pass and hands it over, so no locking is needed.
type Graph struct {
	triples []quad.Quad
	present map[spoKey]struct{}
	objects map[spKey][]quad.Value
	subject map[poKey][]quad.Value
	bnodes  int
}

type spoKey struct{ s, p, o quad.Value }
type spKey struct{ s, p quad.Value }
type poKey struct{ p, o quad.Value }

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{
		present: map[spoKey]struct{}{},
		objects: map[spKey][]quad.Value{},
		subject: map[poKey][]quad.Value{},
	}
}

// Add inserts a triple. Duplicates are ignored.
func (g *Graph) Add(s quad.Value, p quad.IRI, o quad.Value) {
	key := spoKey{s, quad.Value(p), o}
	if _, dup := g.present[key]; dup {
		return
	}

	g.present[key] = struct{}{}
	g.triples = append(g.triples, quad.Quad{Subject: s, Predicate: p, Object: o})
	g.objects[spKey{s, quad.Value(p)}] = append(g.objects[spKey{s, quad.Value(p)}], o)
	g.subject[poKey{quad.Value(p), o}] = append(g.subject[poKey{quad.Value(p), o}], s)
}

// Objects returns all objects for the given subject and predicate, in
// insertion order.
func (g *Graph) Objects(s quad.Value, p quad.IRI) []quad.Value {
	return g.objects[spKey{s, quad.Value(p)}]
}

// Object returns the first object for the given subject and predicate, or
// nil if there is none.
func (g *Graph) Object(s quad.Value, p quad.IRI) quad.Value {
	objs := g.Objects(s, p)
	if len(objs) == 0 {
		return nil
	}
	return objs[0]
}

// Subjects returns all subjects holding the given predicate and object, in
// insertion order. Used to enumerate typed nodes, eg all dcat:Dataset
// subjects.
func (g *Graph) Subjects(p quad.IRI, o quad.Value) []quad.Value {
	return g.subject[poKey{quad.Value(p), o}]
}

// Has reports whether the exact triple is part of the graph.
func (g *Graph) Has(s quad.Value, p quad.IRI, o quad.Value) bool {
	_, ok := g.present[spoKey{s, quad.Value(p), o}]
	return ok
}

// Len returns the number of triples in the graph.
func (g *Graph) Len() int {
	return len(g.triples)
}

// Triples returns the underlying triples in insertion order. The returned
// slice must not be modified.
func (g *Graph) Triples() []quad.Quad {
	return g.triples
}

// NewBNode allocates a blank node that is unique within this graph. Blank
// node identity is local to the owning graph and never portable across
// graph instances.
func (g *Graph) NewBNode() quad.BNode {
	g.bnodes++
	return quad.BNode(fmt.Sprintf("b%d", g.bnodes))
}

// TermString returns the plain string value of a term: the IRI or blank
// node identifier, or the lexical form of a literal without quoting,
// language tag or datatype.
func TermString(v quad.Value) string {
	switch t := v.(type) {
	case quad.IRI:
		return string(t)
	case quad.BNode:
		return string(t)
	case quad.String:
		return string(t)
	case quad.LangString:
		return string(t.Value)
	case quad.TypedString:
		return string(t.Value)
	case nil:
		return ""
	default:
		return fmt.Sprint(v.Native())
	}
}

// IsIRI reports whether the term carries portable IRI identity, as opposed
// to a blank node or a literal.
func IsIRI(v quad.Value) bool {
	_, ok := v.(quad.IRI)
	return ok
}

// IsLiteral reports whether the term is a literal of any flavour.
func IsLiteral(v quad.Value) bool {
	switch v.(type) {
	case quad.String, quad.LangString, quad.TypedString:
		return true
	}
	return false
}

// Datatype returns the datatype IRI of a typed literal, or the empty IRI
// for any other term.
func Datatype(v quad.Value) quad.IRI {
	if ts, ok := v.(quad.TypedString); ok {
		return ts.Type
	}
	return ""
}

// Literal builds a plain literal term.
func Literal(value string) quad.Value {
	return quad.String(value)
}

// LangLiteral builds a language-tagged literal term.
func LangLiteral(value, lang string) quad.Value {
	return quad.LangString{Value: quad.String(value), Lang: lang}
}

// TypedLiteral builds a literal term with a datatype IRI.
func TypedLiteral(value string, datatype quad.IRI) quad.Value {
	return quad.TypedString{Value: quad.String(value), Type: datatype}
}
