package rdf

import (
	"io"

	"github.com/cayleygraph/quad"
	"github.com/cayleygraph/quad/nquads"
)

// Load reads N-Quads/N-Triples statements into the graph. Statements that
// fail to parse are skipped, and statements whose predicate is not an IRI
// are ignored.
func (g *Graph) Load(r io.Reader) error {
	qr := nquads.NewReader(r, true)
	defer qr.Close()

	for {
		q, err := qr.ReadQuad()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		pred, ok := q.Predicate.(quad.IRI)
		if !ok {
			continue
		}

		g.Add(q.Subject, pred, q.Object)
	}
}

// Write serializes the graph as N-Quads, in insertion order.
func (g *Graph) Write(w io.Writer) error {
	qw := nquads.NewWriter(w)

	for _, t := range g.triples {
		if err := qw.WriteQuad(t); err != nil {
			qw.Close()
			return err
		}
	}

	return qw.Close()
}
