package neo4j

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/osland/kerneldeps/internal/graph"
	"github.com/osland/kerneldeps/internal/kernel"
)

// Neo4jRepository implements graph.Repository using Neo4j.
type Neo4jRepository struct {
	driver neo4j.DriverWithContext
}

// NewNeo4j creates a Neo4j-backed repository.
func NewNeo4j(ctx context.Context, uri, username, password string) (*Neo4jRepository, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("neo4j driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		return nil, fmt.Errorf("neo4j connectivity: %w", err)
	}
	return &Neo4jRepository{driver: driver}, nil
}

func (r *Neo4jRepository) StoreStructure(ctx context.Context, st *kernel.Structure) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		for _, c := range st.Components {
			_, err := tx.Run(ctx,
				"MERGE (c:Component {name: $name}) SET c.type = $type, c.structure = $structure",
				map[string]any{"name": c.Name, "type": string(c.Type), "structure": st.Name})
			if err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("store components: %w", err)
	}

	_, err = session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		for _, e := range st.Edges() {
			_, err := tx.Run(ctx,
				"MERGE (a:Component {name: $from}) "+
					"MERGE (b:Component {name: $to}) "+
					"MERGE (a)-[d:DEPENDS_ON]->(b) SET d.type = $type, d.count = $count",
				map[string]any{"from": e.From, "to": e.To, "type": string(e.Type), "count": e.Count})
			if err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("store dependencies: %w", err)
	}
	return nil
}

func (r *Neo4jRepository) LoadStructure(ctx context.Context, name string) (*kernel.Structure, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		records, err := tx.Run(ctx,
			"MATCH (c:Component {structure: $structure}) "+
				"OPTIONAL MATCH (c)-[:DEPENDS_ON]->(d:Component) "+
				"RETURN c.name, c.type, collect(d.name) as deps",
			map[string]any{"structure": name})
		if err != nil {
			return nil, err
		}

		st := &kernel.Structure{Name: name}
		for records.Next(ctx) {
			rec := records.Record()
			cname, _ := rec.Get("c.name")
			ctype, _ := rec.Get("c.type")
			deps, _ := rec.Get("deps")

			component := kernel.Component{
				Name: cname.(string),
				Type: kernel.ComponentType(ctype.(string)),
			}
			for _, d := range deps.([]any) {
				if d != nil {
					component.Dependencies = append(component.Dependencies, d.(string))
				}
			}
			st.Components = append(st.Components, component)
		}
		return st, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*kernel.Structure), nil
}

func (r *Neo4jRepository) QueryDependents(ctx context.Context, component string) ([]string, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		records, err := tx.Run(ctx,
			"MATCH (d:Component)-[:DEPENDS_ON]->(:Component {name: $name}) RETURN d.name",
			map[string]any{"name": component})
		if err != nil {
			return nil, err
		}
		var names []string
		for records.Next(ctx) {
			n, _ := records.Record().Get("d.name")
			names = append(names, n.(string))
		}
		return names, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]string), nil
}

func (r *Neo4jRepository) Close(ctx context.Context) error {
	return r.driver.Close(ctx)
}

var _ graph.Repository = (*Neo4jRepository)(nil)
