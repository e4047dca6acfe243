package seeder

import "fmt"

// DependencyGraph orders named nodes so every node follows its dependencies.
type DependencyGraph struct {
	deps  map[string][]string
	names []string
	order []string
}

func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		deps: make(map[string][]string),
	}
}

func (g *DependencyGraph) Add(name string, dependencies ...string) {
	if _, exists := g.deps[name]; !exists {
		g.names = append(g.names, name)
	}
	g.deps[name] = dependencies
}

// BuildOrder returns a topological order. Ties keep insertion order.
func (g *DependencyGraph) BuildOrder() ([]string, error) {
	visited := make(map[string]bool)
	temp := make(map[string]bool)
	var order []string

	var visit func(string) error
	visit = func(name string) error {
		if temp[name] {
			return fmt.Errorf("circular dependency detected involving: %s", name)
		}
		if visited[name] {
			return nil
		}

		deps, exists := g.deps[name]
		if !exists {
			return fmt.Errorf("unknown dependency: %s", name)
		}

		temp[name] = true
		for _, dep := range deps {
			if dep == name {
				continue
			}
			if err := visit(dep); err != nil {
				return err
			}
		}
		temp[name] = false
		visited[name] = true
		order = append(order, name)
		return nil
	}

	for _, name := range g.names {
		if !visited[name] {
			if err := visit(name); err != nil {
				return nil, err
			}
		}
	}

	g.order = order
	return order, nil
}

func (g *DependencyGraph) Order() []string {
	return g.order
}
