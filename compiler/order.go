package compiler

import (
	"sort"

	"github.com/MavenRain/CrossNet-sub002/errors"
	"github.com/MavenRain/CrossNet-sub002/model"
)

// TopologicalSort orders the nodes of graph so that every node follows the
// nodes it depends on. graph maps a node to its dependencies. Nodes are
// visited in sorted order, so equal graphs always give equal results.
func TopologicalSort(graph map[string][]string) ([]string, error) {
	// 0 = unvisited, 1 = visiting, 2 = visited
	visited := make(map[string]int)
	result := []string{}

	var visit func(string) error
	visit = func(node string) error {
		switch visited[node] {
		case 2:
			return nil
		case 1:
			return errors.Newf("cycle detected in the graph at %s", node)
		}
		visited[node] = 1
		deps := append([]string(nil), graph[node]...)
		sort.Strings(deps)
		for _, dep := range deps {
			if err := visit(dep); err != nil {
				return err
			}
		}
		visited[node] = 2
		result = append(result, node)
		return nil
	}

	nodes := make([]string, 0, len(graph))
	for node := range graph {
		nodes = append(nodes, node)
	}
	sort.Strings(nodes)
	for _, node := range nodes {
		if err := visit(node); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// typeGraph maps every top-level type of mod to the top-level types its base
// type and interfaces come from. References to types outside mod are left
// out.
func typeGraph(ts *TypeSystem, mod *model.Module) map[string][]string {
	owner := make(map[*model.TypeDecl]string)
	var own func(root string, t *model.TypeDecl)
	own = func(root string, t *model.TypeDecl) {
		owner[t] = root
		for _, n := range t.NestedTypes {
			own(root, n)
		}
	}
	for _, t := range mod.Types {
		own(t.FullName(), t)
	}

	graph := make(map[string][]string, len(mod.Types))
	var deps func(root string, t *model.TypeDecl)
	deps = func(root string, t *model.TypeDecl) {
		refs := append([]*model.TypeReference{t.BaseType}, t.Interfaces...)
		for _, r := range refs {
			d := ts.Resolve(r)
			if d == nil {
				continue
			}
			if o, ok := owner[d]; ok && o != root {
				graph[root] = append(graph[root], o)
			}
		}
		for _, n := range t.NestedTypes {
			deps(root, n)
		}
	}
	for _, t := range mod.Types {
		root := t.FullName()
		if _, ok := graph[root]; !ok {
			graph[root] = nil
		}
		deps(root, t)
	}
	return graph
}
