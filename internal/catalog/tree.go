// Package catalog contains the storefront's catalog-shaping logic: building
// the category forest from the flat parent-pointer snapshot, and translating
// filter/search/sort/page requests into store queries. Everything here is
// pure; all I/O is delegated to the store interfaces.
package catalog

import (
	"sort"

	"storefront-catalog-service/internal/domain"
)

// CategoryNode is a category plus its ordered active children. It is derived
// per request from a snapshot and never persisted. Children is always non-nil
// so leaf nodes serialize as "children": [].
type CategoryNode struct {
	domain.Category
	Children []*CategoryNode `json:"children"`
}

// BuildTree assembles the rooted category forest from a flat snapshot.
//
// Only active records appear in the output. A record whose parent is missing,
// inactive, or the record itself becomes a root rather than being dropped
// (dropping it would silently lose catalog data). Records caught in a
// parent-pointer cycle are each promoted to a root with the cycle edges
// severed; their non-cycle subtrees stay attached beneath them. Sibling lists
// and the root list are ordered by (sort_order asc, name asc).
func BuildTree(records []domain.Category) []*CategoryNode {
	nodes := make(map[int64]*CategoryNode, len(records))
	order := make([]int64, 0, len(records))
	for _, rec := range records {
		if !rec.IsActive {
			continue
		}
		nodes[rec.ID] = &CategoryNode{Category: rec, Children: []*CategoryNode{}}
		order = append(order, rec.ID)
	}

	// Single parent hop per record: either the parent is a usable node in the
	// snapshot, or the record is a natural root. Parent chains are never
	// followed here, so malformed data cannot cause unbounded work.
	childIDs := make(map[int64][]int64, len(nodes))
	naturalRoots := make([]int64, 0)
	for _, id := range order {
		n := nodes[id]
		if p := n.ParentID; p != nil && *p != id && nodes[*p] != nil {
			childIDs[*p] = append(childIDs[*p], id)
		} else {
			naturalRoots = append(naturalRoots, id)
		}
	}

	placed := make(map[int64]bool, len(nodes))
	roots := make([]*CategoryNode, 0, len(naturalRoots))
	spread := func(rootID int64) {
		queue := []int64{rootID}
		for len(queue) > 0 {
			id := queue[0]
			queue = queue[1:]
			for _, childID := range childIDs[id] {
				if placed[childID] {
					continue // severed cycle edge
				}
				placed[childID] = true
				nodes[id].Children = append(nodes[id].Children, nodes[childID])
				queue = append(queue, childID)
			}
		}
	}
	for _, id := range naturalRoots {
		placed[id] = true
		roots = append(roots, nodes[id])
	}
	for _, id := range naturalRoots {
		spread(id)
	}

	// Anything still unplaced hangs off a parent-pointer cycle. Every cycle
	// member becomes a root (marked before spreading, so no member is absorbed
	// as another member's child); spreading from them then places their
	// remaining descendants.
	members := cycleMembers(nodes, placed)
	for _, id := range members {
		placed[id] = true
		roots = append(roots, nodes[id])
	}
	for _, id := range members {
		spread(id)
	}

	for _, n := range nodes {
		sortSiblings(n.Children)
	}
	sortSiblings(roots)
	return roots
}

// cycleMembers finds the records that sit on a parent-pointer cycle among the
// unplaced nodes. Each unplaced node has exactly one live parent edge, so a
// marked walk along parent pointers is enough; the walk is iterative and
// bounded by the node count.
func cycleMembers(nodes map[int64]*CategoryNode, placed map[int64]bool) []int64 {
	const (
		walking = 1
		done    = 2
	)
	state := make(map[int64]int)
	var members []int64

	ids := make([]int64, 0)
	for id := range nodes {
		if !placed[id] {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, start := range ids {
		if state[start] != 0 {
			continue
		}
		path := []int64{}
		id := start
		for state[id] == 0 && !placed[id] {
			state[id] = walking
			path = append(path, id)
			id = *nodes[id].ParentID
		}
		if state[id] == walking {
			// Everything from the revisited node to the end of the path loops.
			for i := len(path) - 1; i >= 0; i-- {
				members = append(members, path[i])
				if path[i] == id {
					break
				}
			}
		}
		for _, p := range path {
			state[p] = done
		}
	}
	sort.Slice(members, func(i, j int) bool { return members[i] < members[j] })
	return members
}

func sortSiblings(ns []*CategoryNode) {
	sort.Slice(ns, func(i, j int) bool {
		if ns[i].SortOrder != ns[j].SortOrder {
			return ns[i].SortOrder < ns[j].SortOrder
		}
		return ns[i].Name < ns[j].Name
	})
}

// ResolveCategoryScope returns the target category plus every active
// descendant, so browsing a parent category includes subcategory products.
// The visited set makes the traversal terminate even when the snapshot
// contains self-parents or longer parent-pointer cycles.
func ResolveCategoryScope(categoryID int64, records []domain.Category) []int64 {
	children := make(map[int64][]int64, len(records))
	for _, rec := range records {
		if !rec.IsActive || rec.ParentID == nil || *rec.ParentID == rec.ID {
			continue
		}
		children[*rec.ParentID] = append(children[*rec.ParentID], rec.ID)
	}

	visited := map[int64]bool{categoryID: true}
	scope := []int64{categoryID}
	queue := []int64{categoryID}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, childID := range children[id] {
			if visited[childID] {
				continue
			}
			visited[childID] = true
			scope = append(scope, childID)
			queue = append(queue, childID)
		}
	}
	return scope
}
