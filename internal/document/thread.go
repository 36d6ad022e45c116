package document

// ThreadEntry pairs a document with its depth in a reply tree. Depth is 0 at
// the requested root and grows by one per reply level.
type ThreadEntry struct {
	Document Document
	Depth    int
}

// BuildThread reconstructs the reply tree rooted at rootID from a flat
// document snapshot.
//
// The traversal is iterative with an explicit visited set, so malformed
// parent links that form a cycle stop descending instead of recursing
// forever, and depth is bounded by the number of distinct documents.
// Siblings keep the snapshot's scan order, which makes repeated calls on the
// same snapshot stable. Returns nil when rootID is not in the snapshot;
// orphaned replies are reachable as roots of their own degenerate subtrees.
func BuildThread(docs []Document, rootID string) []ThreadEntry {
	byID := make(map[string]Document, len(docs))
	children := make(map[string][]Document)
	for _, doc := range docs {
		if _, dup := byID[doc.ID]; !dup {
			byID[doc.ID] = doc
		}
		if doc.ParentID != "" {
			children[doc.ParentID] = append(children[doc.ParentID], doc)
		}
	}

	if _, ok := byID[rootID]; !ok {
		return nil
	}

	type frame struct {
		id    string
		depth int
	}
	stack := []frame{{id: rootID}}
	visited := make(map[string]bool, len(docs))
	var out []ThreadEntry

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[top.id] {
			continue
		}
		visited[top.id] = true
		out = append(out, ThreadEntry{Document: byID[top.id], Depth: top.depth})

		// Push replies in reverse so they pop in scan order.
		replies := children[top.id]
		for i := len(replies) - 1; i >= 0; i-- {
			stack = append(stack, frame{id: replies[i].ID, depth: top.depth + 1})
		}
	}
	return out
}
