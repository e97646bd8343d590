package library

import (
	"encoding/json"
	"fmt"
	"os"
)

// UntitledFolder is the placeholder title for folders whose
// configuration entry carries none.
const UntitledFolder = "(untitled)"

// FolderNode is one node of the externally-owned classification tree.
// Titles are not unique among siblings and node identity does not
// survive a reload; navigation position is restored by title path.
// Member ids may be stale (absent from the item index) and are
// filtered out wherever children are materialized.
type FolderNode struct {
	Title    string
	Items    []string
	Children []*FolderNode
}

// RecursiveItems returns the node's member ids plus those of all
// descendants, in tree order. Duplicates across subfolders are kept;
// callers dedupe where it matters.
func (n *FolderNode) RecursiveItems() []string {
	ids := append([]string(nil), n.Items...)
	for _, child := range n.Children {
		ids = append(ids, child.RecursiveItems()...)
	}
	return ids
}

// RecursiveCount counts member ids (including descendants) that
// resolve in the given index. Stale ids are not counted.
func (n *FolderNode) RecursiveCount(index map[string]Item) int {
	count := 0
	for _, id := range n.RecursiveItems() {
		if _, ok := index[id]; ok {
			count++
		}
	}
	return count
}

type folderSpec struct {
	Title   string       `json:"title"`
	Items   []string     `json:"items"`
	Folders []folderSpec `json:"folders"`
}

type configEntry struct {
	Folders     []folderSpec `json:"folders"`
	Collections []folderSpec `json:"collections"`
}

// BuildTree reads the external configuration and builds the folder
// tree from the first top-level object exposing a non-empty folder
// list, preferring "folders" over "collections". Lists are never
// merged across objects. An unreadable or unparseable configuration
// file is fatal to the reload and is the caller's problem to report.
func BuildTree(configPath string) ([]*FolderNode, error) {
	raw, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", configPath, err)
	}

	var entries []configEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", configPath, err)
	}

	for _, entry := range entries {
		specs := entry.Folders
		if len(specs) == 0 {
			specs = entry.Collections
		}
		if len(specs) == 0 {
			continue
		}
		nodes := make([]*FolderNode, 0, len(specs))
		for _, spec := range specs {
			nodes = append(nodes, buildNode(spec))
		}
		return nodes, nil
	}
	return nil, nil
}

func buildNode(spec folderSpec) *FolderNode {
	title := spec.Title
	if title == "" {
		title = UntitledFolder
	}
	node := &FolderNode{
		Title: title,
		Items: append([]string(nil), spec.Items...),
	}
	for _, child := range spec.Folders {
		node.Children = append(node.Children, buildNode(child))
	}
	return node
}
