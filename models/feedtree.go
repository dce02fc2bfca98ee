package models

// TreeNode is one element of a FeedTree: either a feed leaf (Feed set) or a
// named category holding a subtree.
type TreeNode struct {
	Feed       string   `json:"feed,omitempty" yaml:"feed,omitempty"`
	Name       string   `json:"name,omitempty" yaml:"name,omitempty"`
	List       FeedTree `json:"list,omitempty" yaml:"list,omitempty"`
	BackendRef string   `json:"backend_ref,omitempty" yaml:"-"` // remote category id
}

// IsCategory reports whether the node is a category rather than a feed leaf.
func (n TreeNode) IsCategory() bool {
	return n.Feed == ""
}

// FeedTree is the ordered, user-visible grouping of feeds, independent of
// Summary/Abstract storage. For local accounts it comes from configuration;
// remote backends mirror the server's folder structure into it.
type FeedTree []TreeNode

// Feeds walks the tree depth-first and returns every feed key in order.
func (t FeedTree) Feeds() []string {
	var feeds []string
	for _, node := range t {
		if node.IsCategory() {
			feeds = append(feeds, node.List.Feeds()...)
		} else {
			feeds = append(feeds, node.Feed)
		}
	}
	return feeds
}

// Contains reports whether feed appears anywhere in the tree.
func (t FeedTree) Contains(feed string) bool {
	for _, node := range t {
		if node.IsCategory() {
			if node.List.Contains(feed) {
				return true
			}
		} else if node.Feed == feed {
			return true
		}
	}
	return false
}

// Append adds a feed leaf under the named category, or at the root when
// category is empty or unknown.
func (t FeedTree) Append(feed, category string) FeedTree {
	if category != "" {
		for i, node := range t {
			if node.IsCategory() && node.Name == category {
				t[i].List = t[i].List.Append(feed, "")
				return t
			}
		}
	}
	return append(t, TreeNode{Feed: feed})
}

// Remove deletes the first occurrence of feed from the tree.
func (t FeedTree) Remove(feed string) FeedTree {
	for i, node := range t {
		if node.IsCategory() {
			t[i].List = t[i].List.Remove(feed)
		} else if node.Feed == feed {
			return append(t[:i:i], t[i+1:]...)
		}
	}
	return t
}
