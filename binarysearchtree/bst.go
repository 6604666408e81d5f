package binarysearchtree

import (
	"sync"

	"golang.org/x/exp/constraints"
)

// node a single node that composes the tree
type node[K constraints.Ordered, V any] struct {
	key    K
	value  V
	left   *node[K, V]
	right  *node[K, V]
	height int
}

// Tree is an AVL tree, safe for concurrent readers.
type Tree[K constraints.Ordered, V any] struct {
	root *node[K, V]
	size int
	lock sync.RWMutex
}

type Iterator[K constraints.Ordered, V any] struct {
	t *Tree[K, V]
	n *node[K, V]
}

func (it Iterator[K, V]) Value() V {
	return it.n.value
}

func (it Iterator[K, V]) Key() K {
	return it.n.key
}

func (it Iterator[K, V]) End() bool {
	return it.n == nil
}

func (it Iterator[K, V]) Next() Iterator[K, V] {
	it.t.lock.RLock()
	defer it.t.lock.RUnlock()
	return Iterator[K, V]{t: it.t, n: above(it.t.root, it.n.key)}
}

func (it Iterator[K, V]) Prev() Iterator[K, V] {
	it.t.lock.RLock()
	defer it.t.lock.RUnlock()
	return Iterator[K, V]{t: it.t, n: below(it.t.root, it.n.key)}
}

func (t *Tree[K, V]) iter(n *node[K, V]) Iterator[K, V] {
	return Iterator[K, V]{t: t, n: n}
}

func (t *Tree[K, V]) Size() int {
	t.lock.RLock()
	defer t.lock.RUnlock()
	return t.size
}

// Insert stores value under key, replacing an existing value. It reports
// whether the key was new.
func (t *Tree[K, V]) Insert(key K, value V) bool {
	t.lock.Lock()
	defer t.lock.Unlock()
	var added bool
	t.root, added = insert(t.root, key, value)
	if added {
		t.size++
	}
	return added
}

func height[K constraints.Ordered, V any](n *node[K, V]) int {
	if n == nil {
		return 0
	}
	return n.height
}

func fix[K constraints.Ordered, V any](n *node[K, V]) {
	l, r := height(n.left), height(n.right)
	if l > r {
		n.height = l + 1
	} else {
		n.height = r + 1
	}
}

func rotateRight[K constraints.Ordered, V any](n *node[K, V]) *node[K, V] {
	l := n.left
	n.left = l.right
	l.right = n
	fix(n)
	fix(l)
	return l
}

func rotateLeft[K constraints.Ordered, V any](n *node[K, V]) *node[K, V] {
	r := n.right
	n.right = r.left
	r.left = n
	fix(n)
	fix(r)
	return r
}

func balance[K constraints.Ordered, V any](n *node[K, V]) *node[K, V] {
	fix(n)
	switch bf := height(n.left) - height(n.right); {
	case bf > 1:
		if height(n.left.left) < height(n.left.right) {
			n.left = rotateLeft(n.left)
		}
		return rotateRight(n)
	case bf < -1:
		if height(n.right.right) < height(n.right.left) {
			n.right = rotateRight(n.right)
		}
		return rotateLeft(n)
	}
	return n
}

func insert[K constraints.Ordered, V any](n *node[K, V], key K, value V) (*node[K, V], bool) {
	if n == nil {
		return &node[K, V]{key: key, value: value, height: 1}, true
	}
	var added bool
	switch {
	case key < n.key:
		n.left, added = insert(n.left, key, value)
	case key > n.key:
		n.right, added = insert(n.right, key, value)
	default:
		n.value = value
		return n, false
	}
	return balance(n), added
}

// Search returns the iterator at key, or an ended one.
func (t *Tree[K, V]) Search(key K) Iterator[K, V] {
	t.lock.RLock()
	defer t.lock.RUnlock()
	n := t.root
	for n != nil && n.key != key {
		if key < n.key {
			n = n.left
		} else {
			n = n.right
		}
	}
	return t.iter(n)
}

// Floor returns the greatest key <= key.
func (t *Tree[K, V]) Floor(key K) Iterator[K, V] {
	t.lock.RLock()
	defer t.lock.RUnlock()
	var found *node[K, V]
	for n := t.root; n != nil; {
		if n.key == key {
			return t.iter(n)
		}
		if n.key < key {
			found = n
			n = n.right
		} else {
			n = n.left
		}
	}
	return t.iter(found)
}

// Ceil returns the smallest key >= key.
func (t *Tree[K, V]) Ceil(key K) Iterator[K, V] {
	t.lock.RLock()
	defer t.lock.RUnlock()
	var found *node[K, V]
	for n := t.root; n != nil; {
		if n.key == key {
			return t.iter(n)
		}
		if n.key > key {
			found = n
			n = n.left
		} else {
			n = n.right
		}
	}
	return t.iter(found)
}

func (t *Tree[K, V]) Min() Iterator[K, V] {
	t.lock.RLock()
	defer t.lock.RUnlock()
	n := t.root
	for n != nil && n.left != nil {
		n = n.left
	}
	return t.iter(n)
}

func (t *Tree[K, V]) Max() Iterator[K, V] {
	t.lock.RLock()
	defer t.lock.RUnlock()
	n := t.root
	for n != nil && n.right != nil {
		n = n.right
	}
	return t.iter(n)
}

// above finds the smallest key strictly greater than key.
func above[K constraints.Ordered, V any](n *node[K, V], key K) *node[K, V] {
	var found *node[K, V]
	for n != nil {
		if n.key > key {
			found = n
			n = n.left
		} else {
			n = n.right
		}
	}
	return found
}

// below finds the greatest key strictly less than key.
func below[K constraints.Ordered, V any](n *node[K, V], key K) *node[K, V] {
	var found *node[K, V]
	for n != nil {
		if n.key < key {
			found = n
			n = n.right
		} else {
			n = n.left
		}
	}
	return found
}

// InOrderTraverse visits all values in key order.
func (t *Tree[K, V]) InOrderTraverse(f func(K, V)) {
	t.lock.RLock()
	defer t.lock.RUnlock()
	inOrderTraverse(t.root, f)
}

func inOrderTraverse[K constraints.Ordered, V any](n *node[K, V], f func(K, V)) {
	if n != nil {
		inOrderTraverse(n.left, f)
		f(n.key, n.value)
		inOrderTraverse(n.right, f)
	}
}
