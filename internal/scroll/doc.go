// Package scroll keeps scroll offsets of named containers across destructive content swaps.
package scroll
